package melody

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// TestStripCommentsPreservesStrings verifies comment stripping never mangles
// string content that happens to contain slashes.
func TestStripCommentsPreservesStrings(t *testing.T) {
	in := []byte(`{"title": "a // b", "tempo": 120}`)
	out := StripComments(in)
	if string(out) != string(in) {
		t.Fatalf("StripComments mutated string content: %q", out)
	}
}

// TestStripCommentsRemovesLineAndBlock verifies both line and block comment
// styles are tolerated in annotated melody files.
func TestStripCommentsRemovesLineAndBlock(t *testing.T) {
	in := []byte("/* hdr */ {\n  // a comment\n  \"tempo\": 100\n}")
	out := StripComments(in)

	var parsed map[string]interface{}
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("stripped output failed to parse as JSON: %v\n%s", err, out)
	}
	if parsed["tempo"].(float64) != 100 {
		t.Errorf("tempo = %v, want 100", parsed["tempo"])
	}
}

// TestLoadRepoWithComments verifies a melody file with inline comments
// parses with the right tempo and a single hand of one event.
func TestLoadRepoWithComments(t *testing.T) {
	dir := t.TempDir()
	content := `/* hdr */ { "tempo": 100, "notes":[{"frequency":440,"duration":1}] }`
	if err := os.WriteFile(filepath.Join(dir, "sample.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewCompositor()
	if err := c.LoadRepo(dir); err != nil {
		t.Fatalf("LoadRepo() error: %v", err)
	}

	m, ok := c.Melodies["sample"]
	if !ok {
		t.Fatal("expected melody \"sample\" to be registered")
	}
	if m.Tempo != 100 {
		t.Errorf("Tempo = %v, want 100", m.Tempo)
	}
	if len(m.Hands) != 1 || len(m.Hands[0]) != 1 {
		t.Fatalf("Hands = %+v, want one hand of one event", m.Hands)
	}
}

// TestCompositorWrapAround verifies that after k events from a hand of
// length n, the cursor equals k mod n.
func TestCompositorWrapAround(t *testing.T) {
	c := NewCompositor()
	c.Melodies["m"] = &Melody{
		Hands: [][]NoteEvent{
			{{Frequency: 1, DurationBeats: 1, Intensity: 1}, {Frequency: 2, DurationBeats: 1, Intensity: 1}, {Frequency: 3, DurationBeats: 1, Intensity: 1}},
		},
	}
	c.Start("m")

	for k := 1; k <= 10; k++ {
		c.NextEvent()
		want := k % 3
		if got := c.CursorOf(0); got != want {
			t.Errorf("after %d events, cursor = %d, want %d", k, got, want)
		}
	}
}

// TestNextEventNoMelodyEmitsSilence verifies the silence fallback when no
// melody has been started.
func TestNextEventNoMelodyEmitsSilence(t *testing.T) {
	c := NewCompositor()
	notes, durations, intensity := c.NextEvent()
	if len(notes) != 1 || notes[0] != 0.0 {
		t.Errorf("notes = %v, want [0.0]", notes)
	}
	if len(durations) != 1 || durations[0] != 1.0 {
		t.Errorf("durations = %v, want [1.0]", durations)
	}
	if len(intensity) != 1 || intensity[0] != 0.0 {
		t.Errorf("intensity = %v, want [0.0]", intensity)
	}
}

// TestNextBlockEventsTerminates verifies NextBlockEvents accumulates time and
// stops once it reaches the requested beat count.
func TestNextBlockEventsTerminates(t *testing.T) {
	c := NewCompositor()
	c.Melodies["m"] = &Melody{
		Hands: [][]NoteEvent{
			{{Frequency: 1, DurationBeats: 1, Intensity: 1}},
		},
	}
	c.Start("m")

	ticks := c.NextBlockEvents(4.0)
	if len(ticks) == 0 {
		t.Fatal("expected at least one tick")
	}
	if ticks[len(ticks)-1].Time < 3.0 {
		t.Errorf("last tick time = %v, want >= 3.0 (approaching 4 beats)", ticks[len(ticks)-1].Time)
	}
}

// TestPitchClass spot-checks the pitch-class mapping used by the harmonic
// analyser (A4=440Hz is pitch class 9).
func TestPitchClass(t *testing.T) {
	if pc := PitchClass(440.0); pc != 9 {
		t.Errorf("PitchClass(440) = %d, want 9", pc)
	}
	if pc := PitchClass(261.6255653); pc != 0 { // middle C
		t.Errorf("PitchClass(261.63) = %d, want 0", pc)
	}
}
