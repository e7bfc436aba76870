package arrangement

import (
	"testing"

	"github.com/opd-ai/maestro/internal/melody"
	"github.com/opd-ai/maestro/internal/progression"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	c := melody.NewCompositor()
	c.Melodies["test"] = &melody.Melody{
		Name:       "test",
		Tempo:      120,
		TimeSigNum: 4,
		TimeSigDen: 4,
		Hands: [][]melody.NoteEvent{
			{
				{Frequency: 261.63, DurationBeats: 1, Intensity: 0.8},
				{Frequency: 329.63, DurationBeats: 1, Intensity: 0.8},
				{Frequency: 392.00, DurationBeats: 1, Intensity: 0.8},
				{Frequency: 523.25, DurationBeats: 1, Intensity: 0.8},
			},
		},
	}
	c.Start("test")
	return New(c, progression.DefaultTemplates(), 7)
}

// TestPrepareBlockReturnsMelodyAndVoicedParts verifies the pipeline
// produces at least the "melody", "bass", and "piano" parts.
func TestPrepareBlockReturnsMelodyAndVoicedParts(t *testing.T) {
	e := newTestEngine(t)
	parts := e.PrepareBlock(8)
	if parts == nil {
		t.Fatal("expected non-nil parts map")
	}
	for _, want := range []string{"melody", "bass", "piano"} {
		if _, ok := parts[want]; !ok {
			t.Errorf("expected part %q in result, got keys %v", want, keysOf(parts))
		}
	}
}

// TestPrepareBlockMuteIsNoop verifies mute makes PrepareBlock return nil.
func TestPrepareBlockMuteIsNoop(t *testing.T) {
	e := newTestEngine(t)
	e.Mute = true
	if parts := e.PrepareBlock(8); parts != nil {
		t.Errorf("expected nil parts map while muted, got %v", parts)
	}
}

// TestPrepareBlockMelodyPartMatchesRawNotes verifies the injected "melody"
// part carries the flattened raw compositor notes.
func TestPrepareBlockMelodyPartMatchesRawNotes(t *testing.T) {
	e := newTestEngine(t)
	parts := e.PrepareBlock(4)
	melodyPart, ok := parts["melody"]
	if !ok {
		t.Fatal("expected \"melody\" part")
	}
	if len(melodyPart.Notes) == 0 {
		t.Error("expected melody part to carry raw notes")
	}
	if len(melodyPart.Notes) != len(melodyPart.Durations) {
		t.Errorf("melody notes/durations length mismatch: %d vs %d", len(melodyPart.Notes), len(melodyPart.Durations))
	}
}

func keysOf(m map[string]Part) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
