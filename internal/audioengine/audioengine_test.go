package audioengine

import (
	"context"
	"testing"
	"time"

	"github.com/opd-ai/maestro/internal/audiograph"
	"github.com/opd-ai/maestro/internal/preset"
)

func newTestEngine(t *testing.T) (*Engine, context.CancelFunc) {
	t.Helper()
	registry := preset.NewRegistry()
	registry.LoadAll()
	e := New(registry, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go e.Run(ctx)
	return e, cancel
}

// TestPlayPresetTracksActiveVoice verifies a known preset is instantiated
// and appears in get_active_presets.
func TestPlayPresetTracksActiveVoice(t *testing.T) {
	e, cancel := newTestEngine(t)
	defer cancel()

	e.PlayPreset("wood_kick", preset.Params{"duration": 5.0})
	time.Sleep(30 * time.Millisecond)

	active := e.GetActivePresets()
	found := false
	for _, a := range active {
		if a.Name == "wood_kick" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected wood_kick in active presets, got %v", active)
	}
}

// TestPlayPresetUnknownNameDropped verifies an unknown preset name is
// silently dropped rather than crashing the worker.
func TestPlayPresetUnknownNameDropped(t *testing.T) {
	e, cancel := newTestEngine(t)
	defer cancel()

	e.PlayPreset("does-not-exist", preset.Params{})
	time.Sleep(20 * time.Millisecond)

	active := e.GetActivePresets()
	if len(active) != 0 {
		t.Errorf("expected no active voices after unknown preset, got %v", active)
	}
}

// TestCleanupRemovesFinishedVoices verifies the reaper removes a voice once
// its handle reports done.
func TestCleanupRemovesFinishedVoices(t *testing.T) {
	e, cancel := newTestEngine(t)
	defer cancel()

	e.PlayPreset("wood_kick", preset.Params{"duration": 0.01})
	time.Sleep(200 * time.Millisecond) // well past duration + two cleanup ticks

	active := e.GetActivePresets()
	if len(active) != 0 {
		t.Errorf("expected reaper to remove finished voice, got %v", active)
	}
}

// TestPlayBlockSetsCurrentMelody verifies play_block records the melody
// name.
func TestPlayBlockSetsCurrentMelody(t *testing.T) {
	e, cancel := newTestEngine(t)
	defer cancel()

	ctx := context.Background()
	e.PlayBlock(ctx, []ScheduledEvent{
		{TimeOffsetSeconds: 0, Preset: "wood_kick", Params: preset.Params{}},
	}, "my_song")
	time.Sleep(20 * time.Millisecond)

	if got := e.GetCurrentMelody(); got != "my_song" {
		t.Errorf("GetCurrentMelody() = %q, want %q", got, "my_song")
	}
}

// TestPlayPresetWithOutputStartsLivePlayback verifies that with an Output
// sink wired, playing a preset goes through the live-playback path and the
// voice is still tracked exactly once.
func TestPlayPresetWithOutputStartsLivePlayback(t *testing.T) {
	e, cancel := newTestEngine(t)
	defer cancel()
	e.SetOutput(audiograph.NewPlayback(44100), 44100)

	e.PlayPreset("wood_kick", preset.Params{"duration": 0.02})
	time.Sleep(30 * time.Millisecond)

	active := e.GetActivePresets()
	if len(active) != 1 {
		t.Errorf("expected one active voice with output wired, got %v", active)
	}
}

// TestPlayBlockDefaultsToCustomMelody verifies an empty name falls back to
// "custom_melody".
func TestPlayBlockDefaultsToCustomMelody(t *testing.T) {
	e, cancel := newTestEngine(t)
	defer cancel()

	e.PlayBlock(context.Background(), nil, "")
	time.Sleep(20 * time.Millisecond)

	if got := e.GetCurrentMelody(); got != "custom_melody" {
		t.Errorf("GetCurrentMelody() = %q, want %q", got, "custom_melody")
	}
}
