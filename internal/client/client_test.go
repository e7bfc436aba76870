package client

import (
	"context"
	"testing"
	"time"

	"github.com/opd-ai/maestro/internal/audioengine"
	"github.com/opd-ai/maestro/internal/preset"
)

func newTestClient(t *testing.T) (*Client, context.CancelFunc) {
	t.Helper()
	registry := preset.NewRegistry()
	registry.LoadAll()
	engine := audioengine.New(registry, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go engine.Run(ctx)
	return New(engine, 1000, cancel), cancel
}

// TestPlayPresetMutedIsDropped verifies the mute gate suppresses
// fire-and-forget calls.
func TestPlayPresetMutedIsDropped(t *testing.T) {
	c, cancel := newTestClient(t)
	defer cancel()

	c.SetMute(true)
	c.PlayPreset("wood_kick", preset.Params{"duration": 5.0})
	time.Sleep(20 * time.Millisecond)

	active, err := c.GetActivePresets()
	if err != nil {
		t.Fatalf("GetActivePresets() error: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expected no active voices while muted, got %v", active)
	}
}

// TestPlayPresetUnmutedTracksVoice verifies normal playback when unmuted.
func TestPlayPresetUnmutedTracksVoice(t *testing.T) {
	c, cancel := newTestClient(t)
	defer cancel()

	c.PlayPreset("wood_kick", preset.Params{"duration": 5.0})
	time.Sleep(20 * time.Millisecond)

	active, err := c.GetActivePresets()
	if err != nil {
		t.Fatalf("GetActivePresets() error: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("expected one active voice, got %v", active)
	}
}

// TestGetCurrentMelodyDefaultEmpty verifies the client can query melody
// state without error before any block has played.
func TestGetCurrentMelodyDefaultEmpty(t *testing.T) {
	c, cancel := newTestClient(t)
	defer cancel()

	got, err := c.GetCurrentMelody()
	if err != nil {
		t.Fatalf("GetCurrentMelody() error: %v", err)
	}
	if got != "" {
		t.Errorf("GetCurrentMelody() = %q, want empty before any block plays", got)
	}
}

// TestShutdownCompletesBeforeDeadline verifies a clean worker exits well
// within the 2s join deadline.
func TestShutdownCompletesBeforeDeadline(t *testing.T) {
	c, _ := newTestClient(t)
	if err := c.Shutdown(); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}
