package config

import "testing"

// TestLoadDefaults verifies that Load populates sane defaults when no config
// file is present on disk.
func TestLoadDefaults(t *testing.T) {
	if err := Load(); err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	c := Get()
	if c.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", c.SampleRate)
	}
	if c.BufferSize != 1024 {
		t.Errorf("BufferSize = %d, want 1024", c.BufferSize)
	}
	if c.ChannelCount != 2 {
		t.Errorf("ChannelCount = %d, want 2", c.ChannelCount)
	}
	if c.CleanupInterval != 1.0 {
		t.Errorf("CleanupInterval = %v, want 1.0", c.CleanupInterval)
	}
	if c.CommandRateLimitRPS != 64.0 {
		t.Errorf("CommandRateLimitRPS = %v, want 64.0", c.CommandRateLimitRPS)
	}
}

// TestSetAndGet verifies Set/Get round-trip safely under the shared mutex.
func TestSetAndGet(t *testing.T) {
	want := Config{SampleRate: 48000, BufferSize: 512, ChannelCount: 1}
	Set(want)

	got := Get()
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}
