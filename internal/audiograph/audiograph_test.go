package audiograph

import (
	"math"
	"testing"
)

// TestSineRenderLength verifies Sine.Render produces exactly n samples.
func TestSineRenderLength(t *testing.T) {
	s := NewSine(440, 1.0)
	out := s.Render(100, 44100)
	if len(out) != 100 {
		t.Fatalf("len(out) = %d, want 100", len(out))
	}
}

// TestSineAlwaysAlive verifies a bare oscillator never reports done.
func TestSineAlwaysAlive(t *testing.T) {
	s := NewSine(440, 1.0)
	s.Render(44100, 44100)
	if !s.IsAlive() {
		t.Error("Sine.IsAlive() = false, want true (oscillators never self-terminate)")
	}
}

// TestFaderIsDone verifies a Fader reports alive during its lifetime and
// done once FadeIn+Dur+FadeOut has elapsed.
func TestFaderIsDone(t *testing.T) {
	tests := []struct {
		name           string
		fadeIn, fadeOut, dur float64
		renderSeconds  float64
		wantAlive      bool
	}{
		{"midway through sustain", 0.005, 0.02, 1.0, 0.5, true},
		{"exactly at boundary", 0.005, 0.02, 1.0, 1.025, false},
		{"well past boundary", 0.005, 0.02, 1.0, 2.0, false},
		{"just started", 0.005, 0.02, 1.0, 0.001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFader(NewSine(440, 1.0), tt.fadeIn, tt.fadeOut, tt.dur, 0.8)
			sampleRate := 1000.0
			n := int(tt.renderSeconds * sampleRate)
			f.Render(n, sampleRate)
			if got := f.IsAlive(); got != tt.wantAlive {
				t.Errorf("IsAlive() = %v, want %v", got, tt.wantAlive)
			}
		})
	}
}

// TestPanCenterEqualPower verifies a centered Pan splits power evenly.
func TestPanCenterEqualPower(t *testing.T) {
	p := NewPan(NewSine(440, 1.0), 0.0)
	frames := p.RenderStereo(10, 44100)
	for _, f := range frames {
		if math.Abs(f.L-f.R) > 1e-9 {
			t.Fatalf("center pan frame not balanced: L=%v R=%v", f.L, f.R)
		}
	}
}

// TestPanHardLeftSilencesRight verifies a hard-left pan zeroes the right
// channel.
func TestPanHardLeftSilencesRight(t *testing.T) {
	p := NewPan(NewSine(440, 1.0), -1.0)
	frames := p.RenderStereo(50, 44100)
	for _, f := range frames {
		if math.Abs(f.R) > 1e-6 {
			t.Fatalf("hard-left pan leaked into right channel: %v", f.R)
		}
	}
}

// TestMixAliveUntilAllChildrenDone verifies Mix.IsAlive is a logical OR over
// its children.
func TestMixAliveUntilAllChildrenDone(t *testing.T) {
	short := NewFader(NewSine(440, 1), 0, 0, 0.01, 1)
	long := NewFader(NewSine(220, 1), 0, 0, 10, 1)
	m := NewMix(short, long)

	sampleRate := 1000.0
	m.Render(int(0.02*sampleRate), sampleRate)

	if !m.IsAlive() {
		t.Error("Mix.IsAlive() = false, want true while any child remains alive")
	}
}

// TestEncodeWAVHeader verifies the generated buffer carries a valid RIFF/WAVE
// header and the expected PCM byte count.
func TestEncodeWAVHeader(t *testing.T) {
	node := NewPan(NewFader(NewSine(440, 1), 0, 0, 1, 0.5), 0)
	data := EncodeWAV(node, 8000, 1.0)

	if string(data[0:4]) != "RIFF" {
		t.Fatalf("missing RIFF chunk id, got %q", data[0:4])
	}
	if string(data[8:12]) != "WAVE" {
		t.Fatalf("missing WAVE format id, got %q", data[8:12])
	}
	wantDataBytes := 8000 * 4 // 1s * 4 bytes/frame (stereo 16-bit)
	if len(data) != 44+wantDataBytes {
		t.Fatalf("len(data) = %d, want %d", len(data), 44+wantDataBytes)
	}
}
