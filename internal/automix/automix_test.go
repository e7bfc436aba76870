package automix

import "testing"

// TestAutosetFixedGain verifies GainDB is always the constant 3dB regardless of measured loudness.
func TestAutosetFixedGain(t *testing.T) {
	m := New()
	parts := map[string]Part{
		"bass":  {Notes: []float64{65.4, 82.4}, Durations: []float64{1, 1}},
		"piano": {Notes: []float64{261.6, 329.6, 392.0}, Durations: []float64{1, 1, 1}},
	}

	settings := m.Autoset(parts)
	for name, s := range settings {
		if s.GainDB != FixedGainDB {
			t.Errorf("part %s: GainDB = %v, want %v", name, s.GainDB, FixedGainDB)
		}
	}
}

// TestAutosetEnableReverbHighRegister verifies the mean(note_midi) > 60
// heuristic.
func TestAutosetEnableReverbHighRegister(t *testing.T) {
	m := New()
	high := Part{Notes: []float64{523.25, 659.25, 783.99}, Durations: []float64{1, 1, 1}} // C5,E5,G5 ~ midi 72,76,79
	low := Part{Notes: []float64{65.4, 82.4}, Durations: []float64{1, 1}}                  // C2,E2 ~ midi 36,40

	settings := m.Autoset(map[string]Part{"high": high, "low": low})
	if !settings["high"].EnableReverb {
		t.Error("expected EnableReverb=true for high-register part")
	}
	if settings["low"].EnableReverb {
		t.Error("expected EnableReverb=false for low-register part")
	}
}

// TestAutosetEnableChorusNoteCount verifies the len(notes) > 6 heuristic.
func TestAutosetEnableChorusNoteCount(t *testing.T) {
	m := New()
	notes := make([]float64, 8)
	durs := make([]float64, 8)
	for i := range notes {
		notes[i] = 440.0
		durs[i] = 0.25
	}
	many := Part{Notes: notes, Durations: durs}
	few := Part{Notes: []float64{440.0, 440.0}, Durations: []float64{0.25, 0.25}}

	settings := m.Autoset(map[string]Part{"many": many, "few": few})
	if !settings["many"].EnableChorus {
		t.Error("expected EnableChorus=true for part with >6 notes")
	}
	if settings["few"].EnableChorus {
		t.Error("expected EnableChorus=false for part with <=6 notes")
	}
}

// TestFreqBinsCachedByLength verifies the rfftfreq cache is reused for a
// repeated sample count.
func TestFreqBinsCachedByLength(t *testing.T) {
	m := New()
	part := Part{Notes: []float64{440.0}, Durations: []float64{0.01}}

	m.autosetPart(part)
	cachedLen := len(m.freqCache)
	m.autosetPart(part)
	if len(m.freqCache) != cachedLen {
		t.Errorf("freqCache grew on repeated call with same sample count: %d -> %d", cachedLen, len(m.freqCache))
	}
}

// TestIntegratedLoudnessEmptyPart verifies a part with no notes doesn't
// panic and reports -Inf loudness.
func TestIntegratedLoudnessEmptyPart(t *testing.T) {
	m := New()
	got := m.integratedLoudness(Part{})
	if !isNegInf(got) {
		t.Errorf("integratedLoudness(empty) = %v, want -Inf", got)
	}
}

func isNegInf(f float64) bool {
	return f < -1e300
}
