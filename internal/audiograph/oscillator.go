package audiograph

import "math"

// Sine is a single-cycle sine oscillator at a fixed frequency.
type Sine struct {
	baseNode
	Freq  float64
	phase float64
}

// NewSine creates a Sine oscillator with the given frequency and gain.
func NewSine(freq, mul float64) *Sine {
	return &Sine{baseNode: baseNode{mul: mul}, Freq: freq}
}

func (s *Sine) Render(n int, sampleRate float64) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = math.Sin(2*math.Pi*s.phase) * s.mul
		s.phase = wrapPhase(s.phase + s.Freq/sampleRate)
	}
	return out
}

func (s *Sine) IsAlive() bool { return true }

// SineLoop is a free-running sine oscillator identical to Sine; it is
// distinguished only so callers can express "this voice never naturally
// ends" the way the AudioNodeLib surface distinguishes the two.
type SineLoop struct{ Sine }

// NewSineLoop creates a SineLoop oscillator.
func NewSineLoop(freq, mul float64) *SineLoop {
	return &SineLoop{Sine: Sine{baseNode: baseNode{mul: mul}, Freq: freq}}
}

// Noise is a deterministic pseudo-random noise generator. Determinism keeps
// preset builds reproducible in tests; a phase-seeded sine hash stands in for
// a true PRNG, generating noise from a phase argument alone.
type Noise struct {
	baseNode
	phase float64
}

// NewNoise creates a Noise generator with the given gain.
func NewNoise(mul float64) *Noise {
	return &Noise{baseNode: baseNode{mul: mul}}
}

func (n *Noise) Render(count int, sampleRate float64) []float64 {
	out := make([]float64, count)
	for i := 0; i < count; i++ {
		x := math.Sin(n.phase*12.9898+78.233) * 43758.5453
		out[i] = (2.0*(x-math.Floor(x)) - 1.0) * n.mul
		n.phase += 1.0 / sampleRate * 997.0
	}
	return out
}

func (n *Noise) IsAlive() bool { return true }

// FM is a two-operator frequency-modulation oscillator: carrier modulated by
// a ratio-locked operator scaled by index.
type FM struct {
	baseNode
	Carrier float64
	Ratio   float64
	Index   float64

	carrierPhase   float64
	modulatorPhase float64
}

// NewFM creates an FM oscillator.
func NewFM(carrier, ratio, index, mul float64) *FM {
	return &FM{baseNode: baseNode{mul: mul}, Carrier: carrier, Ratio: ratio, Index: index}
}

func (f *FM) Render(n int, sampleRate float64) []float64 {
	out := make([]float64, n)
	modFreq := f.Carrier * f.Ratio
	for i := 0; i < n; i++ {
		modSample := math.Sin(2 * math.Pi * f.modulatorPhase)
		out[i] = math.Sin(2*math.Pi*f.carrierPhase+f.Index*modSample) * f.mul
		f.carrierPhase = wrapPhase(f.carrierPhase + f.Carrier/sampleRate)
		f.modulatorPhase = wrapPhase(f.modulatorPhase + modFreq/sampleRate)
	}
	return out
}

func (f *FM) IsAlive() bool { return true }
