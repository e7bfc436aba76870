package audiograph

import "math"

// onePoleLowpass renders a simple one-pole low-pass over child's signal.
type onePoleLowpass struct {
	baseNode
	Child Node
	Freq  float64
	state float64
}

// NewButLP creates a (simplified) Butterworth-style low-pass filter node.
// The "But" family is treated as an abstract DSP primitive; a one-pole IIR
// stands in for the biquad coefficients a full implementation would use.
func NewButLP(child Node, freq, q float64) Node {
	return &onePoleLowpass{baseNode: baseNode{mul: 1}, Child: child, Freq: freq}
}

func (f *onePoleLowpass) Render(n int, sampleRate float64) []float64 {
	in := f.Child.Render(n, sampleRate)
	out := make([]float64, n)
	alpha := clamp(f.Freq/(f.Freq+sampleRate/(2*math.Pi)), 0, 1)
	for i := 0; i < n; i++ {
		f.state += alpha * (in[i] - f.state)
		out[i] = f.state * f.mul
	}
	return out
}

func (f *onePoleLowpass) IsAlive() bool { return f.Child.IsAlive() }

// onePoleHighpass renders a one-pole high-pass over child's signal.
type onePoleHighpass struct {
	baseNode
	Child    Node
	Freq     float64
	prevIn   float64
	prevOut  float64
	hasPrior bool
}

// NewButHP creates a (simplified) Butterworth-style high-pass filter node.
func NewButHP(child Node, freq, q float64) Node {
	return &onePoleHighpass{baseNode: baseNode{mul: 1}, Child: child, Freq: freq}
}

func (f *onePoleHighpass) Render(n int, sampleRate float64) []float64 {
	in := f.Child.Render(n, sampleRate)
	out := make([]float64, n)
	rc := 1.0 / (2 * math.Pi * f.Freq)
	dt := 1.0 / sampleRate
	alpha := rc / (rc + dt)
	for i := 0; i < n; i++ {
		if !f.hasPrior {
			f.prevOut = 0
			f.prevIn = in[i]
			f.hasPrior = true
		}
		f.prevOut = alpha * (f.prevOut + in[i] - f.prevIn)
		f.prevIn = in[i]
		out[i] = f.prevOut * f.mul
	}
	return out
}

func (f *onePoleHighpass) IsAlive() bool { return f.Child.IsAlive() }

// bandpass chains a low-pass and a high-pass to approximate a band-pass.
type bandpass struct {
	baseNode
	lp, hp Node
}

// NewButBP creates a (simplified) Butterworth-style band-pass filter node.
func NewButBP(child Node, freq, q float64) Node {
	lp := NewButLP(child, freq*1.5, q)
	hp := NewButHP(lp, freq*0.5, q)
	return &bandpass{baseNode: baseNode{mul: 1}, lp: lp, hp: hp}
}

func (b *bandpass) Render(n int, sampleRate float64) []float64 {
	out := b.hp.Render(n, sampleRate)
	for i := range out {
		out[i] *= b.mul
	}
	return out
}

func (b *bandpass) IsAlive() bool { return b.hp.IsAlive() }

// Biquad is a direct-form-II biquad filter, parameterized by raw
// coefficients. It's the escape hatch alongside the named Butterworth
// helpers for callers that need explicit coefficients.
type Biquad struct {
	baseNode
	Child              Node
	B0, B1, B2, A1, A2 float64

	x1, x2, y1, y2 float64
}

// NewBiquad creates a biquad filter node with the given coefficients.
func NewBiquad(child Node, b0, b1, b2, a1, a2 float64) *Biquad {
	return &Biquad{baseNode: baseNode{mul: 1}, Child: child, B0: b0, B1: b1, B2: b2, A1: a1, A2: a2}
}

func (b *Biquad) Render(n int, sampleRate float64) []float64 {
	in := b.Child.Render(n, sampleRate)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		x0 := in[i]
		y0 := b.B0*x0 + b.B1*b.x1 + b.B2*b.x2 - b.A1*b.y1 - b.A2*b.y2
		b.x2, b.x1 = b.x1, x0
		b.y2, b.y1 = b.y1, y0
		out[i] = y0 * b.mul
	}
	return out
}

func (b *Biquad) IsAlive() bool { return b.Child.IsAlive() }
