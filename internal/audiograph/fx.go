package audiograph

import "math"

// Freeverb is a short comb-and-allpass reverb approximation. Size controls
// the decay tail length; Bal is the dry/wet balance in [0,1].
type Freeverb struct {
	baseNode
	Child Node
	Size  float64
	Bal   float64

	buf    []float64
	writeI int
}

// NewFreeverb creates a Freeverb-style reverb node around child.
func NewFreeverb(child Node, size, bal float64) *Freeverb {
	return &Freeverb{baseNode: baseNode{mul: 1}, Child: child, Size: size, Bal: bal}
}

func (r *Freeverb) Render(n int, sampleRate float64) []float64 {
	dry := r.Child.Render(n, sampleRate)
	delaySamples := int(clamp(r.Size, 0.01, 5.0) * sampleRate * 0.05)
	if delaySamples < 1 {
		delaySamples = 1
	}
	if len(r.buf) != delaySamples {
		r.buf = make([]float64, delaySamples)
		r.writeI = 0
	}

	out := make([]float64, n)
	feedback := 0.6
	for i := 0; i < n; i++ {
		wet := r.buf[r.writeI]
		r.buf[r.writeI] = dry[i] + wet*feedback
		r.writeI = (r.writeI + 1) % len(r.buf)
		out[i] = (dry[i]*(1-r.Bal) + wet*r.Bal) * r.mul
	}
	return out
}

func (r *Freeverb) IsAlive() bool { return r.Child.IsAlive() }

// Chorus modulates a short delay line with an LFO to produce a chorus
// effect. Depth scales the LFO excursion, Feedback recirculates the delay
// line, Bal is the dry/wet balance.
type Chorus struct {
	baseNode
	Child    Node
	Depth    float64
	Feedback float64
	Bal      float64

	buf    []float64
	writeI int
	lfo    float64
}

// NewChorus creates a Chorus node around child.
func NewChorus(child Node, depth, feedback, bal float64) *Chorus {
	return &Chorus{baseNode: baseNode{mul: 1}, Child: child, Depth: depth, Feedback: feedback, Bal: bal}
}

func (c *Chorus) Render(n int, sampleRate float64) []float64 {
	dry := c.Child.Render(n, sampleRate)
	maxDelay := int(0.03 * sampleRate)
	if len(c.buf) != maxDelay {
		c.buf = make([]float64, maxDelay)
		c.writeI = 0
	}

	out := make([]float64, n)
	lfoFreq := 0.5
	for i := 0; i < n; i++ {
		c.buf[c.writeI] = dry[i] + c.readDelayed(0.01*sampleRate)*c.Feedback
		modDelay := 0.01*sampleRate + c.Depth*0.008*sampleRate*math.Sin(2*math.Pi*c.lfo)
		wet := c.readDelayed(modDelay)
		out[i] = (dry[i]*(1-c.Bal) + wet*c.Bal) * c.mul

		c.writeI = (c.writeI + 1) % len(c.buf)
		c.lfo = wrapPhase(c.lfo + lfoFreq/sampleRate)
	}
	return out
}

func (c *Chorus) readDelayed(delaySamples float64) float64 {
	idx := c.writeI - int(delaySamples)
	for idx < 0 {
		idx += len(c.buf)
	}
	return c.buf[idx%len(c.buf)]
}

func (c *Chorus) IsAlive() bool { return c.Child.IsAlive() }

// Delay is a feedback delay line (echo).
type Delay struct {
	baseNode
	Child    Node
	DelaySec float64
	Feedback float64

	buf    []float64
	writeI int
}

// NewDelay creates a feedback delay around child.
func NewDelay(child Node, delaySec, feedback, mul float64) *Delay {
	return &Delay{baseNode: baseNode{mul: mul}, Child: child, DelaySec: delaySec, Feedback: feedback}
}

func (d *Delay) Render(n int, sampleRate float64) []float64 {
	in := d.Child.Render(n, sampleRate)
	delaySamples := int(clamp(d.DelaySec, 0.001, 5.0) * sampleRate)
	if len(d.buf) != delaySamples {
		d.buf = make([]float64, delaySamples)
		d.writeI = 0
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		delayed := d.buf[d.writeI]
		out[i] = (in[i] + delayed) * d.mul
		d.buf[d.writeI] = in[i] + delayed*d.Feedback
		d.writeI = (d.writeI + 1) % len(d.buf)
	}
	return out
}

func (d *Delay) IsAlive() bool { return d.Child.IsAlive() }

// Clip hard-clips child's signal to [-1, 1].
type Clip struct {
	baseNode
	Child Node
}

// NewClip creates a hard-clip node around child.
func NewClip(child Node) *Clip { return &Clip{baseNode: baseNode{mul: 1}, Child: child} }

func (c *Clip) Render(n int, sampleRate float64) []float64 {
	in := c.Child.Render(n, sampleRate)
	out := make([]float64, n)
	for i, v := range in {
		out[i] = clamp(v, -1, 1) * c.mul
	}
	return out
}

func (c *Clip) IsAlive() bool { return c.Child.IsAlive() }

// Tanh soft-clips child's signal through a hyperbolic tangent.
type Tanh struct {
	baseNode
	Child Node
}

// NewTanh creates a soft-clip node around child.
func NewTanh(child Node) *Tanh { return &Tanh{baseNode: baseNode{mul: 1}, Child: child} }

func (t *Tanh) Render(n int, sampleRate float64) []float64 {
	in := t.Child.Render(n, sampleRate)
	out := make([]float64, n)
	for i, v := range in {
		out[i] = math.Tanh(v) * t.mul
	}
	return out
}

func (t *Tanh) IsAlive() bool { return t.Child.IsAlive() }

// Disto applies drive-and-slope waveshaping distortion.
type Disto struct {
	baseNode
	Child Node
	Drive float64
	Slope float64
}

// NewDisto creates a distortion node around child.
func NewDisto(child Node, drive, slope, mul float64) *Disto {
	return &Disto{baseNode: baseNode{mul: mul}, Child: child, Drive: drive, Slope: slope}
}

func (d *Disto) Render(n int, sampleRate float64) []float64 {
	in := d.Child.Render(n, sampleRate)
	out := make([]float64, n)
	for i, v := range in {
		driven := v * (1 + d.Drive*10)
		shaped := math.Tanh(driven * d.Slope)
		out[i] = shaped * d.mul
	}
	return out
}

func (d *Disto) IsAlive() bool { return d.Child.IsAlive() }

// Gate silences child's signal below a fixed threshold, used to trim noise
// floor on percussive voices.
type Gate struct {
	baseNode
	Child     Node
	Threshold float64
}

// NewGate creates a noise gate around child.
func NewGate(child Node, threshold float64) *Gate {
	return &Gate{baseNode: baseNode{mul: 1}, Child: child, Threshold: threshold}
}

func (g *Gate) Render(n int, sampleRate float64) []float64 {
	in := g.Child.Render(n, sampleRate)
	out := make([]float64, n)
	for i, v := range in {
		if math.Abs(v) < g.Threshold {
			out[i] = 0
		} else {
			out[i] = v * g.mul
		}
	}
	return out
}

func (g *Gate) IsAlive() bool { return g.Child.IsAlive() }

// SigTo ramps linearly from the node's current value toward Target over
// RampSec seconds, used for gain/parameter automation.
type SigTo struct {
	baseNode
	Target  float64
	RampSec float64
	current float64
}

// NewSigTo creates a SigTo ramp starting at start and moving to target.
func NewSigTo(start, target, rampSec float64) *SigTo {
	return &SigTo{baseNode: baseNode{mul: 1}, Target: target, RampSec: rampSec, current: start}
}

func (s *SigTo) Render(n int, sampleRate float64) []float64 {
	out := make([]float64, n)
	step := 0.0
	if s.RampSec > 0 {
		step = (s.Target - s.current) / (s.RampSec * sampleRate)
	}
	for i := 0; i < n; i++ {
		if s.RampSec <= 0 {
			s.current = s.Target
		} else if math.Abs(s.Target-s.current) > math.Abs(step) {
			s.current += step
		} else {
			s.current = s.Target
		}
		out[i] = s.current * s.mul
	}
	return out
}

func (s *SigTo) IsAlive() bool { return true }
