package audiograph

import "math"

// Mix sums multiple child nodes into a single mono signal.
type Mix struct {
	baseNode
	Children []Node
}

// NewMix creates a summing mixer over the given children.
func NewMix(children ...Node) *Mix {
	return &Mix{baseNode: baseNode{mul: 1}, Children: children}
}

func (m *Mix) Render(n int, sampleRate float64) []float64 {
	out := make([]float64, n)
	for _, c := range m.Children {
		samples := c.Render(n, sampleRate)
		for i, v := range samples {
			out[i] += v
		}
	}
	for i := range out {
		out[i] *= m.mul
	}
	return out
}

func (m *Mix) IsAlive() bool {
	for _, c := range m.Children {
		if c.IsAlive() {
			return true
		}
	}
	return false
}

// StereoFrame is a left/right sample pair.
type StereoFrame struct {
	L, R float64
}

// StereoNode is a node that renders a panned stereo signal. Pan is the only
// node that turns a mono signal into stereo; everything upstream of it in a
// graph is mono, and StereoGain only wraps an existing StereoNode.
type StereoNode interface {
	RenderStereo(n int, sampleRate float64) []StereoFrame
	IsAlive() bool
}

// Pan applies an equal-power pan to a mono child, producing stereo output.
// Value of -1 is hard left, 0 is center, +1 is hard right.
type Pan struct {
	Child Node
	Value float64
}

// NewPan creates a Pan node around a mono child.
func NewPan(child Node, value float64) *Pan {
	return &Pan{Child: child, Value: clamp(value, -1, 1)}
}

func (p *Pan) RenderStereo(n int, sampleRate float64) []StereoFrame {
	mono := p.Child.Render(n, sampleRate)
	angle := (p.Value + 1) * math.Pi / 4 // maps [-1,1] -> [0, pi/2]
	gainL := math.Cos(angle)
	gainR := math.Sin(angle)

	out := make([]StereoFrame, n)
	for i, v := range mono {
		out[i] = StereoFrame{L: v * gainL, R: v * gainR}
	}
	return out
}

func (p *Pan) IsAlive() bool { return p.Child.IsAlive() }
