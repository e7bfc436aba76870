package audiograph

// StereoGain scales a stereo child's output by a fixed linear gain. It backs
// the AudioEngine scheduler's gain_db post-hook,
// applied after a preset handle already exists rather than at Build time.
type StereoGain struct {
	Child StereoNode
	Gain  float64
}

// NewStereoGain wraps child, scaling every sample by gain.
func NewStereoGain(child StereoNode, gain float64) *StereoGain {
	return &StereoGain{Child: child, Gain: gain}
}

func (g *StereoGain) RenderStereo(n int, sampleRate float64) []StereoFrame {
	frames := g.Child.RenderStereo(n, sampleRate)
	out := make([]StereoFrame, len(frames))
	for i, f := range frames {
		out[i] = StereoFrame{L: f.L * g.Gain, R: f.R * g.Gain}
	}
	return out
}

func (g *StereoGain) IsAlive() bool { return g.Child.IsAlive() }
