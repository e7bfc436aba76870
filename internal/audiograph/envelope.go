package audiograph

// Fader wraps a child Node with a linear attack/sustain/release envelope. Its
// IsAlive reports false once FadeIn+Dur+FadeOut seconds of signal have been
// rendered, which is exactly the condition a single-node preset handle
// queries for is_done().
type Fader struct {
	baseNode
	Child    Node
	FadeIn   float64 // seconds
	FadeOut  float64 // seconds
	Dur      float64 // seconds, sustain plateau excluding fades
	rendered float64 // seconds of signal already produced
	done     bool
}

// NewFader creates an envelope around child with the given fade-in, fade-out,
// and sustain durations (all seconds), scaled by the given peak gain.
func NewFader(child Node, fadeIn, fadeOut, dur, mul float64) *Fader {
	return &Fader{baseNode: baseNode{mul: mul}, Child: child, FadeIn: fadeIn, FadeOut: fadeOut, Dur: dur}
}

// TotalSeconds is the full lifetime of the envelope.
func (f *Fader) TotalSeconds() float64 { return f.FadeIn + f.Dur + f.FadeOut }

func (f *Fader) Render(n int, sampleRate float64) []float64 {
	child := f.Child.Render(n, sampleRate)
	out := make([]float64, n)
	total := f.TotalSeconds()
	dt := 1.0 / sampleRate

	for i := 0; i < n; i++ {
		t := f.rendered
		var env float64
		switch {
		case t >= total:
			env = 0
		case t < f.FadeIn && f.FadeIn > 0:
			env = t / f.FadeIn
		case t >= total-f.FadeOut && f.FadeOut > 0:
			env = (total - t) / f.FadeOut
		default:
			env = 1.0
		}
		out[i] = child[i] * env * f.mul
		f.rendered += dt
	}
	// Half a sample of tolerance absorbs the rounding error of summing dt.
	if f.rendered >= total-0.5*dt {
		f.done = true
	}
	return out
}

func (f *Fader) IsAlive() bool { return !f.done }
