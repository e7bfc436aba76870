// Package audiograph is the abstract audio-node library backing the engine
//. Each node renders a finite mono buffer of samples; the top
// level of any preset's graph is rendered once, panned to stereo, and handed
// to an ebiten audio.Player for playback. Nodes expose a mutable gain (Mul)
// and, for envelope-bearing nodes, an IsAlive query so a preset handle can
// answer is_done() without touching the player.
package audiograph

import "math"

// Node is a mono audio-signal generator or processor.
type Node interface {
	// Render produces nSamples of mono signal at the given sample rate.
	Render(nSamples int, sampleRate float64) []float64

	// Mul returns the node's current gain multiplier.
	Mul() float64

	// SetMul updates the node's gain multiplier. Post-processing hooks mutate
	// this in place rather than rebuilding the graph.
	SetMul(m float64)

	// IsAlive reports whether the node still has signal to produce. Pure
	// oscillators are alive forever; envelopes report false once their
	// fade-out completes.
	IsAlive() bool
}

// baseNode carries the mutable gain shared by every concrete node type.
type baseNode struct {
	mul float64
}

func (b *baseNode) Mul() float64     { return b.mul }
func (b *baseNode) SetMul(m float64) { b.mul = m }

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// wrapPhase wraps a phase accumulator into [0, 1).
func wrapPhase(phase float64) float64 {
	if phase >= 1.0 {
		return phase - math.Floor(phase)
	}
	if phase < 0 {
		return phase - math.Floor(phase)
	}
	return phase
}
