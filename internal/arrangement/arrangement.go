// Package arrangement runs the full block-generation pipeline: compositor
// -> harmonic analyser -> progression synth -> orchestrator -> automix.
package arrangement

import (
	"strconv"

	"github.com/opd-ai/maestro/internal/automix"
	"github.com/opd-ai/maestro/internal/harmonic"
	"github.com/opd-ai/maestro/internal/melody"
	"github.com/opd-ai/maestro/internal/orchestrator"
	"github.com/opd-ai/maestro/internal/progression"
)

// Part is one arranged part's notes, durations, and automix settings.
type Part struct {
	Notes     []float64
	Durations []float64
	Intensity []float64
	Mix       automix.Settings
}

// Engine wires the full arrangement pipeline around a shared Compositor.
type Engine struct {
	Compositor  *melody.Compositor
	Analyser    *harmonic.Analyser
	Progression *progression.Synth
	AutoMixer   *automix.AutoMixer

	// Mute, when true, makes PrepareBlock a no-op.
	Mute bool
}

// New creates an Engine around the given compositor, seeding the
// progression synth's Markov RNG.
func New(compositor *melody.Compositor, templates progression.Templates, seed int64) *Engine {
	return &Engine{
		Compositor:  compositor,
		Analyser:    harmonic.NewAnalyser(),
		Progression: progression.NewSynth(templates, seed),
		AutoMixer:   automix.New(),
	}
}

// PrepareBlock runs the full pipeline for one block of the given length in
// beats. Returns nil when mute is active.
func (e *Engine) PrepareBlock(beats float64) map[string]Part {
	if e.Mute {
		return nil
	}

	raw := e.Compositor.NextBlockEvents(beats)
	freqs, durs, intensities := flatten(raw)

	analysis := e.Analyser.Describe(freqs, durs)

	num, den := e.Compositor.GetMeter()
	timeSignature := timeSignatureString(num, den)
	chords := e.Progression.Next(analysis, beats, timeSignature)

	chordDurs := make([]float64, len(chords))
	if len(chords) > 0 {
		each := beats / float64(len(chords))
		for i := range chordDurs {
			chordDurs[i] = each
		}
	}

	voiced := orchestrator.Voice(chords, chordDurs)

	parts := make(map[string]Part, len(voiced)+1)
	for name, p := range voiced {
		parts[name] = Part{Notes: p.Notes, Durations: p.Durations, Intensity: p.Intensity}
	}
	parts["melody"] = Part{Notes: freqs, Durations: durs, Intensity: intensities}

	automixParts := make(map[string]automix.Part, len(parts))
	for name, p := range parts {
		automixParts[name] = automix.Part{Notes: p.Notes, Durations: p.Durations}
	}
	settings := e.AutoMixer.Autoset(automixParts)

	for name, p := range parts {
		p.Mix = settings[name]
		parts[name] = p
	}
	return parts
}

// flatten concatenates every BlockTick's notes/durations/intensities into
// flat per-note slices.
func flatten(ticks []melody.BlockTick) (freqs, durs, intensities []float64) {
	for _, tick := range ticks {
		freqs = append(freqs, tick.Notes...)
		durs = append(durs, tick.Durations...)
		intensities = append(intensities, tick.Intensity...)
	}
	return freqs, durs, intensities
}

func timeSignatureString(num, den int) string {
	if num <= 0 || den <= 0 {
		return "4/4"
	}
	return strconv.Itoa(num) + "/" + strconv.Itoa(den)
}
