// Package preset implements the PresetRegistry and BasePreset contract:
// parameterized synthesis recipes compiled into a static registration
// table, each turning a parameter map into a live audio-node handle.
package preset

import (
	"math"
	"sort"

	"github.com/opd-ai/maestro/internal/audiograph"
)

// Value is a caller-supplied or default parameter value.
type Value interface{}

// Params is a preset's filtered constructor argument map.
type Params map[string]Value

// Recipe turns parameters into an audio sub-graph. Each
// concrete recipe is registered once, at package init, via Register.
type Recipe interface {
	// Name is the registry key.
	Name() string
	// Schema maps accepted parameter names to their default values; it is
	// the source of both params_of(name) and the unknown-parameter filter.
	Schema() Params
	// SupportsMelody reports whether this recipe accepts notes/durations
	// overriding its native single-shot Build (default true per spec).
	SupportsMelody() bool
	// Build constructs the recipe's native dry mono signal from filtered
	// params. Voice selection (sine vs. recipe-specific oscillator) lives
	// here; Play wraps the result in the common FX chain and pans it to
	// stereo.
	Build(params Params) audiograph.Node
}

// Handle is the opaque value returned by Play: it
// retains every audio node the preset created until the engine drops it.
type Handle struct {
	single   audiograph.StereoNode
	sequence []audiograph.StereoNode
}

// IsAlive reports whether the handle still has sound to produce. A single
// node handle is alive until its envelope finishes; a sequence handle is
// alive until every element is done.
func (h *Handle) IsAlive() bool {
	if h.single != nil {
		return h.single.IsAlive()
	}
	for _, n := range h.sequence {
		if n.IsAlive() {
			return true
		}
	}
	return false
}

// IsDone is the complement of IsAlive: single-node, envelope elapsed;
// sequence, every envelope reports done.
func (h *Handle) IsDone() bool {
	return !h.IsAlive()
}

// Node returns the handle's single playback node for mixing into the
// output bus, or nil for a sequence handle (use Sequence instead).
func (h *Handle) Node() audiograph.StereoNode {
	return h.single
}

// Sequence returns a sequence handle's nodes in playback order, or nil for
// a single-node handle.
func (h *Handle) Sequence() []audiograph.StereoNode {
	return h.sequence
}

// ApplyGainDB multiplies every node in the handle by 10^(gainDB/20), the
// AudioEngine scheduler's gain_db post-hook. Mutates and returns h for chaining.
func (h *Handle) ApplyGainDB(gainDB float64) *Handle {
	linear := dbToLinear(gainDB)
	if h.single != nil {
		h.single = audiograph.NewStereoGain(h.single, linear)
	}
	for i, n := range h.sequence {
		h.sequence[i] = audiograph.NewStereoGain(n, linear)
	}
	return h
}

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20.0)
}

const (
	paramIntensity    = "intensity"
	paramDuration     = "duration"
	paramNotes        = "notes"
	paramDurations    = "durations"
	paramIntensities  = "intensities"
	paramStereoWidth  = "stereo_w"
	paramPan          = "pan"
	paramEnableReverb = "enable_reverb"
	paramEnableChorus = "enable_chorus"
	paramEnableFilter = "enable_filter"
	paramFiltFreq     = "filt_freq"
)

// commonSchema lists the BasePreset-level parameters every recipe accepts
// in addition to its own.
func commonSchema() Params {
	return Params{
		paramIntensity:    1.0,
		paramDuration:     1.0,
		paramStereoWidth:  0.0,
		paramPan:          0.0,
		paramEnableReverb: false,
		paramEnableChorus: false,
		paramEnableFilter: false,
		paramFiltFreq:     2000.0,
		paramNotes:        []float64{},
		paramDurations:    []float64{},
		paramIntensities:  []float64{},
	}
}

// Play builds a recipe's handle from caller params: a melody sequence when notes+durations are present and the
// recipe supports it, otherwise the recipe's native build wrapped in the
// common FX chain.
func Play(recipe Recipe, params Params) *Handle {
	notes, hasNotes := floatSlice(params[paramNotes])
	durations, hasDurations := floatSlice(params[paramDurations])

	if recipe.SupportsMelody() && hasNotes && hasDurations {
		return playMelody(notes, durations, params)
	}
	dry := recipe.Build(params)
	wet := applyFXChain(dry, params)
	return &Handle{single: wet}
}

// playMelody builds a short-attack envelope per note, feeding a sine at each note's frequency. Intensity
// resolution priority is the per-note "intensities" list, then "intensity"
// given as a list, then "intensity" given as a scalar (default 1.0).
func playMelody(notes, durations []float64, params Params) *Handle {
	intensities, hasIntensities := floatSlice(params[paramIntensities])
	ctorIntensities, hasCtorIntensities := floatSlice(params[paramIntensity])
	fallback := floatOr(params[paramIntensity], 1.0)

	seq := make([]audiograph.StereoNode, 0, len(notes))
	for i, freq := range notes {
		dur := 1.0
		if i < len(durations) {
			dur = durations[i]
		}
		intensity := fallback
		if hasIntensities && i < len(intensities) {
			intensity = intensities[i]
		} else if hasCtorIntensities && i < len(ctorIntensities) {
			intensity = ctorIntensities[i]
		}
		voice := audiograph.NewSine(freq, 1.0)
		env := audiograph.NewFader(voice, 0.005, 0.020, dur, intensity)
		seq = append(seq, audiograph.NewPan(env, floatOr(params[paramPan], 0.0)))
	}
	return &Handle{sequence: seq}
}

// applyFXChain wraps a dry mono signal: filter (if enable_filter) -> chorus
// (if enable_chorus and stereo_w>0) -> reverb (if enable_reverb) -> pan.
func applyFXChain(dry audiograph.Node, params Params) audiograph.StereoNode {
	var sig audiograph.Node = dry
	if boolOr(params[paramEnableFilter]) {
		sig = audiograph.NewButLP(sig, floatOr(params[paramFiltFreq], 2000.0), 0.707)
	}

	stereoW := floatOr(params[paramStereoWidth], 0.0)
	if stereoW > 0 && boolOr(params[paramEnableChorus]) {
		sig = audiograph.NewChorus(sig, 0.002, 0.3, stereoW)
	}
	if boolOr(params[paramEnableReverb]) {
		sig = audiograph.NewFreeverb(sig, 0.5, 0.3)
	}

	return audiograph.NewPan(sig, floatOr(params[paramPan], 0.0))
}

// Filter drops every key in params not present in schema.
func Filter(schema Params, params Params) Params {
	out := make(Params, len(params))
	for k, v := range params {
		if _, ok := schema[k]; ok {
			out[k] = v
		}
	}
	return out
}

// ParamNames returns schema's keys sorted, used by params_of(name).
func ParamNames(schema Params) []string {
	names := make([]string, 0, len(schema))
	for k := range schema {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func floatSlice(v Value) ([]float64, bool) {
	if v == nil {
		return nil, false
	}
	switch t := v.(type) {
	case []float64:
		return t, true
	default:
		return nil, false
	}
}

func floatOr(v Value, def float64) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return def
}

func boolOr(v Value) bool {
	b, _ := v.(bool)
	return b
}

// mergeSchema combines the common BasePreset schema with a recipe's own,
// with recipe-specific defaults taking priority on key collision.
func mergeSchema(own Params) Params {
	out := commonSchema()
	for k, v := range own {
		out[k] = v
	}
	return out
}
