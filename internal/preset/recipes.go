package preset

import (
	"github.com/opd-ai/maestro/internal/audiograph"
)

// getFloat reads a filtered float param, falling back to def.
func getFloat(params Params, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

// --- piano: FM pluck with a fast decay, grounded on original_source's
// PianoPreset default envelope shape. ---

type pianoRecipe struct{}

func (pianoRecipe) Name() string { return "piano" }
func (pianoRecipe) Schema() Params {
	return Params{"freq1": 261.63, "decay": 0.8}
}
func (pianoRecipe) SupportsMelody() bool { return true }
func (pianoRecipe) Build(params Params) audiograph.Node {
	freq := getFloat(params, "freq1", 261.63)
	decay := getFloat(params, "decay", 0.8)
	voice := audiograph.NewFM(freq, 2.0, 1.5, 1.0)
	env := audiograph.NewFader(voice, 0.003, decay, 0.1, getFloat(params, "intensity", 1.0))
	return env
}

// --- bass: sine-based low-register sustain. ---

type bassRecipe struct{}

func (bassRecipe) Name() string { return "bass" }
func (bassRecipe) Schema() Params {
	return Params{"freq1": 82.41, "duration": 1.0}
}
func (bassRecipe) SupportsMelody() bool { return true }
func (bassRecipe) Build(params Params) audiograph.Node {
	freq := getFloat(params, "freq1", 82.41)
	dur := getFloat(params, "duration", 1.0)
	voice := audiograph.NewSine(freq, 1.0)
	return audiograph.NewFader(voice, 0.01, 0.05, dur, getFloat(params, "intensity", 1.0))
}

// --- cello: FM voice with a slow attack, wide vibrato ratio. ---

type celloRecipe struct{}

func (cello celloRecipe) Name() string { return "cello" }
func (celloRecipe) Schema() Params {
	return Params{"freq1": 130.81, "duration": 1.5}
}
func (celloRecipe) SupportsMelody() bool { return true }
func (celloRecipe) Build(params Params) audiograph.Node {
	freq := getFloat(params, "freq1", 130.81)
	dur := getFloat(params, "duration", 1.5)
	voice := audiograph.NewFM(freq, 1.005, 0.4, 1.0)
	return audiograph.NewFader(voice, 0.08, 0.15, dur, getFloat(params, "intensity", 1.0))
}

// --- violin: FM voice, higher register, narrow vibrato. ---

type violinRecipe struct{}

func (violinRecipe) Name() string { return "violin" }
func (violinRecipe) Schema() Params {
	return Params{"freq1": 440.0, "duration": 1.2}
}
func (violinRecipe) SupportsMelody() bool { return true }
func (violinRecipe) Build(params Params) audiograph.Node {
	freq := getFloat(params, "freq1", 440.0)
	dur := getFloat(params, "duration", 1.2)
	voice := audiograph.NewFM(freq, 1.01, 0.3, 1.0)
	return audiograph.NewFader(voice, 0.05, 0.1, dur, getFloat(params, "intensity", 1.0))
}

// --- clarinet: odd-harmonic-leaning FM ratio, soft attack. ---

type clarinetRecipe struct{}

func (clarinetRecipe) Name() string { return "clarinet" }
func (clarinetRecipe) Schema() Params {
	return Params{"freq1": 233.08, "duration": 1.0}
}
func (clarinetRecipe) SupportsMelody() bool { return true }
func (clarinetRecipe) Build(params Params) audiograph.Node {
	freq := getFloat(params, "freq1", 233.08)
	dur := getFloat(params, "duration", 1.0)
	voice := audiograph.NewFM(freq, 3.0, 0.6, 1.0)
	return audiograph.NewFader(voice, 0.04, 0.08, dur, getFloat(params, "intensity", 1.0))
}

// --- trumpet: bright FM, fast attack, sustained. ---

type trumpetRecipe struct{}

func (trumpetRecipe) Name() string { return "trumpet" }
func (trumpetRecipe) Schema() Params {
	return Params{"freq1": 349.23, "duration": 0.8}
}
func (trumpetRecipe) SupportsMelody() bool { return true }
func (trumpetRecipe) Build(params Params) audiograph.Node {
	freq := getFloat(params, "freq1", 349.23)
	dur := getFloat(params, "duration", 0.8)
	voice := audiograph.NewFM(freq, 2.0, 2.2, 1.0)
	return audiograph.NewFader(voice, 0.02, 0.05, dur, getFloat(params, "intensity", 1.0))
}

// --- guitar: plucked sine with a quick decay. ---

type guitarRecipe struct{}

func (guitarRecipe) Name() string { return "guitar" }
func (guitarRecipe) Schema() Params {
	return Params{"freq1": 196.0, "duration": 0.6}
}
func (guitarRecipe) SupportsMelody() bool { return true }
func (guitarRecipe) Build(params Params) audiograph.Node {
	freq := getFloat(params, "freq1", 196.0)
	dur := getFloat(params, "duration", 0.6)
	voice := audiograph.NewSine(freq, 1.0)
	return audiograph.NewFader(voice, 0.002, dur, 0.05, getFloat(params, "intensity", 1.0))
}

// --- snare: gated noise burst. ---

type snareRecipe struct{}

func (snareRecipe) Name() string { return "snare" }
func (snareRecipe) Schema() Params {
	return Params{"duration": 0.15}
}
func (snareRecipe) SupportsMelody() bool { return false }
func (snareRecipe) Build(params Params) audiograph.Node {
	dur := getFloat(params, "duration", 0.15)
	noise := audiograph.NewNoise(1.0)
	gated := audiograph.NewGate(noise, 0.05)
	return audiograph.NewFader(gated, 0.001, dur, 0.01, getFloat(params, "intensity", 1.0))
}

// --- hi_hat: short bright noise burst. ---

type hiHatRecipe struct{}

func (hiHatRecipe) Name() string { return "hi_hat" }
func (hiHatRecipe) Schema() Params {
	return Params{"duration": 0.05}
}
func (hiHatRecipe) SupportsMelody() bool { return false }
func (hiHatRecipe) Build(params Params) audiograph.Node {
	dur := getFloat(params, "duration", 0.05)
	noise := audiograph.NewNoise(1.0)
	bright := audiograph.NewButHP(noise, 6000, 0.707)
	return audiograph.NewFader(bright, 0.0005, dur, 0.005, getFloat(params, "intensity", 1.0))
}

// --- big_kick: low sine thump soft-clipped through Tanh, with a fast
// decay. ---

type bigKickRecipe struct{}

func (bigKickRecipe) Name() string { return "big_kick" }
func (bigKickRecipe) Schema() Params {
	return Params{"freq1": 55.0, "duration": 0.3}
}
func (bigKickRecipe) SupportsMelody() bool { return false }
func (bigKickRecipe) Build(params Params) audiograph.Node {
	freq := getFloat(params, "freq1", 55.0)
	dur := getFloat(params, "duration", 0.3)
	voice := audiograph.NewSine(freq, 1.0)
	shaped := audiograph.NewTanh(voice)
	return audiograph.NewFader(shaped, 0.001, dur, 0.02, getFloat(params, "intensity", 1.0))
}

// --- wood_kick: shorter, higher kick variant. ---

type woodKickRecipe struct{}

func (woodKickRecipe) Name() string { return "wood_kick" }
func (woodKickRecipe) Schema() Params {
	return Params{"freq1": 110.0, "duration": 0.12}
}
func (woodKickRecipe) SupportsMelody() bool { return false }
func (woodKickRecipe) Build(params Params) audiograph.Node {
	freq := getFloat(params, "freq1", 110.0)
	dur := getFloat(params, "duration", 0.12)
	voice := audiograph.NewSine(freq, 1.0)
	return audiograph.NewFader(voice, 0.001, dur, 0.01, getFloat(params, "intensity", 1.0))
}

// --- drone: sustained dual-oscillator pad with a long fade. This repo keeps
// a single definition and the registry rejects any later duplicate rather
// than silently overwriting it. ---

type droneRecipe struct{}

func (droneRecipe) Name() string { return "drone" }
func (droneRecipe) Schema() Params {
	return Params{"freq1": 110.0, "freq2": 110.5, "duration": 8.0}
}
func (droneRecipe) SupportsMelody() bool { return false }
func (droneRecipe) Build(params Params) audiograph.Node {
	f1 := getFloat(params, "freq1", 110.0)
	f2 := getFloat(params, "freq2", 110.5)
	dur := getFloat(params, "duration", 8.0)
	mix := audiograph.NewMix(audiograph.NewSine(f1, 0.5), audiograph.NewSine(f2, 0.5))
	return audiograph.NewFader(mix, 1.0, 1.0, dur, getFloat(params, "intensity", 1.0))
}

// --- two_freq_drones: like drone, but with a wider beating interval. ---

type twoFreqDronesRecipe struct{}

func (twoFreqDronesRecipe) Name() string { return "two_freq_drones" }
func (twoFreqDronesRecipe) Schema() Params {
	return Params{"freq1": 110.0, "freq2": 112.0, "duration": 8.0}
}
func (twoFreqDronesRecipe) SupportsMelody() bool { return false }
func (twoFreqDronesRecipe) Build(params Params) audiograph.Node {
	f1 := getFloat(params, "freq1", 110.0)
	f2 := getFloat(params, "freq2", 112.0)
	dur := getFloat(params, "duration", 8.0)
	mix := audiograph.NewMix(audiograph.NewSine(f1, 0.5), audiograph.NewSine(f2, 0.5))
	return audiograph.NewFader(mix, 1.5, 1.5, dur, getFloat(params, "intensity", 1.0))
}

// --- laser: fast FM sweep with heavy distortion, short duration. ---

type laserRecipe struct{}

func (laserRecipe) Name() string { return "laser" }
func (laserRecipe) Schema() Params {
	return Params{"freq1": 1200.0, "duration": 0.2}
}
func (laserRecipe) SupportsMelody() bool { return false }
func (laserRecipe) Build(params Params) audiograph.Node {
	freq := getFloat(params, "freq1", 1200.0)
	dur := getFloat(params, "duration", 0.2)
	voice := audiograph.NewFM(freq, 0.5, 8.0, 1.0)
	distorted := audiograph.NewDisto(voice, 0.6, 2.0, 1.0)
	return audiograph.NewFader(distorted, 0.001, dur, 0.01, getFloat(params, "intensity", 1.0))
}

// --- harmonic_swarm: detuned sine partials rising in freq_ratio powers,
// mixed and fed through a delay tap, grounded on original_source's
// HarmonicSwarm voice count and delay_times[1] tap. ---

type harmonicSwarmRecipe struct{}

func (harmonicSwarmRecipe) Name() string { return "harmonic_swarm" }
func (harmonicSwarmRecipe) Schema() Params {
	return Params{"freq1": 110.0, "duration": 5.0}
}
func (harmonicSwarmRecipe) SupportsMelody() bool { return false }
func (harmonicSwarmRecipe) Build(params Params) audiograph.Node {
	base := getFloat(params, "freq1", 110.0)
	dur := getFloat(params, "duration", 5.0)
	const numVoices = 6
	const freqRatio = 1.01
	voices := make([]audiograph.Node, numVoices)
	ratio := 1.0
	for i := 0; i < numVoices; i++ {
		voices[i] = audiograph.NewSine(base*ratio, 1.0/numVoices)
		ratio *= freqRatio
	}
	mix := audiograph.NewMix(voices...)
	delayed := audiograph.NewDelay(mix, 0.2, 0.3, 0.4)
	return audiograph.NewFader(delayed, 0.5, 1.5, dur, getFloat(params, "intensity", 0.3))
}

// --- metallic_rain: bandpassed noise hiss floor plus one bandpassed grain
// burst, grounded on original_source's hiss/_grain voices. ---

type metallicRainRecipe struct{}

func (metallicRainRecipe) Name() string { return "metallic_rain" }
func (metallicRainRecipe) Schema() Params {
	return Params{"freq1": 432.0, "duration": 6.0}
}
func (metallicRainRecipe) SupportsMelody() bool { return false }
func (metallicRainRecipe) Build(params Params) audiograph.Node {
	base := getFloat(params, "freq1", 432.0)
	dur := getFloat(params, "duration", 6.0)
	env := audiograph.NewFader(audiograph.NewNoise(0.1), 0.2, 0.2, dur, getFloat(params, "intensity", 0.4))
	hiss := audiograph.NewButBP(env, base*1.2, 0.2)
	grain := audiograph.NewButBP(audiograph.NewSine(base*1.8, 1.0), base*1.1, 8.0)
	return audiograph.NewMix(hiss, grain)
}

// --- digital_snap: noise click through a distortion bit-crush
// approximation, comb delay, and high-pass cleanup, grounded on
// original_source's Degrade/SmoothDelay/ButHP chain. ---

type digitalSnapRecipe struct{}

func (digitalSnapRecipe) Name() string { return "digital_snap" }
func (digitalSnapRecipe) Schema() Params {
	return Params{"duration": 0.15}
}
func (digitalSnapRecipe) SupportsMelody() bool { return false }
func (digitalSnapRecipe) Build(params Params) audiograph.Node {
	dur := getFloat(params, "duration", 0.15)
	env := audiograph.NewFader(audiograph.NewNoise(1.0), 0.001, 0.02, dur, getFloat(params, "intensity", 0.8))
	crushed := audiograph.NewDisto(env, 0.8, 0.1, 1.0)
	combed := audiograph.NewDelay(crushed, 0.04, 0.0, 1.0)
	return audiograph.NewButHP(combed, 138.93, 0.707)
}

// --- square_fall: additive harmonic burst decaying per partial, grounded
// on original_source's SquareFallPreset 1/(i+1) amplitude falloff. ---

type squareFallRecipe struct{}

func (squareFallRecipe) Name() string { return "square_fall" }
func (squareFallRecipe) Schema() Params {
	return Params{"freq1": 200.0, "duration": 0.25}
}
func (squareFallRecipe) SupportsMelody() bool { return false }
func (squareFallRecipe) Build(params Params) audiograph.Node {
	base := getFloat(params, "freq1", 200.0)
	dur := getFloat(params, "duration", 0.25)
	const harmonics = 6
	partials := make([]audiograph.Node, harmonics)
	for i := 0; i < harmonics; i++ {
		partials[i] = audiograph.NewSine(base*float64(i+1), 1.0/float64(i+1))
	}
	burst := audiograph.NewMix(partials...)
	return audiograph.NewFader(burst, 0.01, dur, dur, getFloat(params, "intensity", 0.5))
}

// --- reverse_impact: slow-swell noise into a bandpass and distortion,
// approximating original_source's reversed-envelope table read with a long
// fade-in in place of an explicit reverse buffer. ---

type reverseImpactRecipe struct{}

func (reverseImpactRecipe) Name() string { return "reverse_impact" }
func (reverseImpactRecipe) Schema() Params {
	return Params{"duration": 4.23}
}
func (reverseImpactRecipe) SupportsMelody() bool { return false }
func (reverseImpactRecipe) Build(params Params) audiograph.Node {
	dur := getFloat(params, "duration", 4.23)
	env := audiograph.NewFader(audiograph.NewNoise(1.0), 2.2, 0.41, dur, getFloat(params, "intensity", 0.43))
	filtered := audiograph.NewButBP(env, 800.0, 5.0)
	return audiograph.NewDisto(filtered, 0.65, 0.39, 1.0)
}

// --- fm_bell_cluster: FM bell voice through chorus and reverb, grounded on
// original_source's FMBellCluster carrier/ratio/index and effects chain. ---

type fmBellClusterRecipe struct{}

func (fmBellClusterRecipe) Name() string { return "fm_bell_cluster" }
func (fmBellClusterRecipe) Schema() Params {
	return Params{"freq1": 330.0, "duration": 4.0}
}
func (fmBellClusterRecipe) SupportsMelody() bool { return true }
func (fmBellClusterRecipe) Build(params Params) audiograph.Node {
	carrier := getFloat(params, "freq1", 330.0)
	dur := getFloat(params, "duration", 4.0)
	bell := audiograph.NewFM(carrier, 2.0, 5.0, 1.0)
	env := audiograph.NewFader(bell, 0.01, 1.0, dur, getFloat(params, "intensity", 0.6))
	chorused := audiograph.NewChorus(env, 1.2, 0.3, 0.5)
	return audiograph.NewFreeverb(chorused, 0.8, 0.4)
}

// --- whale_calls: long-faded low sine, grounded on original_source's
// WhaleCalls carrier and fade times. ---

type whaleCallsRecipe struct{}

func (whaleCallsRecipe) Name() string { return "whale_calls" }
func (whaleCallsRecipe) Schema() Params {
	return Params{"freq1": 110.0, "duration": 4.0}
}
func (whaleCallsRecipe) SupportsMelody() bool { return true }
func (whaleCallsRecipe) Build(params Params) audiograph.Node {
	freq := getFloat(params, "freq1", 110.0)
	dur := getFloat(params, "duration", 4.0)
	voice := audiograph.NewSine(freq, 1.0)
	return audiograph.NewFader(voice, 1.0, 1.0, dur, getFloat(params, "intensity", 0.4))
}

// --- chorus: noise layer thickened by a chorus effect, grounded on
// original_source's ChorusPreset noise_vol/depth/feedback/bal defaults. ---

type chorusRecipe struct{}

func (chorusRecipe) Name() string { return "chorus" }
func (chorusRecipe) Schema() Params {
	return Params{"duration": 0.8}
}
func (chorusRecipe) SupportsMelody() bool { return false }
func (chorusRecipe) Build(params Params) audiograph.Node {
	dur := getFloat(params, "duration", 0.8)
	noise := audiograph.NewFader(audiograph.NewNoise(0.1), 0.01, 1.0, dur, getFloat(params, "intensity", 1.0))
	return audiograph.NewChorus(noise, 1.0, 0.6, 0.5)
}

func init() {
	Register("piano", func() Recipe { return pianoRecipe{} })
	Register("bass", func() Recipe { return bassRecipe{} })
	Register("cello", func() Recipe { return celloRecipe{} })
	Register("violin", func() Recipe { return violinRecipe{} })
	Register("clarinet", func() Recipe { return clarinetRecipe{} })
	Register("trumpet", func() Recipe { return trumpetRecipe{} })
	Register("guitar", func() Recipe { return guitarRecipe{} })
	Register("snare", func() Recipe { return snareRecipe{} })
	Register("hi_hat", func() Recipe { return hiHatRecipe{} })
	Register("big_kick", func() Recipe { return bigKickRecipe{} })
	Register("wood_kick", func() Recipe { return woodKickRecipe{} })
	Register("drone", func() Recipe { return droneRecipe{} })
	Register("two_freq_drones", func() Recipe { return twoFreqDronesRecipe{} })
	Register("laser", func() Recipe { return laserRecipe{} })
	Register("harmonic_swarm", func() Recipe { return harmonicSwarmRecipe{} })
	Register("metallic_rain", func() Recipe { return metallicRainRecipe{} })
	Register("digital_snap", func() Recipe { return digitalSnapRecipe{} })
	Register("square_fall", func() Recipe { return squareFallRecipe{} })
	Register("reverse_impact", func() Recipe { return reverseImpactRecipe{} })
	Register("fm_bell_cluster", func() Recipe { return fmBellClusterRecipe{} })
	Register("whale_calls", func() Recipe { return whaleCallsRecipe{} })
	Register("chorus", func() Recipe { return chorusRecipe{} })
}
