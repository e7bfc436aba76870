// Package automix computes a loudness-derived gain and heuristic effect
// flags for each part of a prepared block.
package automix

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

const sampleRate = 48000.0

// FixedGainDB is the gain applied to every part regardless of its measured
// loudness. LoudnessLUFS is
// still computed and reported on Settings for callers that want the other
// mode.
const FixedGainDB = 3.0

// Part is the subset of an orchestrated part AutoMixer needs: per-note
// frequency and duration.
type Part struct {
	Notes     []float64 // Hz
	Durations []float64 // beats, used only to weight the render length
}

// Settings is the per-part mixing decision produced by Autoset.
type Settings struct {
	GainDB       float64
	LoudnessLUFS float64
	EnableReverb bool
	EnableChorus bool
}

// AutoMixer measures loudness and derives mix settings per part.
type AutoMixer struct {
	mu         sync.Mutex
	freqCache  map[int][]float64 // sample count -> frequency bins in Hz
	fftCache   map[int]*fourier.FFT
}

// New creates an AutoMixer with empty rfftfreq/FFT-plan caches.
func New() *AutoMixer {
	return &AutoMixer{
		freqCache: make(map[int][]float64),
		fftCache:  make(map[int]*fourier.FFT),
	}
}

// Autoset computes Settings for every part.
func (m *AutoMixer) Autoset(parts map[string]Part) map[string]Settings {
	out := make(map[string]Settings, len(parts))
	for name, part := range parts {
		out[name] = m.autosetPart(part)
	}
	return out
}

func (m *AutoMixer) autosetPart(part Part) Settings {
	loudness := m.integratedLoudness(part)
	return Settings{
		GainDB:       FixedGainDB,
		LoudnessLUFS: loudness,
		EnableReverb: meanMIDI(part.Notes) > 60,
		EnableChorus: len(part.Notes) > 6,
	}
}

// integratedLoudness renders a sine stub for the part at 48kHz and returns a
// BS.1770-ish integrated loudness estimate in LUFS, derived from the FFT
// power spectrum.
func (m *AutoMixer) integratedLoudness(part Part) float64 {
	samples := renderStub(part)
	if len(samples) == 0 {
		return -math.Inf(1)
	}

	n := len(samples)
	fft := m.fftPlan(n)
	coeffs := fft.Coefficients(nil, samples)
	_ = m.freqBins(n, fft) // populate/reuse the per-sample-count cache

	var power float64
	for _, c := range coeffs {
		mag := math.Hypot(real(c), imag(c)) / float64(n)
		power += mag * mag
	}
	meanPower := power / float64(len(coeffs))
	if meanPower <= 0 {
		return -math.Inf(1)
	}
	return -0.691 + 10*math.Log10(meanPower)
}

// renderStub concatenates sum-of-sine renders for every note, one render per
// duration.
func renderStub(part Part) []float64 {
	var out []float64
	for i, freq := range part.Notes {
		dur := 1.0
		if i < len(part.Durations) {
			dur = part.Durations[i]
		}
		n := int(dur * sampleRate)
		if n <= 0 {
			continue
		}
		for s := 0; s < n; s++ {
			t := float64(s) / sampleRate
			out = append(out, math.Sin(2*math.Pi*freq*t))
		}
	}
	return out
}

func (m *AutoMixer) fftPlan(n int) *fourier.FFT {
	m.mu.Lock()
	defer m.mu.Unlock()
	if plan, ok := m.fftCache[n]; ok {
		return plan
	}
	plan := fourier.NewFFT(n)
	m.fftCache[n] = plan
	return plan
}

// freqBins returns (and caches) the Hz frequency of every rFFT bin for a
// sample count n.
func (m *AutoMixer) freqBins(n int, fft *fourier.FFT) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bins, ok := m.freqCache[n]; ok {
		return bins
	}
	nBins := n/2 + 1
	bins := make([]float64, nBins)
	for i := 0; i < nBins; i++ {
		bins[i] = fft.Freq(i) * sampleRate
	}
	m.freqCache[n] = bins
	return bins
}

// meanMIDI converts each note's frequency to a MIDI number and averages
// them.
func meanMIDI(notesHz []float64) float64 {
	if len(notesHz) == 0 {
		return 0
	}
	var sum float64
	for _, freq := range notesHz {
		sum += 69.0 + 12.0*math.Log2(freq/440.0)
	}
	return sum / float64(len(notesHz))
}
