// Package harmonic analyses a melody fragment to estimate its key and assign
// a chord symbol plus tonal function per beat.
package harmonic

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/opd-ai/maestro/internal/melody"
)

// Function is the tonal role of a beat's chord relative to the key.
type Function int

const (
	Tonic Function = iota
	Subdominant
	Dominant
)

// Analysis is the result of Describe.
type Analysis struct {
	Key       string
	Chords    []string
	Functions []Function
	Durations []float64
}

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Krumhansl-Schmuckler key-profile weights.
var majorProfile = [12]float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
var minorProfile = [12]float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}

// Analyser estimates key and harmony for melody fragments, memoizing results
// keyed by the full melody tuple in a bounded LRU cache.
type Analyser struct {
	cache *lru.Cache
	hits  int
	calls int
}

// DefaultCacheSize is the memoization cache's bounded entry count.
const DefaultCacheSize = 128

// NewAnalyser creates an Analyser with a bounded memoization cache.
func NewAnalyser() *Analyser {
	c, _ := lru.New(DefaultCacheSize)
	return &Analyser{cache: c}
}

// CacheHits returns the number of Describe calls served from cache, an
// observable, non-decreasing counter.
func (a *Analyser) CacheHits() int { return a.hits }

// Describe is a pure function of freqs/durs: repeated calls with the same
// input return equal results.
func (a *Analyser) Describe(freqs, durs []float64) Analysis {
	a.calls++
	key := cacheKey(freqs, durs)
	if cached, ok := a.cache.Get(key); ok {
		a.hits++
		return cached.(Analysis)
	}

	result := describe(freqs, durs)
	a.cache.Add(key, result)
	return result
}

func cacheKey(freqs, durs []float64) string {
	var b strings.Builder
	for i := range freqs {
		b.WriteString(strconv.FormatFloat(freqs[i], 'g', 6, 64))
		b.WriteByte(':')
		if i < len(durs) {
			b.WriteString(strconv.FormatFloat(durs[i], 'g', 6, 64))
		}
		b.WriteByte(',')
	}
	return b.String()
}

func describe(freqs, durs []float64) Analysis {
	tonicPC, isMinor := estimateKey(freqs, durs)
	keyStr := fmt.Sprintf("%s %s", pitchNames[tonicPC], modeName(isMinor))

	totalBeats := totalDuration(freqs, durs)
	nBeats := int(math.Ceil(totalBeats))
	if nBeats < 1 {
		nBeats = 1
	}

	chords := make([]string, 0, nBeats)
	functions := make([]Function, 0, nBeats)
	durations := make([]float64, 0, nBeats)

	onset := make([]float64, len(freqs))
	t := 0.0
	for i := range freqs {
		onset[i] = t
		if i < len(durs) {
			t += durs[i]
		}
	}

	windows := make([][12]int, nBeats)
	any := make([]bool, nBeats)
	for i, f := range freqs {
		beat := int(onset[i])
		if beat >= nBeats {
			beat = nBeats - 1
		}
		windows[beat][melody.PitchClass(f)]++
		any[beat] = true
	}

	for beat := 0; beat < nBeats; beat++ {
		hist := windows[beat]

		var root int
		var minor bool
		if !any[beat] {
			root, minor = tonicPC, isMinor
		} else {
			root, minor = bestTriad(hist)
		}

		chords = append(chords, chordSymbol(root, minor))
		functions = append(functions, classifyFunction(root, tonicPC))
		durations = append(durations, 1.0)
	}

	return Analysis{Key: keyStr, Chords: chords, Functions: functions, Durations: durations}
}

func modeName(isMinor bool) string {
	if isMinor {
		return "minor"
	}
	return "major"
}

func totalDuration(freqs, durs []float64) float64 {
	total := 0.0
	for i := range freqs {
		if i < len(durs) {
			total += durs[i]
		}
	}
	return total
}

// estimateKey builds a duration-weighted pitch-class histogram and
// correlates it against the 24 major/minor key-profile rotations.
func estimateKey(freqs, durs []float64) (tonicPC int, isMinor bool) {
	var weighted [12]float64
	for i, f := range freqs {
		w := 1.0
		if i < len(durs) {
			w = durs[i]
		}
		weighted[melody.PitchClass(f)] += w
	}

	bestScore := math.Inf(-1)
	bestRoot, bestMinor := 0, false
	for root := 0; root < 12; root++ {
		for _, minor := range []bool{false, true} {
			profile := rotateProfile(root, minor)
			score := correlate(weighted, profile)
			if score > bestScore {
				bestScore = score
				bestRoot, bestMinor = root, minor
			}
		}
	}
	return bestRoot, bestMinor
}

func rotateProfile(root int, minor bool) [12]float64 {
	base := majorProfile
	if minor {
		base = minorProfile
	}
	var rotated [12]float64
	for i := 0; i < 12; i++ {
		rotated[(i+root)%12] = base[i]
	}
	return rotated
}

func correlate(a, b [12]float64) float64 {
	var meanA, meanB float64
	for i := 0; i < 12; i++ {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= 12
	meanB /= 12

	var num, denA, denB float64
	for i := 0; i < 12; i++ {
		da, db := a[i]-meanA, b[i]-meanB
		num += da * db
		denA += da * da
		denB += db * db
	}
	if denA == 0 || denB == 0 {
		return 0
	}
	return num / math.Sqrt(denA*denB)
}

// bestTriad picks the triad (24 candidates: major+minor for each root)
// maximizing the sum of window histogram hits over the template's three
// pitch classes, tie-breaking by earliest root index.
func bestTriad(hist [12]int) (root int, minor bool) {
	best := -1
	bestRoot, bestMinor := 0, false
	for r := 0; r < 12; r++ {
		for _, isMinor := range []bool{false, true} {
			third := 4
			if isMinor {
				third = 3
			}
			score := hist[r] + hist[(r+third)%12] + hist[(r+7)%12]
			if score > best {
				best = score
				bestRoot, bestMinor = r, isMinor
			}
		}
	}
	return bestRoot, bestMinor
}

func chordSymbol(root int, minor bool) string {
	if minor {
		return pitchNames[root] + "m"
	}
	return pitchNames[root]
}

// classifyFunction maps a chord root to Tonic/Subdominant/Dominant based on
// its interval from the key's tonic.
func classifyFunction(rootPC, tonicPC int) Function {
	interval := (rootPC - tonicPC + 12) % 12
	switch interval {
	case 7, 11:
		return Dominant
	case 2, 5:
		return Subdominant
	default:
		return Tonic
	}
}
