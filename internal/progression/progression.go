// Package progression synthesizes a chord progression for a block from a
// harmonic analysis, using either a genre template or a function-level
// Markov chain.
package progression

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/maestro/internal/harmonic"
	"github.com/opd-ai/maestro/internal/rng"
)

// Templates maps a genre name to its roman-numeral chord template.
type Templates map[string][]string

// DefaultTemplates returns the built-in genre templates, used when no YAML file overrides them.
func DefaultTemplates() Templates {
	return Templates{
		"pop":       {"I", "V", "vi", "IV"},
		"rock":      {"I", "IV", "V", "IV"},
		"blues":     {"I", "I", "I", "I", "IV", "IV", "I", "I", "V", "IV", "I", "V"},
		"jazz":      {"ii", "V", "I", "vi"},
		"classical": {"I", "IV", "V", "I"},
		"funk":      {"I", "I", "IV", "I"},
	}
}

// LoadTemplates reads genre templates from a YAML file, falling back to DefaultTemplates for any genre it doesn't
// mention.
func LoadTemplates(path string) (Templates, error) {
	templates := DefaultTemplates()
	if path == "" {
		return templates, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return templates, nil
		}
		return nil, fmt.Errorf("read genre template file %s: %w", path, err)
	}

	var loaded Templates
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse genre template file %s: %w", path, err)
	}
	for genre, template := range loaded {
		templates[genre] = template
	}
	return templates, nil
}

// Markov transition weights by tonal function, encoded as repeat counts so
// the slice length itself carries the weight.
var markovTransitions = map[harmonic.Function][]harmonic.Function{
	harmonic.Tonic:       {harmonic.Subdominant, harmonic.Subdominant, harmonic.Subdominant, harmonic.Dominant, harmonic.Dominant, harmonic.Tonic},
	harmonic.Subdominant: {harmonic.Dominant, harmonic.Dominant, harmonic.Dominant, harmonic.Dominant, harmonic.Tonic},
	harmonic.Dominant:    {harmonic.Tonic, harmonic.Tonic, harmonic.Tonic, harmonic.Tonic, harmonic.Tonic, harmonic.Subdominant},
}

// numeralsByFunction lists the roman-numeral representatives allowed within
// each tonal function class.
var numeralsByFunction = map[harmonic.Function][]string{
	harmonic.Tonic:       {"I", "i", "vi", "VI", "III", "iii"},
	harmonic.Subdominant: {"ii", "II", "IV", "iv"},
	harmonic.Dominant:    {"V", "v", "vii", "VII"},
}

type numeralQuality struct {
	degreeSemitones int
	minor           bool
}

// numeralTable resolves a roman numeral to its scale degree (semitones above
// the tonic in a major scale) and chord quality.
var numeralTable = map[string]numeralQuality{
	"I": {0, false}, "i": {0, true},
	"II": {2, false}, "ii": {2, true},
	"III": {4, false}, "iii": {4, true},
	"IV": {5, false}, "iv": {5, true},
	"V": {7, false}, "v": {7, true},
	"VI": {9, false}, "vi": {9, true},
	"VII": {11, false}, "vii": {11, true},
}

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Synth generates chord progressions, memoizing by (normalized key, beats,
// time signature) in a bounded LRU cache.
type Synth struct {
	templates Templates
	cache     *lru.Cache
	rng       *rng.RNG

	// Genre, when non-empty, selects a fixed template instead of the Markov
	// chain.
	Genre string
}

// NewSynth creates a Synth with the given genre templates and a seeded RNG
// for deterministic Markov-chain generation.
func NewSynth(templates Templates, seed int64) *Synth {
	c, _ := lru.New(128)
	return &Synth{templates: templates, cache: c, rng: rng.NewRNG(seed)}
}

type cacheEntry struct {
	key           string
	beats         float64
	timeSignature string
}

// Next generates a chord progression for the given analysis and block
// length in beats. On any internal failure it retries with
// "C major"; if that also fails it returns ["C"].
func (s *Synth) Next(analysis harmonic.Analysis, beats float64, timeSignature string) []string {
	normalizedKey := normalizeKey(analysis.Key)
	cacheKey := fmt.Sprintf("%s|%v|%s", normalizedKey, beats, timeSignature)

	if cached, ok := s.cache.Get(cacheKey); ok {
		return append([]string(nil), cached.([]string)...)
	}

	chords, ok := s.generate(normalizedKey, beats, timeSignature)
	if !ok {
		chords, ok = s.generate("C major", beats, timeSignature)
	}
	if !ok {
		chords = []string{"C"}
	}

	s.cache.Add(cacheKey, append([]string(nil), chords...))
	return chords
}

func (s *Synth) generate(normalizedKey string, beats float64, timeSignature string) ([]string, bool) {
	tonicPC, isMinor, ok := parseKey(normalizedKey)
	if !ok {
		return nil, false
	}

	barBeats := 4.0
	if num, den, ok := parseTimeSignature(timeSignature); ok {
		barBeats = float64(num) * (4.0 / float64(den))
	}
	nBars := int(math.Round(beats / barBeats))
	if nBars < 1 {
		nBars = 1
	}

	var numerals []string
	if template, ok := s.templates[s.Genre]; s.Genre != "" && ok {
		numerals = make([]string, nBars)
		for i := 0; i < nBars; i++ {
			numerals[i] = template[i%len(template)]
		}
	} else {
		numerals = s.markovNumerals(nBars)
	}

	chords := make([]string, len(numerals))
	for i, numeral := range numerals {
		chords[i] = resolveNumeral(numeral, tonicPC, isMinor)
	}
	return chords, true
}

func (s *Synth) markovNumerals(nBars int) []string {
	fn := harmonic.Tonic
	numerals := make([]string, nBars)
	for i := 0; i < nBars; i++ {
		numerals[i] = rng.Pick(s.rng, numeralsByFunction[fn])
		fn = rng.Pick(s.rng, markovTransitions[fn])
	}
	return numerals
}

func resolveNumeral(numeral string, tonicPC int, keyIsMinor bool) string {
	q, ok := numeralTable[numeral]
	if !ok {
		return pitchNames[tonicPC]
	}
	root := (tonicPC + q.degreeSemitones) % 12
	_ = keyIsMinor
	if q.minor {
		return pitchNames[root] + "m"
	}
	return pitchNames[root]
}

// normalizeKey converts flat/sharp unicode symbols to ASCII.
func normalizeKey(key string) string {
	r := strings.NewReplacer("♭", "b", "♯", "#")
	return strings.TrimSpace(r.Replace(key))
}

func parseKey(key string) (tonicPC int, isMinor bool, ok bool) {
	parts := strings.Fields(key)
	if len(parts) == 0 {
		return 0, false, false
	}
	root := parts[0]
	for pc, name := range pitchNames {
		if strings.EqualFold(name, root) {
			tonicPC = pc
			ok = true
			break
		}
	}
	if !ok {
		return 0, false, false
	}
	isMinor = len(parts) > 1 && strings.EqualFold(parts[1], "minor")
	return tonicPC, isMinor, true
}

func parseTimeSignature(s string) (num, den int, ok bool) {
	if s == "" {
		return 0, 0, false
	}
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	n, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	d, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || d == 0 {
		return 0, 0, false
	}
	return n, d, true
}
