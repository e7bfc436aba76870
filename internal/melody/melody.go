// Package melody loads JSON melody files and serves note events to callers
// hand-by-hand and block-by-block.
package melody

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// NoteEvent is a single (frequency, duration, intensity) tuple.
type NoteEvent struct {
	Frequency      float64 `json:"frequency"`
	DurationBeats  float64 `json:"-"`
	Intensity      float64 `json:"intensity"`
}

// rawNoteEvent mirrors the on-disk shape, accepting either "duration_beats"
// or "duration" for the duration field.
type rawNoteEvent struct {
	Frequency     float64  `json:"frequency"`
	DurationBeats *float64 `json:"duration_beats"`
	Duration      *float64 `json:"duration"`
	Intensity     float64  `json:"intensity"`
}

func (r rawNoteEvent) toNoteEvent() NoteEvent {
	dur := 1.0
	switch {
	case r.DurationBeats != nil:
		dur = *r.DurationBeats
	case r.Duration != nil:
		dur = *r.Duration
	}
	return NoteEvent{Frequency: r.Frequency, DurationBeats: dur, Intensity: r.Intensity}
}

// rawMelodyFile mirrors the melody JSON file format.
type rawMelodyFile struct {
	Title         string           `json:"title"`
	Tempo         *float64         `json:"tempo"`
	TimeSignature string           `json:"time_signature"`
	Hands         [][]rawNoteEvent `json:"hands"`
	Notes         []rawNoteEvent   `json:"notes"`
}

// Melody is a loaded melody file's parsed data plus metadata.
type Melody struct {
	Name          string
	Title         string
	Tempo         float64
	TimeSigNum    int
	TimeSigDen    int
	Hands         [][]NoteEvent
}

// BlockTick is one logical tick produced by NextBlockEvents: parallel arrays
// indexed by hand, plus the cumulative beat offset.
type BlockTick struct {
	Time       float64
	Notes      []float64
	Durations  []float64
	Intensity  []float64
}

// Compositor loads a repository of melody files and streams note events from
// whichever melody is currently started.
type Compositor struct {
	Melodies map[string]*Melody

	current     *Melody
	currentName string
	cursors     []int
}

// NewCompositor creates an empty Compositor.
func NewCompositor() *Compositor {
	return &Compositor{Melodies: make(map[string]*Melody)}
}

// LoadRepo reads every *.json file in dir, strips comments, parses, and
// records metadata. Invalid entries are skipped with a warning rather than
// aborting the whole scan.
func (c *Compositor) LoadRepo(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read melody dir %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logrus.WithError(err).WithField("file", path).Warn("failed to read melody file")
			continue
		}

		m, err := parseMelody(data)
		if err != nil {
			logrus.WithError(err).WithField("file", path).Warn("failed to parse melody file")
			continue
		}

		name := strings.TrimSuffix(e.Name(), ".json")
		m.Name = name
		c.Melodies[name] = m
	}
	return nil
}

// parseMelody strips comments from raw and decodes it into a Melody.
func parseMelody(raw []byte) (*Melody, error) {
	stripped := StripComments(raw)

	var rf rawMelodyFile
	if err := json.Unmarshal(stripped, &rf); err != nil {
		return nil, fmt.Errorf("parse melody json: %w", err)
	}

	if len(rf.Hands) == 0 && len(rf.Notes) == 0 {
		return nil, fmt.Errorf("melody has neither hands nor notes")
	}

	var hands [][]NoteEvent
	if len(rf.Hands) > 0 {
		for _, h := range rf.Hands {
			hand := make([]NoteEvent, 0, len(h))
			for _, n := range h {
				hand = append(hand, n.toNoteEvent())
			}
			hands = append(hands, hand)
		}
	} else {
		hand := make([]NoteEvent, 0, len(rf.Notes))
		for _, n := range rf.Notes {
			hand = append(hand, n.toNoteEvent())
		}
		hands = append(hands, hand)
	}

	num, den := 4, 4
	if rf.TimeSignature != "" {
		if n, d, ok := parseTimeSignature(rf.TimeSignature); ok {
			num, den = n, d
		}
	}

	tempo := 120.0
	if rf.Tempo != nil {
		tempo = *rf.Tempo
	}

	return &Melody{
		Title:      rf.Title,
		Tempo:      tempo,
		TimeSigNum: num,
		TimeSigDen: den,
		Hands:      hands,
	}, nil
}

func parseTimeSignature(s string) (num, den int, ok bool) {
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

// StripComments removes // line comments and /* */ block comments from raw
// JSON text that may not be inside string literals, tolerating annotated
// melody files that carry inline comments.
func StripComments(raw []byte) []byte {
	var out strings.Builder
	inString := false
	escaped := false
	i := 0
	for i < len(raw) {
		c := raw[i]
		if inString {
			out.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			i++
			continue
		}

		if c == '"' {
			inString = true
			out.WriteByte(c)
			i++
			continue
		}
		if c == '/' && i+1 < len(raw) && raw[i+1] == '/' {
			for i < len(raw) && raw[i] != '\n' {
				i++
			}
			continue
		}
		if c == '/' && i+1 < len(raw) && raw[i+1] == '*' {
			i += 2
			for i+1 < len(raw) && !(raw[i] == '*' && raw[i+1] == '/') {
				i++
			}
			i += 2
			continue
		}
		out.WriteByte(c)
		i++
	}
	return []byte(out.String())
}

// Start sets the current melody by name and zeroes all hand cursors.
func (c *Compositor) Start(name string) {
	m, ok := c.Melodies[name]
	if !ok {
		return
	}
	c.current = m
	c.currentName = name
	c.cursors = make([]int, len(m.Hands))
}

// CurrentName returns the name of the melody currently started, or "" if
// none has been started.
func (c *Compositor) CurrentName() string { return c.currentName }

// NextEvent emits one event per hand and advances every hand's cursor modulo
// its length. With no melody
// started, it emits silence.
func (c *Compositor) NextEvent() (notes, durations, intensity []float64) {
	if c.current == nil || len(c.current.Hands) == 0 {
		return []float64{0.0}, []float64{1.0}, []float64{0.0}
	}

	for h, hand := range c.current.Hands {
		if len(hand) == 0 {
			continue
		}
		idx := c.cursors[h] % len(hand)
		ev := hand[idx]
		notes = append(notes, ev.Frequency)
		durations = append(durations, ev.DurationBeats)
		intensity = append(intensity, ev.Intensity)
		c.cursors[h] = (c.cursors[h] + 1) % len(hand)
	}
	return notes, durations, intensity
}

// CursorOf returns the cursor of hand index h, for test observation of the
// wrap-around invariant.
func (c *Compositor) CursorOf(h int) int {
	if h < 0 || h >= len(c.cursors) {
		return 0
	}
	return c.cursors[h]
}

// NextBlockEvents repeatedly calls NextEvent, accumulating the mean duration
// across hands as the beat advance, until the cumulative time reaches beats.
// The mean-duration accumulation (rather than a per-hand independent clock)
// is a deliberate drift: it under- or over-shoots beats when hands disagree
// sharply, and that behavior is preserved rather than corrected.
func (c *Compositor) NextBlockEvents(beats float64) []BlockTick {
	var ticks []BlockTick
	t := 0.0
	for t < beats {
		notes, durations, intensity := c.NextEvent()
		ticks = append(ticks, BlockTick{Time: t, Notes: notes, Durations: durations, Intensity: intensity})
		t += meanOf(durations)
	}
	return ticks
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 1.0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	if mean <= 0 {
		return 0.001
	}
	return mean
}

// GetTempo returns the current melody's tempo, or def if none is started.
func (c *Compositor) GetTempo(def float64) float64 {
	if c.current == nil {
		return def
	}
	return c.current.Tempo
}

// GetMeter returns the current melody's time signature, defaulting to 4/4.
func (c *Compositor) GetMeter() (num, den int) {
	if c.current == nil {
		return 4, 4
	}
	return c.current.TimeSigNum, c.current.TimeSigDen
}

// MelodyNames returns the names of all loaded melodies, for Maestro's random
// selection on zone entry.
func (c *Compositor) MelodyNames() []string {
	names := make([]string, 0, len(c.Melodies))
	for name := range c.Melodies {
		names = append(names, name)
	}
	return names
}

// PitchClass converts a frequency to a 0-11 pitch class using equal
// temperament relative to A440.
func PitchClass(freqHz float64) int {
	if freqHz <= 0 {
		return 0
	}
	midi := 69 + 12*math.Log2(freqHz/440.0)
	pc := int(math.Round(midi)) % 12
	if pc < 0 {
		pc += 12
	}
	return pc
}
