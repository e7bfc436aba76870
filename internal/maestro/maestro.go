// Package maestro runs one cooperative block-generation loop per zone: it
// drives the arrangement pipeline, drifts tempo and energy, remaps parts to
// random presets, and submits the resulting block to the audio client.
package maestro

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/maestro/internal/arrangement"
	"github.com/opd-ai/maestro/internal/audioengine"
	"github.com/opd-ai/maestro/internal/preset"
	"github.com/opd-ai/maestro/internal/rng"
)

// blockBeats is the fixed block length the zone loop generates.
const blockBeats = 8.0

// Client is the subset of internal/client.Client the zone loop needs.
// Declared here so maestro depends on a narrow interface rather than the
// concrete façade.
type Client interface {
	PlayBlock(ctx context.Context, events []audioengine.ScheduledEvent, name string)
	StopAll(fade float64)
	Muted() bool
}

type sfxEvent struct {
	TimeOffset float64
	Preset     string
	Params     preset.Params
}

// Maestro owns one Engine per zone plus the global SFX queue and mute gate.
type Maestro struct {
	client       Client
	presetNames  []string
	rng          *rng.RNG

	mu    sync.Mutex
	zones map[string]*zoneState
	sfx   []sfxEvent
	mute  bool
}

type zoneState struct {
	presetSet []string
	cancel    context.CancelFunc
	engine    *arrangement.Engine
}

// New creates a Maestro driving client, choosing random presets from
// presetNames and seeding tempo/energy drift with seed.
func New(client Client, presetNames []string, seed int64) *Maestro {
	return &Maestro{
		client:      client,
		presetNames: presetNames,
		rng:         rng.NewRNG(seed),
		zones:       make(map[string]*zoneState),
	}
}

// EnterZone cancels any existing task for zone and starts a new
// _zone_block_loop over engine.
func (m *Maestro) EnterZone(ctx context.Context, zone string, presetSet []string, engine *arrangement.Engine) {
	m.mu.Lock()
	if existing, ok := m.zones[zone]; ok {
		existing.cancel()
	}
	zoneCtx, cancel := context.WithCancel(ctx)
	state := &zoneState{presetSet: presetSet, cancel: cancel, engine: engine}
	m.zones[zone] = state
	m.mu.Unlock()

	go m.zoneBlockLoop(zoneCtx, zone, state)
}

// SetZone is an alias for EnterZone.
func (m *Maestro) SetZone(ctx context.Context, zone string, presetSet []string, engine *arrangement.Engine) {
	m.EnterZone(ctx, zone, presetSet, engine)
}

// LeaveZone cancels zone's task and drops its entry. Idempotent: leaving an
// unknown zone is a no-op.
func (m *Maestro) LeaveZone(zone string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.zones[zone]; ok {
		state.cancel()
		delete(m.zones, zone)
	}
}

// QueueSFX appends a one-shot event to the SFX queue, flushed into the next
// block built by any zone.
func (m *Maestro) QueueSFX(name string, delay float64, params preset.Params) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfx = append(m.sfx, sfxEvent{TimeOffset: delay, Preset: name, Params: params})
}

// SetMute toggles the global mute gate. While true, in-flight zone tasks
// are cancelled and client.StopAll is invoked; no new blocks are generated
// until unmuted.
func (m *Maestro) SetMute(ctx context.Context, mute bool) {
	m.mu.Lock()
	m.mute = mute
	zones := make(map[string]*zoneState, len(m.zones))
	for k, v := range m.zones {
		zones[k] = v
	}
	m.mu.Unlock()

	if !mute {
		return
	}
	for zone, state := range zones {
		state.cancel()
		m.mu.Lock()
		delete(m.zones, zone)
		m.mu.Unlock()
	}
	m.client.StopAll(1.0)
}

func (m *Maestro) isMuted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mute
}

func (m *Maestro) drainSFX() []sfxEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sfx
	m.sfx = nil
	return out
}

// zoneBlockLoop is the cooperative per-zone task. It exits cleanly when ctx is cancelled.
func (m *Maestro) zoneBlockLoop(ctx context.Context, zone string, state *zoneState) {
	tempo := 120.0
	energy := 0.85
	phase := 0.0

	if names := state.engine.Compositor.MelodyNames(); len(names) > 0 {
		state.engine.Compositor.Start(rng.Pick(m.rng, names))
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if m.isMuted() {
			return
		}

		beatTime := 60.0 / tempo
		tempo = m.rng.BoundedWalk(tempo, 0.07, 60, 240)
		phase = math.Mod(phase+1.0/(32*beatTime), 1.0)
		energy = 0.7 + 0.3*math.Sin(2*math.Pi*phase)

		raw := state.engine.Compositor.NextBlockEvents(blockBeats)
		partsFX := state.engine.PrepareBlock(blockBeats)

		var events []audioengine.ScheduledEvent
		if partsFX != nil {
			for _, tick := range raw {
				events = append(events, audioengine.ScheduledEvent{
					TimeOffsetSeconds: tick.Time * beatTime,
					Preset:            "piano",
					Params: preset.Params{
						"notes":     tick.Notes,
						"durations": tick.Durations,
						"intensity": tick.Intensity,
						"tempo":     tempo,
					},
				})
			}

			remapped := m.remapPartsToPresets(partsFX)
			events = append(events, remapped...)
		}

		for _, sfx := range m.drainSFX() {
			events = append(events, audioengine.ScheduledEvent{
				TimeOffsetSeconds: sfx.TimeOffset,
				Preset:            sfx.Preset,
				Params:            sfx.Params,
			})
		}

		sort.SliceStable(events, func(i, j int) bool {
			return events[i].TimeOffsetSeconds < events[j].TimeOffsetSeconds
		})

		if len(events) > 0 {
			m.client.PlayBlock(ctx, events, state.engine.Compositor.CurrentName())
		}

		logrus.WithFields(logrus.Fields{"zone": zone, "tempo": tempo, "energy": energy}).Debug("zone block submitted")

		sleepFor := time.Duration(blockBeats * beatTime * float64(time.Second))
		timer := time.NewTimer(sleepFor)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// remapPartsToPresets remaps every part in partsFX to a uniformly random
// preset drawn from the Maestro's global preset list, one preset per part
// with replacement allowed.
func (m *Maestro) remapPartsToPresets(partsFX map[string]arrangement.Part) []audioengine.ScheduledEvent {
	pool := m.presetNames
	if len(pool) == 0 {
		return nil
	}

	names := make([]string, 0, len(partsFX))
	for name := range partsFX {
		names = append(names, name)
	}
	sort.Strings(names)

	events := make([]audioengine.ScheduledEvent, 0, len(names))
	for _, name := range names {
		part := partsFX[name]
		choice := rng.Pick(m.rng, pool)
		events = append(events, audioengine.ScheduledEvent{
			TimeOffsetSeconds: 0,
			Preset:            choice,
			Params: preset.Params{
				"notes":         part.Notes,
				"durations":     part.Durations,
				"intensities":   part.Intensity,
				"gain_db":       part.Mix.GainDB,
				"enable_reverb": part.Mix.EnableReverb,
				"enable_chorus": part.Mix.EnableChorus,
			},
		})
	}
	return events
}
