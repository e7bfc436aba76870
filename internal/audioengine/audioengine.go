// Package audioengine runs the single-threaded audio worker: a command
// queue, a sample-accurate block scheduler, and a reaper that retires
// finished voices.
package audioengine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/maestro/internal/audiograph"
	"github.com/opd-ai/maestro/internal/preset"
)

// Sentinel errors for the worker's error taxonomy.
var (
	ErrUnknownName        = errors.New("audioengine: unknown preset name")
	ErrHandleQueryUnknown = errors.New("audioengine: handle reports neither done nor alive")
	ErrShutdownTimeout    = errors.New("audioengine: worker did not stop before deadline")
)

// ScheduledEvent crosses the client/server boundary: a preset to play at a
// given offset within a block, with filtered constructor params plus meta
// keys.
type ScheduledEvent struct {
	TimeOffsetSeconds float64
	Preset            string
	Params            preset.Params
}

// ActivePresetInfo is the serializable shape returned by
// get_active_presets.
type ActivePresetInfo struct {
	Name   string
	Params preset.Params
	Repr   string
}

type voiceEntry struct {
	name   string
	params preset.Params
	handle *preset.Handle
}

// Engine is the single-threaded audio worker. All mutation of active voices
// and the preset registry snapshot happens on the goroutine running Run;
// every other method communicates via the command channel.
type Engine struct {
	Registry        *preset.Registry
	CleanupInterval time.Duration

	// Output is the live playback sink. Nil by default (as in every unit
	// test in this package except TestPlayPresetWithOutputStartsLivePlayback);
	// cmd/maestro wires a real *audiograph.Playback so play_preset commands
	// are actually heard.
	Output     *audiograph.Playback
	SampleRate float64

	cmdQueue chan command
	voices   map[uint64]*voiceEntry
	nextID   uint64

	currentMelody string

	stopped   chan struct{}
	stopOnce  sync.Once
}

// New creates an Engine. CleanupInterval defaults to 1 second if zero.
func New(registry *preset.Registry, cleanupInterval time.Duration) *Engine {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Second
	}
	return &Engine{
		Registry:        registry,
		CleanupInterval: cleanupInterval,
		SampleRate:      44100,
		cmdQueue:        make(chan command, 256),
		voices:          make(map[uint64]*voiceEntry),
		stopped:         make(chan struct{}),
	}
}

// SetOutput wires a live playback sink. Called once at bootstrap, before
// Run starts.
func (e *Engine) SetOutput(output *audiograph.Playback, sampleRate float64) {
	e.Output = output
	if sampleRate > 0 {
		e.SampleRate = sampleRate
	}
}

// Run executes the worker loop until ctx is cancelled or a stop command is
// processed. It never returns early on a panicking command handler: the panic is recovered, logged, and the loop
// continues.
func (e *Engine) Run(ctx context.Context) error {
	defer e.stopOnce.Do(func() { close(e.stopped) })

	ticker := time.NewTicker(e.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-e.cmdQueue:
			e.safeExecute(cmd)
			if _, isStop := cmd.(stopCommand); isStop {
				return nil
			}
		case <-ticker.C:
			e.cleanupStoppedPresets()
		}
	}
}

// Stopped is closed once Run has returned, for callers enforcing the 2s
// join deadline.
func (e *Engine) Stopped() <-chan struct{} { return e.stopped }

func (e *Engine) safeExecute(cmd command) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Error("audio worker command handler panicked, continuing")
		}
	}()
	cmd.execute(e)
}

// Submit enqueues a command for the worker loop. Blocks if the queue is
// full, providing natural backpressure.
func (e *Engine) Submit(cmd command) {
	e.cmdQueue <- cmd
}

// PlayPreset instantiates name with params and tracks the resulting voice.
// Unknown names are logged and dropped.
func (e *Engine) PlayPreset(name string, params preset.Params) {
	e.Submit(playPresetCommand{name: name, params: params})
}

// PlayBlock schedules a whole block of events, spawning the scheduler
// goroutine that feeds play_preset commands back onto the queue at the
// right wall-clock time.
func (e *Engine) PlayBlock(ctx context.Context, events []ScheduledEvent, name string) {
	e.Submit(setCurrentMelodyCommand{name: name})
	go e.scheduleBlock(ctx, events)
}

// GetActivePresets blocks for the worker's current voice snapshot.
func (e *Engine) GetActivePresets() []ActivePresetInfo {
	reply := make(chan []ActivePresetInfo, 1)
	e.Submit(getActivePresetsCommand{reply: reply})
	return <-reply
}

// GetCurrentMelody blocks for the worker's current melody name.
func (e *Engine) GetCurrentMelody() string {
	reply := make(chan string, 1)
	e.Submit(getCurrentMelodyCommand{reply: reply})
	return <-reply
}

// Stop requests the worker loop exit after processing queued commands.
func (e *Engine) Stop() {
	e.Submit(stopCommand{})
}

func (e *Engine) track(name string, params preset.Params, handle *preset.Handle) {
	e.nextID++
	e.voices[e.nextID] = &voiceEntry{name: name, params: params, handle: handle}
}

// cleanupStoppedPresets removes every voice whose handle reports done. A
// voice that cannot answer either query is left in place and logged at
// debug — in this implementation every Handle always answers
// IsDone/IsAlive, so that branch is unreachable but kept to document the
// contract.
func (e *Engine) cleanupStoppedPresets() {
	for id, v := range e.voices {
		if v.handle == nil {
			logrus.WithField("voice", id).Debug("voice handle query unknown, leaving in place")
			continue
		}
		if v.handle.IsDone() {
			delete(e.voices, id)
		}
	}
}

func (e *Engine) activePresetSnapshot() []ActivePresetInfo {
	out := make([]ActivePresetInfo, 0, len(e.voices))
	for _, v := range e.voices {
		out = append(out, ActivePresetInfo{
			Name:   v.name,
			Params: v.params,
			Repr:   fmt.Sprintf("%s(%v)", v.name, v.params),
		})
	}
	return out
}
