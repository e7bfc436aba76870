// Package client implements EngineClient, the façade external callers use
// to talk to the audio worker without touching its command queue directly.
package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/opd-ai/maestro/internal/audioengine"
	"github.com/opd-ai/maestro/internal/preset"
)

// ErrQueryTimeout is returned by blocking queries that exceed their
// deadline.
var ErrQueryTimeout = errors.New("client: query timed out")

const queryTimeout = 5 * time.Second
const shutdownJoinDeadline = 2 * time.Second

// Client is the external-facing façade over an audio worker. Fire-and-forget calls are throttled by a token bucket so a
// misbehaving caller cannot flood the worker's command queue.
type Client struct {
	engine  *audioengine.Engine
	limiter *rate.Limiter

	muteMu sync.RWMutex
	muted  bool

	stop context.CancelFunc
}

// New creates a Client around engine, throttling fire-and-forget commands
// to ratePerSecond.
func New(engine *audioengine.Engine, ratePerSecond float64, stop context.CancelFunc) *Client {
	return &Client{
		engine:  engine,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), int(ratePerSecond)+1),
		stop:    stop,
	}
}

// SetMute toggles the mute gate. Turning mute on invokes StopAll once; while
// muted, every PlayPreset/PlayBlock call is not forwarded and invokes StopAll
// instead.
func (c *Client) SetMute(muted bool) {
	c.muteMu.Lock()
	wasMuted := c.muted
	c.muted = muted
	c.muteMu.Unlock()
	if muted && !wasMuted {
		c.StopAll(1.0)
	}
}

// Muted reports the current mute gate state.
func (c *Client) Muted() bool {
	c.muteMu.RLock()
	defer c.muteMu.RUnlock()
	return c.muted
}

// PlayPreset fires a play_preset command. While muted, it short-circuits to
// StopAll instead.
func (c *Client) PlayPreset(name string, params preset.Params) {
	if c.Muted() {
		c.StopAll(1.0)
		return
	}
	if !c.limiter.Allow() {
		return
	}
	c.engine.PlayPreset(name, params)
}

// PlayBlock schedules a whole block of events. While muted, it
// short-circuits to StopAll instead.
func (c *Client) PlayBlock(ctx context.Context, events []audioengine.ScheduledEvent, name string) {
	if c.Muted() {
		c.StopAll(1.0)
		return
	}
	if !c.limiter.Allow() {
		return
	}
	c.engine.PlayBlock(ctx, events, name)
}

// StopPreset models a fade-out as a zero-intensity replay of the same
// preset.
func (c *Client) StopPreset(name string, fade float64) {
	if fade <= 0 {
		fade = 1.0
	}
	c.engine.PlayPreset(name, preset.Params{"intensity": 0.0, "fade": fade})
}

// StopAll stops every active voice by fading each currently tracked preset.
// Not rate-limited: mute and shutdown paths must always be able to reach
// the worker.
func (c *Client) StopAll(fade float64) {
	active := c.engine.GetActivePresets()
	for _, a := range active {
		c.StopPreset(a.Name, fade)
	}
}

// GetActivePresets blocks for the worker's voice snapshot, or returns
// ErrQueryTimeout after 5s.
func (c *Client) GetActivePresets() ([]audioengine.ActivePresetInfo, error) {
	result := make(chan []audioengine.ActivePresetInfo, 1)
	go func() { result <- c.engine.GetActivePresets() }()
	select {
	case r := <-result:
		return r, nil
	case <-time.After(queryTimeout):
		return nil, ErrQueryTimeout
	}
}

// GetCurrentMelody blocks for the worker's current melody name, or returns
// ErrQueryTimeout after 5s.
func (c *Client) GetCurrentMelody() (string, error) {
	result := make(chan string, 1)
	go func() { result <- c.engine.GetCurrentMelody() }()
	select {
	case r := <-result:
		return r, nil
	case <-time.After(queryTimeout):
		return "", ErrQueryTimeout
	}
}

// Shutdown stops the worker and waits up to 2s for it to exit. If the deadline elapses, the worker is considered
// forcibly stopped and Shutdown returns the dedicated
// audioengine.ErrShutdownTimeout so callers can log the forced path.
func (c *Client) Shutdown() error {
	c.engine.Stop()
	if c.stop != nil {
		c.stop()
	}
	select {
	case <-c.engine.Stopped():
		return nil
	case <-time.After(shutdownJoinDeadline):
		return audioengine.ErrShutdownTimeout
	}
}
