package audioengine

import (
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/maestro/internal/preset"
)

// command is one unit of work processed on the worker goroutine. Using an interface of structs rather than a tagged
// union keeps each handler's payload and behavior together.
type command interface {
	execute(e *Engine)
}

const (
	paramGainDB       = "gain_db"
	paramEnableReverb = "enable_reverb"
	paramEnableChorus = "enable_chorus"
	paramDuration     = "duration"
	paramDurations    = "durations"
)

type playPresetCommand struct {
	name   string
	params preset.Params
}

func (c playPresetCommand) execute(e *Engine) {
	recipe, schema, ok := e.Registry.Recipe(c.name)
	if !ok {
		logrus.WithField("preset", c.name).Warn("unknown preset name, dropping command")
		return
	}

	ctorArgs := preset.Filter(schema, c.params)
	handle := preset.Play(recipe, ctorArgs)

	if gainDB, ok := c.params[paramGainDB]; ok {
		if f, ok := gainDB.(float64); ok {
			handle.ApplyGainDB(f)
		}
	}

	e.track(c.name, ctorArgs, handle)

	if e.Output != nil {
		e.playLive(handle, ctorArgs)
	}
}

// playLive renders a handle's node(s) and starts them on the live ebiten
// output. A sequence handle (melody) plays each note back to back; a single
// handle plays for its duration param (default 1s).
func (e *Engine) playLive(handle *preset.Handle, params preset.Params) {
	if seq := handle.Sequence(); seq != nil {
		durations, _ := params[paramDurations].([]float64)
		for i, node := range seq {
			dur := 1.0
			if i < len(durations) {
				dur = durations[i]
			}
			if _, err := e.Output.PlayNode(node, e.SampleRate, dur); err != nil {
				logrus.WithError(err).Warn("failed to start live playback for melody note")
			}
		}
		return
	}

	dur := 1.0
	if d, ok := params[paramDuration].(float64); ok {
		dur = d
	}
	if _, err := e.Output.PlayNode(handle.Node(), e.SampleRate, dur); err != nil {
		logrus.WithError(err).Warn("failed to start live playback")
	}
}

type setCurrentMelodyCommand struct {
	name string
}

func (c setCurrentMelodyCommand) execute(e *Engine) {
	if c.name == "" {
		e.currentMelody = "custom_melody"
		return
	}
	e.currentMelody = c.name
}

type getActivePresetsCommand struct {
	reply chan []ActivePresetInfo
}

func (c getActivePresetsCommand) execute(e *Engine) {
	c.reply <- e.activePresetSnapshot()
}

type getCurrentMelodyCommand struct {
	reply chan string
}

func (c getCurrentMelodyCommand) execute(e *Engine) {
	c.reply <- e.currentMelody
}

type stopCommand struct{}

func (c stopCommand) execute(e *Engine) {
	logrus.Info("audio worker received stop command")
}
