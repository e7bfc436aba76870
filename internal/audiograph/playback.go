package audiograph

import (
	"bytes"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// Playback wraps a single shared ebiten audio.Context and turns rendered
// StereoNode graphs into live ebiten players.
type Playback struct {
	ctx *audio.Context
	mu  sync.Mutex
}

// NewPlayback creates a Playback backed by an ebiten audio context at
// sampleRate. A process may only ever construct one ebiten audio.Context;
// callers should create exactly one Playback and share it.
func NewPlayback(sampleRate float64) *Playback {
	return &Playback{ctx: audio.NewContext(int(sampleRate))}
}

// PlayNode renders node to durSeconds of PCM at sampleRate, wraps it in a
// WAV container, and starts an ebiten player for it. The returned player is
// already playing; callers that need to stop it early may call Pause.
func (p *Playback) PlayNode(node StereoNode, sampleRate, durSeconds float64) (*audio.Player, error) {
	wavBytes := EncodeWAV(node, sampleRate, durSeconds)

	stream, err := wav.DecodeWithSampleRate(int(sampleRate), bytes.NewReader(wavBytes))
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	player, err := p.ctx.NewPlayer(stream)
	if err != nil {
		return nil, err
	}
	player.Play()
	return player, nil
}
