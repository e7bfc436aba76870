package audiograph

import "testing"

func TestNewPlaybackPlayNode(t *testing.T) {
	p := NewPlayback(44100)
	if p == nil {
		t.Fatal("NewPlayback returned nil")
	}

	node := NewPan(NewSine(440, 1.0), 0.0)
	player, err := p.PlayNode(node, 44100, 0.05)
	if err != nil {
		t.Fatalf("PlayNode failed: %v", err)
	}
	if player == nil {
		t.Fatal("PlayNode returned a nil player")
	}
}
