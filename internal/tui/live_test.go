package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/san-kum/gyropulse/internal/ringfield"
	"github.com/san-kum/gyropulse/internal/sim"
)

func TestLiveRendererFrames(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "pulse4", 10)

	runner := sim.New(ringfield.New(ringfield.DefaultOptions()), nil)
	runner.AddObserver(r)
	if _, err := runner.Run(context.Background(), sim.Config{Dt: 0.01, Duration: 1.0}); err != nil {
		t.Fatalf("run: %v", err)
	}

	// 10 fps over one second of run time
	if r.Frames() < 9 || r.Frames() > 11 {
		t.Errorf("expected about 10 frames, got %d", r.Frames())
	}
	out := buf.String()
	if got := strings.Count(out, clearScreen); got != r.Frames() {
		t.Errorf("wrote %d frames, counted %d", got, r.Frames())
	}
	if !strings.Contains(out, "pulse4") || !strings.Contains(out, "bpm=120") {
		t.Error("frame header missing")
	}
}
