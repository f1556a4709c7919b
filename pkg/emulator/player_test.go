package emulator

import (
	"context"
	"errors"
	"testing"

	"github.com/youenchene/ACE/internal/bitmap"
	"github.com/youenchene/ACE/internal/copper"
	"github.com/youenchene/ACE/internal/display"
	"github.com/youenchene/ACE/internal/palette"
	"github.com/youenchene/ACE/internal/sprite"
	"github.com/youenchene/ACE/internal/view"
)

func newPlayer(t *testing.T, count int, opts ...Opt) (*Player, *sprite.Advanced) {
	t.Helper()
	v := view.New(view.WithCopperMode(copper.ModeBlock, 0))
	arena := bitmap.NewArena(0)
	reg, err := sprite.NewRegistry(v, arena)
	if err != nil {
		t.Fatal(err)
	}

	strip, err := bitmap.New(16, 8*3, 2, bitmap.Clear|bitmap.Interleaved)
	if err != nil {
		t.Fatal(err)
	}
	for k := 0; k < 3; k++ {
		for x := 0; x < 16; x++ {
			strip.SetPixel(x, k*8+2, 3)
		}
	}
	a, err := reg.AddAdvanced(0, strip, nil, 8, count)
	if err != nil {
		t.Fatal(err)
	}

	opts = append([]Opt{WithFrameTime(0)}, opts...)
	return NewPlayer(v, reg, a, display.NewRenderer(v, arena), opts...), a
}

func TestPlayerStep(t *testing.T) {
	var captures []Capture
	p, a := newPlayer(t, 2,
		WithWidth(64),
		WithAnimationRate(2),
		OnCapture(func(c Capture) { captures = append(captures, c) }),
	)

	if x, y := p.Position(1); x != 24 || y != 11 {
		t.Errorf("got sprite 1 at %d,%d, want 24,11", x, y)
	}

	img := p.Step()
	if img == nil {
		t.Fatal("expected the first frame to be captured")
	}
	if len(captures) != 1 || captures[0].Frame != 1 || !captures[0].Changed {
		t.Fatalf("got captures %+v", captures)
	}
	if x, _ := p.Position(0); x != 1 {
		t.Errorf("got sprite 0 at x %d, want 1", x)
	}
	if x, _ := p.Position(1); x != 23 {
		t.Errorf("got sprite 1 at x %d, want 23", x)
	}

	bg := palette.Default().At(0).ToRGBA()
	drawn := false
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != bg.R || img.Pix[i+1] != bg.G || img.Pix[i+2] != bg.B {
			drawn = true
			break
		}
	}
	if !drawn {
		t.Errorf("expected the sprites to be rendered")
	}

	p.Step()
	if a.Frame(0) != 1 || a.Frame(1) != 2 {
		t.Errorf("got frames %d,%d, want 1,2", a.Frame(0), a.Frame(1))
	}
	if p.Frame() != 2 {
		t.Errorf("got frame %d, want 2", p.Frame())
	}
}

func TestPlayerUnchanged(t *testing.T) {
	var captures []Capture
	p, _ := newPlayer(t, 1,
		WithMoveRate(0),
		WithAnimationRate(0),
		OnCapture(func(c Capture) { captures = append(captures, c) }),
	)
	p.Step()
	p.Step()
	if len(captures) != 2 {
		t.Fatalf("got %d captures, want 2", len(captures))
	}
	if captures[1].Changed || captures[1].Hash != captures[0].Hash {
		t.Errorf("expected a still sprite to render the same frame")
	}
}

func TestPlayerCaptureRate(t *testing.T) {
	p, _ := newPlayer(t, 1, WithCaptureRate(3))
	var got []bool
	for i := 0; i < 7; i++ {
		got = append(got, p.Step() != nil)
	}
	want := []bool{true, false, false, true, false, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame %d: got capture %v, want %v", i+1, got[i], want[i])
		}
	}
}

func TestPlayerBounce(t *testing.T) {
	p, _ := newPlayer(t, 1, WithWidth(20))
	for i := 0; i < 4; i++ {
		p.Step()
	}
	if x, _ := p.Position(0); x != 4 {
		t.Fatalf("got x %d, want 4", x)
	}
	p.Step()
	if x, _ := p.Position(0); x != 3 {
		t.Errorf("got x %d after the bounce, want 3", x)
	}
}

func TestPlayerRun(t *testing.T) {
	t.Run("frames", func(t *testing.T) {
		p, _ := newPlayer(t, 2)
		if err := p.Run(context.Background(), 5); err != nil {
			t.Fatal(err)
		}
		if p.Frame() != 5 {
			t.Errorf("got %d frames, want 5", p.Frame())
		}
		if !p.Status().IsStopped() {
			t.Errorf("got status %s, want Stopped", p.Status())
		}
	})
	t.Run("cancelled", func(t *testing.T) {
		p, _ := newPlayer(t, 2)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := p.Run(ctx, 0); !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want %v", err, context.Canceled)
		}
	})
}

func TestPlayerPause(t *testing.T) {
	p, _ := newPlayer(t, 1)
	if p.Paused() {
		t.Fatal("expected a new player to be running")
	}
	p.Pause()
	if !p.Paused() {
		t.Errorf("got status %s, want Paused", p.Status())
	}
	p.Resume()
	if !p.Status().IsRunning() {
		t.Errorf("got status %s, want Running", p.Status())
	}
}
