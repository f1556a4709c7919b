package sprite

import (
	"errors"
	"testing"

	"github.com/youenchene/ACE/internal/bitmap"
	"github.com/youenchene/ACE/internal/copper"
)

// newStrip returns frames animation frames of the given height stacked
// vertically. Frame k has one pixel of the highest colour at column k of
// its first line, in every 16px column.
func newStrip(t *testing.T, width, height, frames, depth int) *bitmap.Bitmap {
	t.Helper()
	bm, err := bitmap.New(width, height*frames, depth, bitmap.Clear|bitmap.Interleaved)
	if err != nil {
		t.Fatal(err)
	}
	for k := 0; k < frames; k++ {
		for x := 0; x < width; x += 16 {
			bm.SetPixel(x+k, k*height, uint8(1<<depth-1))
		}
	}
	return bm
}

func TestAdvancedShapes(t *testing.T) {
	for _, test := range []struct {
		name         string
		width, depth int
		channel      uint8
		spriteCount  int
	}{
		{"16x2", 16, 2, 3, 1},
		{"32x2", 32, 2, 0, 2},
		{"16x4", 16, 4, 2, 2},
		{"32x4", 32, 4, 4, 4},
	} {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t, copper.ModeBlock)
			strip1 := newStrip(t, test.width, 8, 3, test.depth)
			strip2 := newStrip(t, test.width, 8, 2, test.depth)

			a, err := h.reg.AddAdvanced(test.channel, strip1, strip2, 8, 2)
			if err != nil {
				t.Fatal(err)
			}
			if a.SpriteCount() != test.spriteCount {
				t.Errorf("got %d channels, want %d", a.SpriteCount(), test.spriteCount)
			}
			if a.AnimCount() != 5 {
				t.Errorf("got %d frames, want 5", a.AnimCount())
			}
			if a.ByteWidth() != test.width/8 || a.Is4Plane() != (test.depth == 4) {
				t.Errorf("got width %d 4 planes %v", a.ByteWidth(), a.Is4Plane())
			}

			for c := 0; c < a.SpriteCount(); c++ {
				m := a.Channel(c)
				if m.Channel() != test.channel+uint8(c) {
					t.Errorf("got channel %d, want %d", m.Channel(), test.channel+uint8(c))
				}
				for i := 0; i < a.Len(); i++ {
					e := m.Element(i)
					if e.Bitmap != a.FrameBitmap(c) || !e.Enabled || e.Height != 9 {
						t.Errorf("channel %d element %d: got %+v, want frame 0 enabled 9 lines", c, i, e)
					}
					if want := a.Is4Plane() && c&1 == 1; e.Attached != want {
						t.Errorf("channel %d: got attached %v, want %v", c, e.Attached, want)
					}
				}
			}
			if h.log.Errors() != 0 {
				t.Errorf("got %d logged errors, want 0", h.log.Errors())
			}
		})
	}
}

func TestAdvancedFrameTable(t *testing.T) {
	h := newHarness(t, copper.ModeBlock)

	t.Run("planes", func(t *testing.T) {
		strip, _ := bitmap.New(16, 8, 4, bitmap.Clear|bitmap.Interleaved)
		strip.SetPixel(3, 0, 0b1011)
		a, err := h.reg.AddAdvanced(0, strip, nil, 8, 1)
		if err != nil {
			t.Fatal(err)
		}
		defer a.Remove()

		low, high := a.FrameBitmap(0), a.FrameBitmap(1)
		if got := low.Pixel(3, 1); got != 0b11 {
			t.Errorf("low: got %02b, want 11", got)
		}
		if got := high.Pixel(3, 1); got != 0b10 {
			t.Errorf("high: got %02b, want 10", got)
		}
		for x := 0; x < 16; x++ {
			if low.Pixel(x, 0) != 0 || high.Pixel(x, 0) != 0 {
				t.Fatalf("expected line 0 of every frame to be blank")
			}
		}
	})

	t.Run("columns", func(t *testing.T) {
		strip, _ := bitmap.New(32, 8, 2, bitmap.Clear|bitmap.Interleaved)
		strip.SetPixel(20, 7, 2)
		a, err := h.reg.AddAdvanced(0, strip, nil, 8, 1)
		if err != nil {
			t.Fatal(err)
		}
		defer a.Remove()

		if got := a.FrameBitmap(1).Pixel(4, 8); got != 2 {
			t.Errorf("got %d, want 2", got)
		}
		if a.FrameBitmap(0).Rows() != 9 {
			t.Errorf("got %d lines, want 9", a.FrameBitmap(0).Rows())
		}
	})

	t.Run("shared", func(t *testing.T) {
		strip, _ := bitmap.New(16, 24, 2, bitmap.Clear|bitmap.Interleaved)
		strip.SetPixel(0, 16, 1)
		a, err := h.reg.AddAdvanced(0, strip, nil, 8, 1)
		if err != nil {
			t.Fatal(err)
		}
		defer a.Remove()

		if a.FrameBitmap(0) != a.FrameBitmap(1) {
			t.Errorf("expected identical frames to share a bitmap")
		}
		if a.FrameBitmap(1) == a.FrameBitmap(2) {
			t.Errorf("expected different frames to have their own bitmap")
		}
	})
}

func TestAdvancedSetFrame(t *testing.T) {
	h := newHarness(t, copper.ModeBlock)
	a, err := h.reg.AddAdvanced(0, newStrip(t, 32, 8, 3, 4), nil, 8, 2)
	if err != nil {
		t.Fatal(err)
	}

	if err := a.SetFrame(1, 2); err != nil {
		t.Fatal(err)
	}
	for c := 0; c < a.SpriteCount(); c++ {
		if got, want := a.Channel(c).Element(1).Bitmap, a.FrameBitmap(2*a.SpriteCount()+c); got != want {
			t.Errorf("channel %d: got %v, want %v", c, got, want)
		}
		if got, want := a.Channel(c).Element(0).Bitmap, a.FrameBitmap(c); got != want {
			t.Errorf("channel %d: element 0 got %v, want %v", c, got, want)
		}
	}

	t.Run("outOfRange", func(t *testing.T) {
		if err := a.SetFrame(1, 3); !errors.Is(err, ErrFrameRange) {
			t.Errorf("got %v, want %v", err, ErrFrameRange)
		}
		if a.Frame(1) != 2 {
			t.Errorf("got frame %d, want 2", a.Frame(1))
		}
		if !h.log.Contains("invalid animation index") {
			t.Errorf("expected the failure to be logged")
		}
	})
}

func TestAdvancedProcess(t *testing.T) {
	for _, test := range []struct {
		name    string
		depth   int
		offsets []int16
	}{
		{"2planes", 2, []int16{0, 16}},
		{"4planes", 4, []int16{0, 0, 16, 16}},
	} {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t, copper.ModeBlock)
			a, err := h.reg.AddAdvanced(0, newStrip(t, 32, 8, 1, test.depth), nil, 8, 2)
			if err != nil {
				t.Fatal(err)
			}
			a.SetPos(0, 10, 5)
			a.SetPos(1, 40, 30)
			a.SetEnabled(1, false)
			a.Process()

			for c, dx := range test.offsets {
				m := a.Channel(c)
				if e := m.Element(0); e.X != 10+dx || e.Y != 5 || !e.Enabled {
					t.Errorf("channel %d: got %+v, want %d,5 enabled", c, e, 10+dx)
				}
				if e := m.Element(1); e.X != 40+dx || e.Enabled {
					t.Errorf("channel %d: got %+v, want x %d disabled", c, e, 40+dx)
				}
				if m.Dirty() {
					t.Errorf("channel %d: expected buffer to be up to date", c)
				}
				hdr := DecodeHeader(m.Bitmap().WordAt(0), m.Bitmap().WordAt(1))
				if want := test.depth == 4 && c&1 == 1; hdr.Attached != want {
					t.Errorf("channel %d: got attach bit %v, want %v", c, hdr.Attached, want)
				}
			}
		})
	}
}

func TestAdvancedDegraded(t *testing.T) {
	flat, _ := bitmap.New(16, 16, 2, bitmap.Clear)
	for _, test := range []struct {
		name    string
		channel uint8
		strip   *bitmap.Bitmap
		want    error
		sprites int
	}{
		{"oddChannel4Planes", 1, newStrip(t, 16, 8, 2, 4), ErrBitmapDepth, 2},
		{"notInterleaved", 0, flat, ErrBitmapFormat, 1},
		{"width", 0, newStrip(t, 48, 8, 2, 2), ErrBitmapWidth, 1},
	} {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t, copper.ModeBlock)
			a, err := h.reg.AddAdvanced(test.channel, test.strip, nil, 8, 1)
			if !errors.Is(err, test.want) {
				t.Errorf("got %v, want %v", err, test.want)
			}
			if a == nil {
				t.Fatalf("expected a degraded multiplexer")
			}
			if a.SpriteCount() != test.sprites {
				t.Errorf("got %d channels, want %d", a.SpriteCount(), test.sprites)
			}
		})
	}

	t.Run("channels", func(t *testing.T) {
		h := newHarness(t, copper.ModeBlock)
		a, err := h.reg.AddAdvanced(6, newStrip(t, 32, 8, 1, 4), nil, 8, 1)
		if a != nil || !errors.Is(err, ErrChannelRange) {
			t.Errorf("got %v, %v, want nil, %v", a, err, ErrChannelRange)
		}
	})

	t.Run("short", func(t *testing.T) {
		h := newHarness(t, copper.ModeBlock)
		a, err := h.reg.AddAdvanced(0, newStrip(t, 16, 4, 1, 2), nil, 8, 1)
		if !errors.Is(err, ErrFrameRange) || a == nil || a.AnimCount() != 0 {
			t.Errorf("got %v, want %v and no frame", err, ErrFrameRange)
		}
	})

	t.Run("inUse", func(t *testing.T) {
		h := newHarness(t, copper.ModeBlock)
		h.reg.AddMultiplexed(1, 8, 1)
		a, err := h.reg.AddAdvanced(0, newStrip(t, 32, 8, 1, 2), nil, 8, 1)
		if !errors.Is(err, ErrChannelInUse) {
			t.Errorf("got %v, want %v", err, ErrChannelInUse)
		}
		if !a.Channel(0).Owns() || a.Channel(1).Owns() {
			t.Errorf("expected only channel 0 to be claimed")
		}
	})
}

func TestAdvancedRemove(t *testing.T) {
	h := newHarness(t, copper.ModeBlock)
	a, err := h.reg.AddAdvanced(0, newStrip(t, 32, 8, 2, 4), nil, 8, 3)
	if err != nil {
		t.Fatal(err)
	}
	a.Process()
	if err := a.ProcessChannel(); err != nil {
		t.Fatal(err)
	}
	if h.view.Copper().Blocks() != 4 {
		t.Errorf("got %d blocks, want 4", h.view.Copper().Blocks())
	}

	a.Remove()
	if h.view.Copper().Blocks() != 0 {
		t.Errorf("got %d blocks, want 0", h.view.Copper().Blocks())
	}
	if h.arena.Len() != 1 {
		t.Errorf("got %d bitmaps, want only the blank sprite", h.arena.Len())
	}

	if _, err := h.reg.AddAdvanced(0, newStrip(t, 32, 8, 2, 4), nil, 8, 3); err != nil {
		t.Errorf("got %v, want channels to be free again", err)
	}
	if h.log.Contains("already used") {
		t.Errorf("expected no conflict after remove")
	}
}
