package display

import (
	"testing"

	"github.com/youenchene/ACE/internal/bitmap"
	"github.com/youenchene/ACE/internal/copper"
	"github.com/youenchene/ACE/internal/palette"
	"github.com/youenchene/ACE/internal/sprite"
	"github.com/youenchene/ACE/internal/view"
)

func setup(t *testing.T, mode copper.Mode) (*view.View, *bitmap.Arena, *sprite.Registry) {
	t.Helper()
	v := view.New(view.WithCopperMode(mode, 16))
	arena := bitmap.NewArena(0)
	reg, err := sprite.NewRegistry(v, arena)
	if err != nil {
		t.Fatal(err)
	}
	return v, arena, reg
}

func frame(v *view.View, process ...func() error) {
	for i := 0; i < 2; i++ {
		for _, p := range process {
			p()
		}
		v.Process()
	}
}

func TestRenderMultiplexed(t *testing.T) {
	for _, mode := range []copper.Mode{copper.ModeBlock, copper.ModeRaw} {
		t.Run(mode.String(), func(t *testing.T) {
			v, arena, reg := setup(t, mode)
			m, err := reg.AddMultiplexed(2, 8, 2)
			if err != nil {
				t.Fatal(err)
			}

			src, _ := bitmap.New(16, 8, 2, bitmap.Clear|bitmap.Interleaved)
			src.SetPixel(0, 0, 1)
			src.SetPixel(15, 7, 3)
			for i := 0; i < 2; i++ {
				m.SetElement(i, 8, true, false)
				m.SetBitmap(i, src)
			}
			m.SetPos(0, 10, 20)
			m.SetPos(1, 100, 50)
			m.Process()
			frame(v, m.ProcessChannel)

			r := NewRenderer(v, arena)
			if got := r.Pointers()[2]; got != m.Bitmap().Address() {
				t.Fatalf("got pointer %06X, want %06X", got, m.Bitmap().Address())
			}

			img := r.Render()
			pal := palette.Default()
			for _, test := range []struct {
				x, y int
				want int
			}{
				{10, 20, palette.SpriteColor(2, 1)},
				{25, 27, palette.SpriteColor(2, 3)},
				{100, 50, palette.SpriteColor(2, 1)},
				{115, 57, palette.SpriteColor(2, 3)},
				{11, 20, 0},
			} {
				if got, want := img.RGBAAt(test.x, test.y), pal[test.want].ToRGBA(); got != want {
					t.Errorf("%d,%d: got %v, want %v", test.x, test.y, got, want)
				}
			}

			before := Hash(img)
			m.SetPos(1, 101, 50)
			m.Process()
			if Hash(r.Render()) == before {
				t.Errorf("expected the frame hash to change after a move")
			}
		})
	}
}

func TestRenderDisabledChannel(t *testing.T) {
	v, arena, reg := setup(t, copper.ModeBlock)
	m, _ := reg.AddMultiplexed(0, 8, 1)
	src, _ := bitmap.New(16, 8, 2, bitmap.Clear|bitmap.Interleaved)
	src.SetPixel(0, 0, 2)
	m.SetElement(0, 8, true, false)
	m.SetBitmap(0, src)
	m.Process()
	m.Enable(false)
	frame(v, m.ProcessChannel)

	r := NewRenderer(v, arena)
	if r.Pointers()[0] != reg.BlankAddress() {
		t.Errorf("got %06X, want blank sprite", r.Pointers()[0])
	}
	bg := palette.Default()[0].ToRGBA()
	if got := r.Render().RGBAAt(0, 0); got != bg {
		t.Errorf("got %v, want background %v", got, bg)
	}
}

func TestRenderAttached(t *testing.T) {
	v, arena, reg := setup(t, copper.ModeBlock)
	strip, _ := bitmap.New(16, 8, 4, bitmap.Clear|bitmap.Interleaved)
	strip.SetPixel(3, 0, 0b1011)
	a, err := reg.AddAdvanced(0, strip, nil, 8, 1)
	if err != nil {
		t.Fatal(err)
	}
	a.SetPos(0, 40, 40)
	a.Process()
	frame(v, a.ProcessChannel)

	img := NewRenderer(v, arena).Render()
	// frames start with a blank line
	want := palette.Default()[16+0b1011].ToRGBA()
	if got := img.RGBAAt(43, 41); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
