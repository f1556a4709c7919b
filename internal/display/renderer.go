// Package display renders what the sprite DMA of a view would put on
// screen, without any hardware: it follows the channel pointers set by
// the displayed copper buffer into chip memory and walks every sprite
// chain it finds there.
package display

import (
	"image"

	"github.com/cespare/xxhash"

	"github.com/youenchene/ACE/internal/bitmap"
	"github.com/youenchene/ACE/internal/copper"
	"github.com/youenchene/ACE/internal/palette"
	"github.com/youenchene/ACE/internal/sprite"
	"github.com/youenchene/ACE/internal/types"
	"github.com/youenchene/ACE/pkg/utils"
)

const (
	// ScreenWidth is the width of a low resolution PAL display window.
	ScreenWidth = 320
	// ScreenHeight is the height of a PAL display window.
	ScreenHeight = 256
)

// View is the display context the renderer reads the origin and the
// displayed copper buffer from.
type View interface {
	X() uint8
	Y() uint8
	Copper() *copper.List
}

// Renderer draws the sprites of a view into an RGBA image.
type Renderer struct {
	view   View
	arena  *bitmap.Arena
	pal    palette.Palette
	width  int
	height int

	// colour indexes per channel, 0 is transparent
	index    [types.SpriteChannelCount][]uint8
	attached [types.SpriteChannelCount][]bool
}

// Opt configures a Renderer.
type Opt func(r *Renderer)

// WithPalette sets the palette colours are looked up in.
func WithPalette(pal palette.Palette) Opt {
	return func(r *Renderer) {
		r.pal = pal
	}
}

// WithSize sets the size of the rendered window.
func WithSize(width, height int) Opt {
	return func(r *Renderer) {
		r.width, r.height = width, height
	}
}

// NewRenderer returns a renderer of the sprites of v, whose memory lives
// in arena.
func NewRenderer(v View, arena *bitmap.Arena, opts ...Opt) *Renderer {
	r := &Renderer{
		view:   v,
		arena:  arena,
		pal:    palette.Default(),
		width:  ScreenWidth,
		height: ScreenHeight,
	}
	for _, opt := range opts {
		opt(r)
	}
	for ch := range r.index {
		r.index[ch] = make([]uint8, r.width*r.height)
		r.attached[ch] = make([]bool, r.width*r.height)
	}
	return r
}

// Pointers returns the address every channel pointer is set to by the
// displayed copper buffer. Channels never set are absent.
func (r *Renderer) Pointers() map[uint8]uint32 {
	var hi, lo [types.SpriteChannelCount]uint16
	var set [types.SpriteChannelCount]uint8
	for _, cmd := range r.view.Copper().Front().Cmds() {
		if !cmd.IsMove() {
			continue
		}
		ch, high, ok := types.SprChannel(cmd.Reg())
		if !ok {
			continue
		}
		if high {
			hi[ch] = cmd.Value()
			set[ch] |= 1
		} else {
			lo[ch] = cmd.Value()
			set[ch] |= 2
		}
	}

	ptrs := make(map[uint8]uint32)
	for ch := range set {
		if set[ch] == 3 {
			ptrs[uint8(ch)] = utils.WordsToUint32(hi[ch], lo[ch])
		}
	}
	return ptrs
}

// Render draws the current frame.
func (r *Renderer) Render() *image.RGBA {
	for ch := range r.index {
		clear(r.index[ch])
		clear(r.attached[ch])
	}
	for ch, addr := range r.Pointers() {
		r.walk(ch, addr)
	}

	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	bg := r.pal.At(0).ToRGBA()
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = bg.R, bg.G, bg.B, bg.A
	}

	// lower channels have priority, draw them last
	for pair := types.SpriteChannelCount/2 - 1; pair >= 0; pair-- {
		even, odd := uint8(pair*2), uint8(pair*2+1)
		for i := 0; i < r.width*r.height; i++ {
			e, o := r.index[even][i], r.index[odd][i]
			var c int
			switch {
			case r.attached[odd][i]:
				if v := e | o<<2; v != 0 {
					c = types.SpriteColorBase + int(v)
				}
			case e != 0:
				c = palette.SpriteColor(even, e)
			case o != 0:
				c = palette.SpriteColor(odd, o)
			}
			if c != 0 {
				img.SetRGBA(i%r.width, i/r.width, r.pal.At(c).ToRGBA())
			}
		}
	}
	return img
}

// walk decodes the chain of channel ch starting at addr.
func (r *Renderer) walk(ch uint8, addr uint32) {
	bm, off, ok := r.arena.Lookup(addr)
	if !ok {
		return
	}
	vx, vy := int(r.view.X())-1, int(r.view.Y())
	w := off / 2
	for w+1 < bm.Words() {
		pos, ctl := bm.WordAt(w), bm.WordAt(w+1)
		if sprite.IsTerminator(pos, ctl) {
			return
		}
		hdr := sprite.DecodeHeader(pos, ctl)
		h := hdr.Height()
		if h < 0 {
			return
		}
		for line := 0; line < h && w+3+line*2 < bm.Words(); line++ {
			y := int(hdr.VStart) - vy + line
			if y < 0 || y >= r.height {
				continue
			}
			p0, p1 := bm.WordAt(w+2+line*2), bm.WordAt(w+3+line*2)
			for px := 0; px < types.SpriteWidth; px++ {
				x := int(hdr.HStart) - vx + px
				if x < 0 || x >= r.width {
					continue
				}
				shift := 15 - px
				idx := uint8(p0>>shift&1) | uint8(p1>>shift&1)<<1
				r.index[ch][y*r.width+x] = idx
				r.attached[ch][y*r.width+x] = ch&1 == 1 && hdr.Attached
			}
		}
		w += 2 + h*2
	}
}

// Hash returns a fingerprint of img, used to skip unchanged frames.
func Hash(img *image.RGBA) uint64 {
	return xxhash.Sum64(img.Pix)
}
