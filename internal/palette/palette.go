// Package palette handles the 12-bit colour palettes sprites are displayed
// with.
package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/youenchene/ACE/internal/types"
	"github.com/youenchene/ACE/pkg/utils"
)

// MaxColors is the number of colour registers.
const MaxColors = 32

// ErrTruncated is returned for palette data shorter than its header says.
var ErrTruncated = errors.New("palette: truncated data")

// Palette is a list of colours indexed like the colour registers.
type Palette []Color

// Load reads a .plt file, keeping at most maxColors colours. Compressed files are
// decompressed according to their extension.
func Load(path string, maxColors int) (Palette, error) {
	data, err := utils.LoadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := LoadFromBytes(data, maxColors)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadFromBytes parses .plt data: a colour count byte followed by that many
// big-endian 0x0RGB words. At most maxColors colours are kept.
func LoadFromBytes(data []byte, maxColors int) (Palette, error) {
	if len(data) < 1 {
		return nil, ErrTruncated
	}
	count := int(data[0])
	if len(data) < 1+count*2 {
		return nil, fmt.Errorf("%w: %d colours in %d bytes", ErrTruncated, count, len(data))
	}
	count = utils.Clamp(0, count, maxColors)

	p := make(Palette, count)
	for i := range p {
		p[i] = Color(binary.BigEndian.Uint16(data[1+i*2:]))
	}
	return p, nil
}

// Dim writes src at the given brightness level into dst, which may be src
// itself. Only the colours both palettes have are written.
func Dim(src, dst Palette, level uint8) {
	for i := 0; i < len(src) && i < len(dst); i++ {
		dst[i] = ColorDim(src[i], level)
	}
}

// Dimmed returns a copy of p at the given brightness level.
func (p Palette) Dimmed(level uint8) Palette {
	dst := make(Palette, len(p))
	Dim(p, dst, level)
	return dst
}

// Color returns p as an image palette.
func (p Palette) Color() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c.ToRGBA()
	}
	return cp
}

// At returns colour i, or black for colours the palette does not have.
func (p Palette) At(i int) Color {
	if i < 0 || i >= len(p) {
		return 0
	}
	return p[i]
}

// Default returns a full 32 colour palette. Entries 16-31 hold the sprite
// colours: 4 per pair of channels, the first of each 4 being transparent.
func Default() Palette {
	return Palette{
		0x000, 0xFFF, 0x888, 0x444, 0xF00, 0x0F0, 0x00F, 0xFF0,
		0x0FF, 0xF0F, 0x840, 0xFA0, 0x8F8, 0x88F, 0xCCC, 0x222,

		0x000, 0xE44, 0xFA8, 0x420,
		0x000, 0x4E4, 0xAF8, 0x042,
		0x000, 0x44E, 0x8AF, 0x024,
		0x000, 0xEE4, 0xFFA, 0x440,
	}
}

// SpriteColor returns the register index of colour idx of a 2-colour
// sprite on the given channel. Colour 0 is transparent.
func SpriteColor(channel uint8, idx uint8) int {
	return types.SpriteColorBase + 4*int(channel/2) + int(idx)
}

// swatch is the size in pixels of one colour in a dump.
const swatch = 16

// Image draws p as a grid of 8 colours per row.
func (p Palette) Image() *image.RGBA {
	rows := (len(p) + 7) / 8
	img := image.NewRGBA(image.Rect(0, 0, 8*swatch, rows*swatch))
	for i, c := range p {
		col := c.ToRGBA()
		x0, y0 := (i%8)*swatch, (i/8)*swatch
		for y := 0; y < swatch; y++ {
			for x := 0; x < swatch; x++ {
				img.SetRGBA(x0+x, y0+y, col)
			}
		}
	}
	return img
}

// Dump writes p to a PNG file for debugging.
func Dump(p Palette, path string) error {
	return utils.SaveImage(p.Image(), path)
}
