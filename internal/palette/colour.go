package palette

import (
	"fmt"
	"image/color"
)

// Color is a 12-bit colour as written into the COLORxx registers:
// 0x0RGB, 4 bits per channel.
type Color uint16

// MaxLevel is the brightness level leaving colours untouched.
const MaxLevel = 15

// NewColor returns the colour with the given 4-bit channels.
func NewColor(r, g, b uint8) Color {
	return Color(r&0xF)<<8 | Color(g&0xF)<<4 | Color(b&0xF)
}

// Channels returns the 4-bit red, green and blue channels.
func (c Color) Channels() (r, g, b uint8) {
	return uint8(c>>8) & 0xF, uint8(c>>4) & 0xF, uint8(c) & 0xF
}

// RGBA implements color.Color, expanding each channel to 16 bits.
func (c Color) RGBA() (r, g, b, a uint32) {
	cr, cg, cb := c.Channels()
	return uint32(cr) * 0x1111, uint32(cg) * 0x1111, uint32(cb) * 0x1111, 0xFFFF
}

// ToRGBA converts c to an 8-bit per channel colour.
func (c Color) ToRGBA() color.RGBA {
	r, g, b := c.Channels()
	return color.RGBA{R: r * 0x11, G: g * 0x11, B: b * 0x11, A: 0xFF}
}

// FromRGBA returns the 12-bit colour closest to col.
func FromRGBA(col color.Color) Color {
	r, g, b, _ := col.RGBA()
	// 0xFFFF/0xF = 0x1111, round to the nearest step
	return NewColor(uint8((r+0x888)/0x1111), uint8((g+0x888)/0x1111), uint8((b+0x888)/0x1111))
}

// ColorDim returns c at the given brightness level: 15 leaves it as is,
// 0 is black.
func ColorDim(c Color, level uint8) Color {
	if level >= MaxLevel {
		return c
	}
	r, g, b := c.Channels()
	return NewColor(r*level/MaxLevel, g*level/MaxLevel, b*level/MaxLevel)
}

// ColorMix interpolates between primary and secondary: level 15 gives
// primary, 0 gives secondary.
func ColorMix(primary, secondary Color, level uint8) Color {
	if level > MaxLevel {
		level = MaxLevel
	}
	pr, pg, pb := primary.Channels()
	sr, sg, sb := secondary.Channels()
	mix := func(p, s uint8) uint8 {
		return uint8((int(p)*int(level) + int(s)*(MaxLevel-int(level))) / MaxLevel)
	}
	return NewColor(mix(pr, sr), mix(pg, sg), mix(pb, sb))
}

func (c Color) String() string {
	return fmt.Sprintf("$%03X", uint16(c)&0xFFF)
}
