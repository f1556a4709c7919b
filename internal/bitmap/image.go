package bitmap

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ErrNoPalette is returned when a non-paletted image is converted without
// a palette to quantise it to.
var ErrNoPalette = errors.New("bitmap: no palette to quantise to")

// FromImage converts img to an interleaved planar bitmap of the given
// depth. Paletted images keep their colour indices when pal is nil; any
// other image is quantised to pal, which then must not be empty.
func FromImage(img image.Image, depth int, pal color.Palette) (*Bitmap, error) {
	r := img.Bounds()

	src, ok := img.(*image.Paletted)
	if !ok || pal != nil {
		if len(pal) == 0 {
			return nil, ErrNoPalette
		}
		dst := image.NewPaletted(image.Rect(0, 0, r.Dx(), r.Dy()), pal)
		draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
		src, r = dst, dst.Bounds()
	}

	b, err := New(r.Dx(), r.Dy(), depth, Clear|Interleaved)
	if err != nil {
		return nil, err
	}
	mask := uint8(1<<depth - 1)
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			b.SetPixel(x, y, src.ColorIndexAt(r.Min.X+x, r.Min.Y+y)&mask)
		}
	}
	return b, nil
}

// ToImage converts the bitmap to a paletted image using pal.
func (b *Bitmap) ToImage(pal color.Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, b.Width(), b.rows), pal)
	for y := 0; y < b.rows; y++ {
		for x := 0; x < b.Width(); x++ {
			img.SetColorIndex(x, y, b.Pixel(x, y))
		}
	}
	return img
}
