// Package bitmap provides planar bitmaps laid out the way the display
// chipset fetches them, a chip-memory arena that gives every bitmap a
// DMA address, and the rectangle copy used to compose sprite data.
package bitmap

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Flags control how a Bitmap is laid out.
type Flags uint8

const (
	// Clear requests zeroed memory. Memory is always zeroed; the flag is
	// kept so layouts can be described exactly as the chipset tools do.
	Clear Flags = 1 << iota
	// Interleaved stores the rows of every plane next to each other, so a
	// single line of all planes is contiguous in memory.
	Interleaved
)

var (
	// ErrInvalidSize is returned for non-positive dimensions or depths.
	ErrInvalidSize = errors.New("bitmap: invalid size")
	// ErrOutOfBounds is returned when a rectangle leaves a bitmap.
	ErrOutOfBounds = errors.New("bitmap: rectangle out of bounds")
)

// MaxDepth is the largest number of bitplanes a Bitmap may have.
const MaxDepth = 8

// Bitmap is a planar image. Every plane row is a whole number of 16-bit
// words, stored big-endian as the chipset reads them.
type Bitmap struct {
	byteWidth int // bytes per row of a single plane
	rows      int
	depth     int
	flags     Flags
	data      []byte
	addr      uint32
}

// New allocates a bitmap outside chip memory. Its Address is zero, so it
// can be used as a blit source but not be fetched by DMA.
func New(width, height, depth int, flags Flags) (*Bitmap, error) {
	if width <= 0 || height <= 0 || depth <= 0 || depth > MaxDepth {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrInvalidSize, width, height, depth)
	}
	bw := ((width + 15) / 16) * 2
	return &Bitmap{
		byteWidth: bw,
		rows:      height,
		depth:     depth,
		flags:     flags,
		data:      make([]byte, bw*height*depth),
	}, nil
}

// ByteWidth returns the width of one plane row in bytes.
func (b *Bitmap) ByteWidth() int { return b.byteWidth }

// Width returns the width of the bitmap in pixels.
func (b *Bitmap) Width() int { return b.byteWidth * 8 }

// Rows returns the height of the bitmap in lines.
func (b *Bitmap) Rows() int { return b.rows }

// Depth returns the number of bitplanes.
func (b *Bitmap) Depth() int { return b.depth }

// Flags returns the layout flags the bitmap was created with.
func (b *Bitmap) Flags() Flags { return b.flags }

// IsInterleaved reports whether the planes are interleaved per row.
func (b *Bitmap) IsInterleaved() bool { return b.flags&Interleaved != 0 }

// Address returns the chip memory address of the first byte of plane 0.
func (b *Bitmap) Address() uint32 { return b.addr }

// Bytes returns the raw memory of the bitmap.
func (b *Bitmap) Bytes() []byte { return b.data }

// BytesPerRow returns the distance in bytes between two rows of a plane.
func (b *Bitmap) BytesPerRow() int {
	if b.IsInterleaved() {
		return b.byteWidth * b.depth
	}
	return b.byteWidth
}

func (b *Bitmap) planeOffset(p int) int {
	if b.IsInterleaved() {
		return p * b.byteWidth
	}
	return p * b.byteWidth * b.rows
}

// Plane returns the memory starting at plane p. Rows of the plane are
// BytesPerRow apart.
func (b *Bitmap) Plane(p int) []byte {
	return b.data[b.planeOffset(p):]
}

// Word returns the col-th word of row in plane p.
func (b *Bitmap) Word(p, row, col int) uint16 {
	off := b.planeOffset(p) + row*b.BytesPerRow() + col*2
	return binary.BigEndian.Uint16(b.data[off:])
}

// SetWord sets the col-th word of row in plane p.
func (b *Bitmap) SetWord(p, row, col int, v uint16) {
	off := b.planeOffset(p) + row*b.BytesPerRow() + col*2
	binary.BigEndian.PutUint16(b.data[off:], v)
}

// WordAt returns the word at the given word offset from the start of
// plane 0, the way DMA walks the memory of an interleaved bitmap.
func (b *Bitmap) WordAt(offset int) uint16 {
	return binary.BigEndian.Uint16(b.data[offset*2:])
}

// PutWord writes the word at the given word offset from the start of
// plane 0.
func (b *Bitmap) PutWord(offset int, v uint16) {
	binary.BigEndian.PutUint16(b.data[offset*2:], v)
}

// Words returns the number of 16-bit words the bitmap occupies.
func (b *Bitmap) Words() int {
	return len(b.data) / 2
}

// Pixel returns the colour index at x, y.
func (b *Bitmap) Pixel(x, y int) uint8 {
	var c uint8
	stride := b.BytesPerRow()
	shift := 7 - uint(x&7)
	for p := 0; p < b.depth; p++ {
		v := b.data[b.planeOffset(p)+y*stride+x>>3]
		c |= ((v >> shift) & 1) << p
	}
	return c
}

// SetPixel sets the colour index at x, y. Bits of c above the depth of
// the bitmap are ignored.
func (b *Bitmap) SetPixel(x, y int, c uint8) {
	stride := b.BytesPerRow()
	mask := byte(0x80) >> uint(x&7)
	for p := 0; p < b.depth; p++ {
		off := b.planeOffset(p) + y*stride + x>>3
		if c&(1<<p) != 0 {
			b.data[off] |= mask
		} else {
			b.data[off] &^= mask
		}
	}
}

// ClearRows zeroes the given rows of every plane.
func (b *Bitmap) ClearRows(from, count int) {
	for p := 0; p < b.depth; p++ {
		for y := from; y < from+count && y < b.rows; y++ {
			off := b.planeOffset(p) + y*b.BytesPerRow()
			clear(b.data[off : off+b.byteWidth])
		}
	}
}

func (b *Bitmap) String() string {
	return fmt.Sprintf("bitmap{%dx%dx%d @%06X}", b.Width(), b.rows, b.depth, b.addr)
}
