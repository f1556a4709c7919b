package bitmap

import (
	"fmt"
	"sort"
)

// DefaultChipBase is the first address handed out by an Arena created
// with NewArena(0).
const DefaultChipBase = 0x00010000

// chipAlign is the alignment of every allocation; the sprite DMA needs
// at least word alignment, the blitter prefers 8 bytes.
const chipAlign = 8

// Arena models chip memory: every bitmap created in it receives a unique
// DMA address that can be written into pointer registers and resolved
// back to the bitmap that owns it.
type Arena struct {
	base, next uint32
	blocks     []*Bitmap // ordered by address
}

// NewArena returns an arena handing out addresses from base. A zero base
// selects DefaultChipBase.
func NewArena(base uint32) *Arena {
	if base == 0 {
		base = DefaultChipBase
	}
	base = (base + chipAlign - 1) &^ (chipAlign - 1)
	return &Arena{base: base, next: base}
}

// Create allocates a bitmap in chip memory.
func (a *Arena) Create(width, height, depth int, flags Flags) (*Bitmap, error) {
	b, err := New(width, height, depth, flags)
	if err != nil {
		return nil, err
	}
	b.addr = a.next
	a.next += (uint32(len(b.data)) + chipAlign - 1) &^ (chipAlign - 1)
	a.blocks = append(a.blocks, b)
	return b, nil
}

// Destroy releases a bitmap created by the arena. Destroying a bitmap
// twice, or one the arena does not own, returns an error.
func (a *Arena) Destroy(b *Bitmap) error {
	if b == nil {
		return nil
	}
	i := a.index(b.addr)
	if i < 0 || a.blocks[i] != b {
		return fmt.Errorf("bitmap: %s is not owned by this arena", b)
	}
	a.blocks = append(a.blocks[:i], a.blocks[i+1:]...)
	return nil
}

// Lookup resolves a chip address to the bitmap containing it and the byte
// offset of the address within that bitmap's memory.
func (a *Arena) Lookup(addr uint32) (*Bitmap, int, bool) {
	i := sort.Search(len(a.blocks), func(i int) bool {
		return a.blocks[i].addr > addr
	}) - 1
	if i < 0 {
		return nil, 0, false
	}
	b := a.blocks[i]
	off := int(addr - b.addr)
	if off >= len(b.data) {
		return nil, 0, false
	}
	return b, off, true
}

// Len returns the number of live allocations.
func (a *Arena) Len() int {
	return len(a.blocks)
}

func (a *Arena) index(addr uint32) int {
	i := sort.Search(len(a.blocks), func(i int) bool {
		return a.blocks[i].addr >= addr
	})
	if i < len(a.blocks) && a.blocks[i].addr == addr {
		return i
	}
	return -1
}
