package sprite

import (
	"fmt"

	"github.com/youenchene/ACE/internal/bitmap"
	"github.com/youenchene/ACE/internal/copper"
	"github.com/youenchene/ACE/internal/types"
)

// Element is one logical sprite of a channel. X and Y are relative to the
// view origin.
type Element struct {
	Bitmap   *bitmap.Bitmap
	X, Y     int16
	Height   uint16
	Enabled  bool
	Attached bool

	headerDirty bool
	bitmapDirty bool
}

// HeaderDirty reports whether the control words still have to be written.
func (e Element) HeaderDirty() bool { return e.headerDirty }

// BitmapDirty reports whether the pixel data still has to be copied.
func (e Element) BitmapDirty() bool { return e.bitmapDirty }

// Multiplexed drives one hardware channel with a chain of elements laid out
// in a single composed buffer. Element i uses lines L..L+h where L is the
// sum of h+1 over the elements before it: line L holds the control words,
// the following h lines the pixels. The line after the last element is
// left zero and ends the chain.
type Multiplexed struct {
	reg      *Registry
	bitmap   *bitmap.Bitmap
	channel  uint8
	elements []Element

	enabled     bool
	dirty       bool
	layoutDirty bool
	removed     bool
}

// AddMultiplexed creates a multiplexer of count elements on channel ch,
// sized for elements of heightHint lines.
//
// If the channel is already owned the new multiplexer is still returned,
// with ErrChannelInUse, but is never published.
func (r *Registry) AddMultiplexed(ch uint8, heightHint uint16, count int) (*Multiplexed, error) {
	if err := r.checkChannel(ch); err != nil {
		return nil, err
	}
	if count < 0 {
		count = 0
	}

	r.sys.Use()
	defer r.sys.Unuse()

	rows := (1+int(heightHint))*count + 1
	bm, err := r.arena.Create(types.SpriteWidth, rows, types.SpriteDepth, bitmap.Clear|bitmap.Interleaved)
	if err != nil {
		r.log.Errorf("sprite channel %d: can't allocate %d lines: %v", ch, rows, err)
		return nil, err
	}
	m := &Multiplexed{
		reg:      r,
		bitmap:   bm,
		channel:  ch,
		elements: make([]Element, count),
		enabled:  true,
	}

	c := &r.channels[ch]
	if c.owner != nil {
		r.log.Errorf("sprite channel %d is already used", ch)
		return m, fmt.Errorf("%w: %d", ErrChannelInUse, ch)
	}

	cop := r.view.Copper()
	if cop.Mode() == copper.ModeBlock {
		if c.block != nil {
			if r.debug {
				r.log.Errorf("sprite channel %d already has a copper block", ch)
				r.arena.Destroy(bm)
				return nil, fmt.Errorf("%w: %d", ErrDuplicateBlock, ch)
			}
			cop.DestroyBlock(c.block)
		}
		c.block = cop.CreateBlock(2, 0, 1)
	}
	c.owner = m
	c.regen = regenFrames
	return m, nil
}

// Channel returns the hardware channel index.
func (m *Multiplexed) Channel() uint8 { return m.channel }

// Bitmap returns the composed buffer fetched by the channel.
func (m *Multiplexed) Bitmap() *bitmap.Bitmap { return m.bitmap }

// Len returns the number of elements.
func (m *Multiplexed) Len() int { return len(m.elements) }

// Element returns a copy of element i.
func (m *Multiplexed) Element(i int) Element { return m.elements[i] }

// Dirty reports whether Process has anything to write.
func (m *Multiplexed) Dirty() bool { return m.dirty }

// Owns reports whether the multiplexer is the one published on its channel.
func (m *Multiplexed) Owns() bool {
	return !m.removed && m.reg.channels[m.channel].owner == m
}

func (m *Multiplexed) markHeader(i int) {
	m.elements[i].headerDirty = true
	m.dirty = true
}

// fits reports whether element i can be h lines high without outgrowing
// the composed buffer.
func (m *Multiplexed) fits(i int, h int) bool {
	used := 1
	for j := range m.elements {
		if j == i {
			used += h + 1
		} else {
			used += int(m.elements[j].Height) + 1
		}
	}
	return used <= m.bitmap.Rows()
}

func (m *Multiplexed) checkHeight(i int, h int) error {
	if h > types.SpriteMaxHeight {
		m.reg.log.Errorf("sprite channel %d element %d: height %d exceeds %d", m.channel, i, h, types.SpriteMaxHeight)
		return fmt.Errorf("%w: %d", ErrHeightRange, h)
	}
	if !m.fits(i, h) {
		m.reg.log.Errorf("sprite channel %d element %d: height %d overflows %d lines", m.channel, i, h, m.bitmap.Rows())
		return fmt.Errorf("%w: element %d height %d", ErrHeightOverflow, i, h)
	}
	return nil
}

// SetElement sets the metadata of element i.
func (m *Multiplexed) SetElement(i int, height uint16, enabled, attached bool) error {
	if err := m.SetHeight(i, height); err != nil {
		return err
	}
	e := &m.elements[i]
	e.Enabled = enabled
	e.Attached = attached
	m.markHeader(i)
	return nil
}

// SetBitmap binds bm as the pixel source of element i and resizes the
// element to the bitmap's height. bm must be a 16px wide interleaved
// 2-plane bitmap. Binding the bitmap already bound, at its current height,
// does nothing.
func (m *Multiplexed) SetBitmap(i int, bm *bitmap.Bitmap) error {
	if m.removed {
		return ErrRemoved
	}
	if bm == nil || !bm.IsInterleaved() || bm.Depth() != types.SpriteDepth {
		m.reg.log.Errorf("sprite channel %d bitmap %v isn't interleaved 2BPP", m.channel, bm)
		return ErrBitmapFormat
	}
	if bm.ByteWidth() != types.SpriteByteWidth {
		m.reg.log.Errorf("unsupported sprite width: %d, expected 16", bm.Width())
		return fmt.Errorf("%w: %d", ErrBitmapWidth, bm.Width())
	}

	e := &m.elements[i]
	if e.Bitmap == bm && int(e.Height) == bm.Rows() {
		return nil
	}
	if err := m.checkHeight(i, bm.Rows()); err != nil {
		return err
	}

	e.Bitmap = bm
	e.bitmapDirty = true
	m.dirty = true
	m.SetHeight(i, uint16(bm.Rows()))
	return m.reg.RequestCopperUpdate(m.channel)
}

// SetHeight sets the height of element i. Every element after it moves,
// so the whole buffer is laid out again on the next Process.
func (m *Multiplexed) SetHeight(i int, h uint16) error {
	if m.removed {
		return ErrRemoved
	}
	if m.elements[i].Height == h {
		return nil
	}
	if err := m.checkHeight(i, int(h)); err != nil {
		return err
	}
	m.elements[i].Height = h
	m.layoutDirty = true
	m.markHeader(i)
	return nil
}

// SetPos moves element i.
func (m *Multiplexed) SetPos(i int, x, y int16) {
	e := &m.elements[i]
	e.X, e.Y = x, y
	m.markHeader(i)
}

// SetEnabled shows or hides element i. A hidden element ends the chain.
func (m *Multiplexed) SetEnabled(i int, enabled bool) {
	m.elements[i].Enabled = enabled
	m.markHeader(i)
}

// SetAttached sets the attach bit of element i.
func (m *Multiplexed) SetAttached(i int, attached bool) {
	m.elements[i].Attached = attached
	m.markHeader(i)
}

// RequestMetadataUpdate forces the control words of element i to be
// rewritten.
func (m *Multiplexed) RequestMetadataUpdate(i int) {
	m.markHeader(i)
}

// RequestBitmapUpdate forces the bound bitmap of element i to be copied
// again, for sources modified in place.
func (m *Multiplexed) RequestBitmapUpdate(i int) {
	if m.elements[i].Bitmap == nil {
		return
	}
	m.elements[i].bitmapDirty = true
	m.dirty = true
}

// Enable selects whether the channel shows this multiplexer or the blank
// sprite.
func (m *Multiplexed) Enable(enabled bool) {
	if m.enabled == enabled {
		return
	}
	m.enabled = enabled
	if m.Owns() {
		m.reg.RequestCopperUpdate(m.channel)
	}
}

// Enabled reports whether the multiplexer is shown.
func (m *Multiplexed) Enabled() bool { return m.enabled }

// Process writes the pending control words and pixel data of every element
// into the composed buffer.
func (m *Multiplexed) Process() {
	if !m.dirty || m.removed {
		return
	}

	relayout := m.layoutDirty
	vx, vy := int(m.reg.view.X()), int(m.reg.view.Y())
	offset, line := 0, 1
	for i := range m.elements {
		e := &m.elements[i]
		h := int(e.Height)
		if relayout {
			e.headerDirty = true
			e.bitmapDirty = e.Bitmap != nil
		}

		if e.headerDirty {
			e.headerDirty = false
			var pos, ctl uint16
			if e.Enabled {
				vstart := uint16(vy + int(e.Y))
				hstart := uint16(vx - 1 + int(e.X))
				pos, ctl = EncodeHeader(vstart, vstart+e.Height, hstart, e.Attached)
			}
			m.bitmap.PutWord(offset, pos)
			m.bitmap.PutWord(offset+1, ctl)
		}

		if e.bitmapDirty && e.Enabled && e.Bitmap != nil {
			e.bitmapDirty = false
			n := min(h, e.Bitmap.Rows())
			if err := bitmap.Copy(e.Bitmap, 0, 0, m.bitmap, 0, line, types.SpriteWidth, n); err != nil {
				m.reg.log.Errorf("sprite channel %d element %d: %v", m.channel, i, err)
			}
			m.bitmap.ClearRows(line+n, h-n)
		}

		offset += (h + 1) * 2
		line += h + 1
	}

	if relayout {
		m.bitmap.PutWord(offset, 0)
		m.bitmap.PutWord(offset+1, 0)
		m.layoutDirty = false
	}
	m.dirty = false
}

// ProcessChannel publishes the channel pointer if an update is pending.
func (m *Multiplexed) ProcessChannel() error {
	return m.reg.ProcessChannel(m.channel)
}

// Remove releases the channel, publishing the blank sprite in its place,
// and frees the composed buffer. The multiplexer must not be used after.
func (m *Multiplexed) Remove() {
	if m.removed {
		return
	}
	r := m.reg
	r.sys.Use()
	defer r.sys.Unuse()

	c := &r.channels[m.channel]
	if c.owner == m {
		c.owner = nil
		c.regen = regenFrames
		if c.block != nil {
			r.view.Copper().DestroyBlock(c.block)
			c.block = nil
		}
	}
	if err := r.arena.Destroy(m.bitmap); err != nil {
		r.log.Errorf("sprite channel %d: %v", m.channel, err)
	}
	m.removed = true
}
