package sprite

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cespare/xxhash"

	"github.com/youenchene/ACE/internal/bitmap"
	"github.com/youenchene/ACE/internal/types"
)

// frameHeaderLines is the number of blank lines every precomputed frame
// starts with.
const frameHeaderLines = 1

// SubSprite is one logical sprite of an Advanced multiplexer.
type SubSprite struct {
	X, Y    int16
	Frame   uint16
	Enabled bool
}

// Advanced displays sprites wider than 16 pixels and/or with 16 colours by
// driving 1, 2 or 4 adjacent channels together, and animates them from
// frames precomputed out of one or two vertical strips.
type Advanced struct {
	reg     *Registry
	channel uint8

	height    int
	byteWidth int
	is4Plane  bool
	shift     uint // log2 of the channels per frame
	animCount int

	frames   []*bitmap.Bitmap // frame<<shift + channel
	channels []*Multiplexed
	elements []SubSprite
	dirty    bool
}

// AddAdvanced creates a multiplexer of count sprites of the given height on
// the channels starting at ch. strip1 and the optional strip2 hold the
// animation frames stacked vertically: 16 or 32 pixels wide, interleaved,
// with 2 bitplanes, or 4 bitplanes when ch is even.
//
// Invalid strips are reported and construction goes on with what can be
// displayed: the returned error joins every failure and the multiplexer is
// still returned.
func (r *Registry) AddAdvanced(ch uint8, strip1, strip2 *bitmap.Bitmap, height, count int) (*Advanced, error) {
	if strip1 == nil {
		r.log.Errorf("sprite channel %d: no bitmap strip", ch)
		return nil, ErrBitmapFormat
	}
	if height <= 0 || height+frameHeaderLines > types.SpriteMaxHeight {
		r.log.Errorf("sprite channel %d: invalid sprite height %d", ch, height)
		return nil, fmt.Errorf("%w: %d", ErrHeightRange, height)
	}

	var errs []error
	depth := strip1.Depth()
	if !strip1.IsInterleaved() || (depth != 2 && (depth != 4 || ch&1 == 1)) {
		r.log.Errorf(
			"sprite channel %d bitmap %v isn't interleaved 2BPP (for any channel) or 4BPP (for an even channel)",
			ch, strip1,
		)
		if strip1.IsInterleaved() {
			errs = append(errs, fmt.Errorf("%w: %d planes on channel %d", ErrBitmapDepth, depth, ch))
		} else {
			errs = append(errs, ErrBitmapFormat)
		}
	}

	a := &Advanced{
		reg:       r,
		channel:   ch,
		height:    height,
		byteWidth: strip1.ByteWidth(),
		is4Plane:  depth == 4,
	}
	if a.byteWidth != 2 && a.byteWidth != 4 {
		r.log.Errorf("unsupported sprite width: %d, expected 16 or 32", strip1.Width())
		errs = append(errs, fmt.Errorf("%w: %d", ErrBitmapWidth, strip1.Width()))
		a.byteWidth = types.SpriteByteWidth
	}
	if a.byteWidth == 4 {
		a.shift++
	}
	if a.is4Plane {
		a.shift++
	}

	spriteCount := a.SpriteCount()
	if int(ch)+spriteCount > types.SpriteChannelCount {
		r.log.Errorf("sprite channel %d: %d channels needed, not enough left", ch, spriteCount)
		return nil, errors.Join(append(errs, fmt.Errorf("%w: %d+%d", ErrChannelRange, ch, spriteCount))...)
	}

	anims := []*bitmap.Bitmap{strip1}
	if strip2 != nil {
		anims = append(anims, strip2)
	}
	for _, strip := range anims {
		a.animCount += strip.Rows() / height
	}
	if err := a.buildFrames(anims); err != nil {
		errs = append(errs, err)
	}
	if a.animCount == 0 {
		r.log.Errorf("sprite channel %d: strip %v is shorter than one %d line frame", ch, strip1, height)
		errs = append(errs, fmt.Errorf("%w: no frame in strip", ErrFrameRange))
	}

	a.elements = make([]SubSprite, count)
	for i := range a.elements {
		a.elements[i].Enabled = true
	}
	for c := 0; c < spriteCount; c++ {
		m, err := r.AddMultiplexed(ch+uint8(c), uint16(height+frameHeaderLines), count)
		if m == nil {
			for _, added := range a.channels {
				added.Remove()
			}
			return nil, errors.Join(append(errs, err)...)
		}
		if err != nil {
			errs = append(errs, err)
		}

		attached := a.is4Plane && c&1 == 1
		for i := 0; i < count; i++ {
			if err := m.SetElement(i, uint16(height), true, attached); err != nil {
				errs = append(errs, err)
			}
			if a.animCount == 0 {
				continue
			}
			if err := m.SetBitmap(i, a.frames[c]); err != nil {
				errs = append(errs, err)
			}
		}
		a.channels = append(a.channels, m)
	}
	a.dirty = true
	return a, errors.Join(errs...)
}

// buildFrames cuts every frame of the strips into 16px 2-plane bitmaps,
// one per channel, with a blank first line. Identical bitmaps are shared.
func (a *Advanced) buildFrames(strips []*bitmap.Bitmap) error {
	h := a.height
	columns := a.byteWidth / 2
	a.frames = make([]*bitmap.Bitmap, 0, a.animCount*a.SpriteCount())
	seen := make(map[uint64][]*bitmap.Bitmap)

	newSprite := func(rows int) *bitmap.Bitmap {
		bm, _ := bitmap.New(types.SpriteWidth, rows, types.SpriteDepth, bitmap.Clear|bitmap.Interleaved)
		return bm
	}
	add := func(src *bitmap.Bitmap) error {
		frame := newSprite(h + frameHeaderLines)
		if err := bitmap.Copy(src, 0, 0, frame, 0, frameHeaderLines, types.SpriteWidth, h); err != nil {
			return err
		}
		key := xxhash.Sum64(frame.Bytes())
		for _, other := range seen[key] {
			if bytes.Equal(other.Bytes(), frame.Bytes()) {
				a.frames = append(a.frames, other)
				return nil
			}
		}
		seen[key] = append(seen[key], frame)
		a.frames = append(a.frames, frame)
		return nil
	}

	var errs []error
	for _, strip := range strips {
		for k := 0; k < strip.Rows()/h; k++ {
			for col := 0; col < columns; col++ {
				x, y := col*types.SpriteWidth, k*h
				// strips narrower than the sprite leave the columns blank
				w := min(types.SpriteWidth, strip.Width()-x)

				if !a.is4Plane {
					tmp := newSprite(h)
					if err := bitmap.Copy(strip, x, y, tmp, 0, 0, w, h); err != nil {
						errs = append(errs, err)
					}
					if err := add(tmp); err != nil {
						errs = append(errs, err)
					}
					continue
				}

				tmp, _ := bitmap.New(types.SpriteWidth, h, 4, bitmap.Clear|bitmap.Interleaved)
				if err := bitmap.Copy(strip, x, y, tmp, 0, 0, w, h); err != nil {
					errs = append(errs, err)
				}
				low, high := newSprite(h), newSprite(h)
				bitmap.CopyPlanes(tmp, 0, low, 0)
				bitmap.CopyPlanes(tmp, 1, low, 1)
				bitmap.CopyPlanes(tmp, 2, high, 0)
				bitmap.CopyPlanes(tmp, 3, high, 1)
				for _, half := range []*bitmap.Bitmap{low, high} {
					if err := add(half); err != nil {
						errs = append(errs, err)
					}
				}
			}
		}
	}
	if len(errs) > 0 {
		a.reg.log.Errorf("sprite channel %d: building frames: %v", a.channel, errors.Join(errs...))
	}
	return errors.Join(errs...)
}

// SpriteCount returns the number of hardware channels driven.
func (a *Advanced) SpriteCount() int { return 1 << a.shift }

// AnimCount returns the number of animation frames.
func (a *Advanced) AnimCount() int { return a.animCount }

// Height returns the height of one animation frame.
func (a *Advanced) Height() int { return a.height }

// ByteWidth returns the width of a sprite in bytes, 2 or 4.
func (a *Advanced) ByteWidth() int { return a.byteWidth }

// Is4Plane reports whether the sprites use 16 colours.
func (a *Advanced) Is4Plane() bool { return a.is4Plane }

// Len returns the number of sprites.
func (a *Advanced) Len() int { return len(a.elements) }

// Element returns a copy of sprite i.
func (a *Advanced) Element(i int) SubSprite { return a.elements[i] }

// Frame returns the animation frame of sprite i.
func (a *Advanced) Frame(i int) uint16 { return a.elements[i].Frame }

// Channel returns the multiplexer of the c-th channel driven.
func (a *Advanced) Channel(c int) *Multiplexed { return a.channels[c] }

// FrameBitmap returns the n-th entry of the frame table, n being
// frame*SpriteCount() + channel.
func (a *Advanced) FrameBitmap(n int) *bitmap.Bitmap { return a.frames[n] }

// SetFrame selects the animation frame of sprite i.
func (a *Advanced) SetFrame(i int, frame uint16) error {
	if int(frame) >= a.animCount {
		a.reg.log.Errorf("invalid animation index %d, expected less than %d", frame, a.animCount)
		return fmt.Errorf("%w: %d of %d", ErrFrameRange, frame, a.animCount)
	}
	a.elements[i].Frame = frame
	base := int(frame) << a.shift
	var errs []error
	for c, m := range a.channels {
		if err := m.SetBitmap(i, a.frames[base+c]); err != nil {
			errs = append(errs, err)
		}
	}
	a.dirty = true
	return errors.Join(errs...)
}

// SetPos moves sprite i.
func (a *Advanced) SetPos(i int, x, y int16) {
	a.elements[i].X, a.elements[i].Y = x, y
	a.dirty = true
}

// SetEnabled shows or hides sprite i.
func (a *Advanced) SetEnabled(i int, enabled bool) {
	a.elements[i].Enabled = enabled
	a.dirty = true
}

// attachedXOffset returns the horizontal offset of channel c relative to
// the sprite position: the right half of 32px sprites is 16 pixels on.
func (a *Advanced) attachedXOffset(c int) int16 {
	if a.byteWidth == 4 && ((c > 1 && a.is4Plane) || (c == 1 && !a.is4Plane)) {
		return types.SpriteWidth
	}
	return 0
}

// Process propagates positions and visibility to every channel and
// updates their buffers.
func (a *Advanced) Process() {
	if !a.dirty {
		return
	}
	for c, m := range a.channels {
		dx := a.attachedXOffset(c)
		for i, e := range a.elements {
			m.SetPos(i, e.X+dx, e.Y)
			m.SetEnabled(i, e.Enabled)
		}
		m.Process()
	}
	a.dirty = false
}

// ProcessChannel publishes the pointers of every channel with a pending
// update.
func (a *Advanced) ProcessChannel() error {
	var errs []error
	for _, m := range a.channels {
		if err := m.ProcessChannel(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Remove releases every channel and drops the frame table.
func (a *Advanced) Remove() {
	a.reg.sys.Use()
	defer a.reg.sys.Unuse()

	for _, m := range a.channels {
		m.Remove()
	}
	a.channels = nil
	a.frames = nil
}
