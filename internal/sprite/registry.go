// Package sprite multiplexes many logical sprites onto the 8 hardware
// sprite channels by chaining them vertically in one DMA buffer per
// channel, and publishes each channel's buffer address through the copper.
package sprite

import (
	"fmt"

	"github.com/youenchene/ACE/internal/bitmap"
	"github.com/youenchene/ACE/internal/copper"
	"github.com/youenchene/ACE/internal/system"
	"github.com/youenchene/ACE/internal/types"
	"github.com/youenchene/ACE/pkg/log"
	"github.com/youenchene/ACE/pkg/utils"
)

// regenFrames is the number of ProcessChannel calls a pointer change needs
// to reach both copper buffers in raw mode.
const regenFrames = 2

// channel is one entry of the channel table.
type channel struct {
	owner  *Multiplexed
	block  *copper.Block
	rawPos int
	regen  uint8
}

// Registry owns the channel table: which multiplexer drives each hardware
// channel and how its pointer is written into the copper list.
type Registry struct {
	view  View
	arena *bitmap.Arena
	sys   *system.System
	blank *bitmap.Bitmap

	rawCopPos int
	debug     bool
	channels  [types.SpriteChannelCount]channel

	log log.Logger
}

// View is the display context a Registry publishes channel pointers to.
type View interface {
	X() uint8
	Y() uint8
	Copper() *copper.List
}

// RegistryOpt configures a Registry.
type RegistryOpt func(r *Registry)

// WithLogger sets the logger failures are reported to.
func WithLogger(l log.Logger) RegistryOpt {
	return func(r *Registry) {
		r.log = l
	}
}

// WithSystem sets the critical section structural operations run in.
func WithSystem(s *system.System) RegistryOpt {
	return func(r *Registry) {
		r.sys = s
	}
}

// WithRawCopperPos sets the index of the first of the 16 raw copper
// instructions reserved for sprite pointers. Only used in raw mode.
func WithRawCopperPos(pos int) RegistryOpt {
	return func(r *Registry) {
		r.rawCopPos = pos
	}
}

// Debug enables the extra consistency checks of debug builds.
func Debug() RegistryOpt {
	return func(r *Registry) {
		r.debug = true
	}
}

// NewRegistry creates the channel table of v, allocating the shared blank
// sprite in arena. In raw mode every channel pointer is initialised to the
// blank sprite in both copper buffers.
func NewRegistry(v View, arena *bitmap.Arena, opts ...RegistryOpt) (*Registry, error) {
	r := &Registry{
		view:  v,
		arena: arena,
		log:   log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.sys == nil {
		r.sys = system.New(r.log)
	}

	blank, err := arena.Create(types.SpriteWidth, 1, types.SpriteDepth, bitmap.Clear|bitmap.Interleaved)
	if err != nil {
		return nil, fmt.Errorf("sprite: allocating blank sprite: %w", err)
	}
	r.blank = blank

	cop := v.Copper()
	if cop.Mode() != copper.ModeRaw {
		return r, nil
	}

	last := r.rawCopPos + 2*types.SpriteChannelCount
	if r.rawCopPos < 0 || last > cop.Back().Len() {
		arena.Destroy(blank)
		return nil, fmt.Errorf("sprite: raw copper position %d does not fit a %d instruction list", r.rawCopPos, cop.Back().Len())
	}
	hi, lo := utils.Uint32ToWords(blank.Address())
	for ch := uint8(0); ch < types.SpriteChannelCount; ch++ {
		pos := r.rawCopPos + 2*int(ch)
		r.channels[ch].rawPos = pos
		for _, buf := range []*copper.Buffer{cop.Front(), cop.Back()} {
			buf.Set(pos, copper.NewMove(uint16(types.SprPtrH(ch)), hi))
			buf.Set(pos+1, copper.NewMove(uint16(types.SprPtrL(ch)), lo))
		}
	}
	return r, nil
}

// Close destroys the copper blocks still reserved and frees the blank
// sprite. Multiplexers still registered are left dangling.
func (r *Registry) Close() {
	r.sys.Use()
	defer r.sys.Unuse()

	for ch := range r.channels {
		c := &r.channels[ch]
		if c.owner != nil {
			r.log.Debugf("sprite channel %d still used on close", ch)
			c.owner = nil
		}
		if c.block != nil {
			r.view.Copper().DestroyBlock(c.block)
			c.block = nil
		}
	}
	if r.blank != nil {
		r.arena.Destroy(r.blank)
		r.blank = nil
	}
}

// System returns the critical section used by structural operations.
func (r *Registry) System() *system.System {
	return r.sys
}

// BlankAddress returns the chip address of the shared blank sprite.
func (r *Registry) BlankAddress() uint32 {
	return r.blank.Address()
}

func (r *Registry) checkChannel(ch uint8) error {
	if ch >= types.SpriteChannelCount {
		r.log.Errorf("sprite channel %d out of range", ch)
		return fmt.Errorf("%w: %d", ErrChannelRange, ch)
	}
	return nil
}

// RequestCopperUpdate schedules the channel pointer to be rewritten on the
// next ProcessChannel calls.
func (r *Registry) RequestCopperUpdate(ch uint8) error {
	if err := r.checkChannel(ch); err != nil {
		return err
	}
	r.channels[ch].regen = regenFrames
	return nil
}

// address returns the buffer the channel pointer should point at.
func (r *Registry) address(c *channel) uint32 {
	if c.owner != nil && c.owner.enabled {
		return c.owner.bitmap.Address()
	}
	return r.blank.Address()
}

// ProcessChannel writes the pointer of channel ch into the copper list if
// an update is pending. A block mode update is complete after one call; a
// raw mode update patches the back buffer and needs one call per buffer.
func (r *Registry) ProcessChannel(ch uint8) error {
	if err := r.checkChannel(ch); err != nil {
		return err
	}
	c := &r.channels[ch]
	if c.regen == 0 {
		return nil
	}

	hi, lo := utils.Uint32ToWords(r.address(c))
	cop := r.view.Copper()
	if cop.Mode() == copper.ModeBlock {
		c.regen = 0
		if c.block == nil {
			return nil
		}
		c.block.Reset()
		if err := cop.Move(c.block, uint16(types.SprPtrH(ch)), hi); err != nil {
			return err
		}
		return cop.Move(c.block, uint16(types.SprPtrL(ch)), lo)
	}

	c.regen--
	back := cop.Back()
	back.SetMoveValue(c.rawPos, hi)
	back.SetMoveValue(c.rawPos+1, lo)
	return nil
}

// ChannelInfo is a snapshot of one channel table entry.
type ChannelInfo struct {
	Channel  uint8
	Claimed  bool
	Enabled  bool
	Address  uint32
	Elements int
	Regen    uint8
	HasBlock bool
}

// Channels returns a snapshot of the channel table.
func (r *Registry) Channels() []ChannelInfo {
	infos := make([]ChannelInfo, 0, types.SpriteChannelCount)
	for ch := range r.channels {
		c := &r.channels[ch]
		info := ChannelInfo{
			Channel:  uint8(ch),
			Claimed:  c.owner != nil,
			Address:  r.address(c),
			Regen:    c.regen,
			HasBlock: c.block != nil,
		}
		if c.owner != nil {
			info.Enabled = c.owner.enabled
			info.Elements = len(c.owner.elements)
		}
		infos = append(infos, info)
	}
	return infos
}
