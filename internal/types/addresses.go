package types

// Register is the offset of a custom chip register from the base of the
// custom chip area (0xDFF000). Copper MOVE instructions address registers
// by this offset.
type Register = uint16

const (
	// DIWSTRT is the display window start register. Its upper byte holds
	// the first visible line, its lower byte the first visible colour
	// clock, which together form the view origin sprites are placed from.
	DIWSTRT Register = 0x08E
	// DIWSTOP is the display window stop register.
	DIWSTOP Register = 0x090
	// DMACON is the DMA control register; bit 5 enables sprite DMA.
	DMACON Register = 0x096

	// SPR0PTH is the high word of the sprite 0 DMA pointer. Pointers of the
	// following channels follow at a stride of SprPtrStride.
	SPR0PTH Register = 0x120
	// SPR0PTL is the low word of the sprite 0 DMA pointer.
	SPR0PTL Register = 0x122
	// SPR0POS is the sprite 0 position register, written by sprite DMA from
	// the first control word.
	SPR0POS Register = 0x140
	// SPR0CTL is the sprite 0 control register, written by sprite DMA from
	// the second control word.
	SPR0CTL Register = 0x142

	// COLOR00 is the first palette register. Sprites use COLOR16-COLOR31.
	COLOR00 Register = 0x180
)

const (
	// SprPtrStride is the distance between two channels' pointer registers.
	SprPtrStride = 4
	// SprRegStride is the distance between two channels' POS/CTL/DATA blocks.
	SprRegStride = 8
)

// SprPtrH returns the high pointer register of the given sprite channel.
func SprPtrH(channel uint8) Register {
	return SPR0PTH + Register(channel)*SprPtrStride
}

// SprPtrL returns the low pointer register of the given sprite channel.
func SprPtrL(channel uint8) Register {
	return SPR0PTL + Register(channel)*SprPtrStride
}

// SprChannel returns the channel whose pointer register reg is, and
// whether reg is a high word. ok is false for any other register.
func SprChannel(reg Register) (channel uint8, high bool, ok bool) {
	if reg < SPR0PTH || reg >= SPR0PTH+SpriteChannelCount*SprPtrStride {
		return 0, false, false
	}
	off := reg - SPR0PTH
	return uint8(off / SprPtrStride), off%SprPtrStride == 0, true
}

// Color returns the palette register of the given colour index.
func Color(index uint8) Register {
	return COLOR00 + Register(index)*2
}
