package sprite

import (
	"fmt"

	"github.com/youenchene/ACE/pkg/bits"
)

// Header is the decoded form of the two control words preceding the pixel
// data of every sprite in a channel's DMA chain. All coordinates are
// absolute beam positions: lines for VStart/VStop, low resolution pixels
// for HStart.
type Header struct {
	VStart   uint16
	VStop    uint16
	HStart   uint16
	Attached bool
}

// EncodeHeader packs a header into the POS and CTL words:
//
//	POS: VSTART[7:0] << 8 | HSTART[8:1]
//	CTL: VSTOP[7:0] << 8 | ATTACH << 7 | VSTART[8] << 2 | VSTOP[8] << 1 | HSTART[0]
func EncodeHeader(vstart, vstop, hstart uint16, attached bool) (pos, ctl uint16) {
	pos = vstart<<8 | (hstart>>1)&0xFF
	ctl = vstop<<8 |
		bits.From[uint16](attached)<<7 |
		bits.Val(vstart, 8)<<2 |
		bits.Val(vstop, 8)<<1 |
		bits.Val(hstart, 0)
	return pos, ctl
}

// Encode packs h into its POS and CTL words.
func (h Header) Encode() (pos, ctl uint16) {
	return EncodeHeader(h.VStart, h.VStop, h.HStart, h.Attached)
}

// DecodeHeader unpacks the POS and CTL words of a sprite.
func DecodeHeader(pos, ctl uint16) Header {
	return Header{
		VStart:   pos>>8 | bits.Val(ctl, 2)<<8,
		VStop:    ctl>>8 | bits.Val(ctl, 1)<<8,
		HStart:   (pos&0xFF)<<1 | bits.Val(ctl, 0),
		Attached: bits.Test(ctl, 7),
	}
}

// IsTerminator reports whether a control word pair ends the DMA chain:
// nothing after an all-zero pair is fetched for the rest of the frame.
func IsTerminator(pos, ctl uint16) bool {
	return pos == 0 && ctl == 0
}

// Height returns the number of lines the sprite is displayed for.
func (h Header) Height() int {
	return int(h.VStop) - int(h.VStart)
}

func (h Header) String() string {
	return fmt.Sprintf("sprite{v %d-%d h %d attached %v}", h.VStart, h.VStop, h.HStart, h.Attached)
}
