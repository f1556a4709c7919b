package copper

import "fmt"

// Cmd is a single copper instruction: two 16-bit words. A MOVE has an even
// first word holding the destination register; a WAIT has bit 0 of its
// first word set and holds the beam position to wait for.
type Cmd [2]uint16

const (
	waitBit      = 0x0001
	waitMaskFull = 0xFFFE
)

// NewMove returns a MOVE of value into the custom register reg.
func NewMove(reg uint16, value uint16) Cmd {
	return Cmd{reg &^ waitBit, value}
}

// NewWait returns a WAIT for beam position x (colour clocks, even), y.
func NewWait(x, y uint8) Cmd {
	return Cmd{uint16(y)<<8 | uint16(x&^1) | waitBit, waitMaskFull}
}

// End returns the conventional end-of-list instruction, a WAIT for a beam
// position that is never reached.
func End() Cmd {
	return Cmd{0xFFFF, 0xFFFE}
}

// IsMove reports whether c is a MOVE.
func (c Cmd) IsMove() bool {
	return c[0]&waitBit == 0
}

// Reg returns the destination register of a MOVE.
func (c Cmd) Reg() uint16 {
	return c[0]
}

// Value returns the value written by a MOVE.
func (c Cmd) Value() uint16 {
	return c[1]
}

// SetValue changes the value written by a MOVE, keeping its register.
func (c *Cmd) SetValue(v uint16) {
	c[1] = v
}

// WaitPos returns the beam position a WAIT waits for.
func (c Cmd) WaitPos() (x, y uint8) {
	return uint8(c[0] & 0xFE), uint8(c[0] >> 8)
}

func (c Cmd) String() string {
	if c.IsMove() {
		return fmt.Sprintf("MOVE $%04X,$%03X", c[1], c[0])
	}
	x, y := c.WaitPos()
	return fmt.Sprintf("WAIT %d,%d", x, y)
}
