// Package copper models the display command list: a sequence of register
// writes executed in lockstep with the beam, double buffered so the list
// being edited is never the one being executed.
//
// Two modes are supported. In block mode the list is assembled from
// independently patchable blocks, each starting at a beam position. In raw
// mode the list is a flat array the owner patches by index, and a patch
// must be applied once per buffer before both halves agree.
package copper

import (
	"errors"
	"sort"

	"github.com/youenchene/ACE/pkg/log"
)

// Mode selects how a List is built.
type Mode uint8

const (
	// ModeBlock builds the list from Blocks on every Process call that
	// follows a change.
	ModeBlock Mode = iota
	// ModeRaw leaves the list to its owner, who patches commands by index.
	ModeRaw
)

func (m Mode) String() string {
	if m == ModeRaw {
		return "raw"
	}
	return "block"
}

// ErrBlockFull is returned when a MOVE is added to a block that has no
// room left.
var ErrBlockFull = errors.New("copper: block is full")

// Buffer is one half of a double buffered list.
type Buffer struct {
	cmds []Cmd
}

// Cmds returns the instructions of the buffer.
func (b *Buffer) Cmds() []Cmd {
	return b.cmds
}

// Len returns the number of instructions in the buffer.
func (b *Buffer) Len() int {
	return len(b.cmds)
}

// At returns the instruction at index i.
func (b *Buffer) At(i int) Cmd {
	return b.cmds[i]
}

// Set replaces the instruction at index i.
func (b *Buffer) Set(i int, c Cmd) {
	b.cmds[i] = c
}

// SetMoveValue changes the value of the MOVE at index i.
func (b *Buffer) SetMoveValue(i int, v uint16) {
	b.cmds[i].SetValue(v)
}

// Block is a run of MOVEs starting at a beam position.
type Block struct {
	waitX, waitY uint8
	cmds         []Cmd
	max          int
}

// Len returns the number of MOVEs currently in the block.
func (b *Block) Len() int {
	return len(b.cmds)
}

// Cmds returns the MOVEs currently in the block.
func (b *Block) Cmds() []Cmd {
	return b.cmds
}

// Reset empties the block so it can be refilled.
func (b *Block) Reset() {
	b.cmds = b.cmds[:0]
}

// List is a double buffered copper list.
type List struct {
	mode        Mode
	front, back *Buffer
	blocks      []*Block
	regen       uint8 // buffers still to be rebuilt after a block change

	log log.Logger
}

// Opt configures a List.
type Opt func(l *List)

// WithLogger sets the logger used by the list.
func WithLogger(logger log.Logger) Opt {
	return func(l *List) {
		l.log = logger
	}
}

// NewList creates a list in the given mode. rawSize is the number of
// instructions of each buffer in raw mode and is ignored in block mode.
func NewList(mode Mode, rawSize int, opts ...Opt) *List {
	l := &List{
		mode:  mode,
		front: &Buffer{},
		back:  &Buffer{},
		log:   log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if mode == ModeRaw {
		l.front.cmds = make([]Cmd, rawSize)
		l.back.cmds = make([]Cmd, rawSize)
		for i := range l.front.cmds {
			l.front.cmds[i] = End()
			l.back.cmds[i] = End()
		}
	}
	return l
}

// Mode returns the mode of the list.
func (l *List) Mode() Mode {
	return l.mode
}

// Front returns the buffer currently executed by the display.
func (l *List) Front() *Buffer {
	return l.front
}

// Back returns the buffer being prepared for the next frame.
func (l *List) Back() *Buffer {
	return l.back
}

// Swap exchanges the front and back buffers.
func (l *List) Swap() {
	l.front, l.back = l.back, l.front
}

// CreateBlock reserves a block of up to maxCmds MOVEs executed once the
// beam reaches x, y.
func (l *List) CreateBlock(maxCmds int, x, y uint8) *Block {
	b := &Block{waitX: x, waitY: y, max: maxCmds, cmds: make([]Cmd, 0, maxCmds)}
	l.blocks = append(l.blocks, b)
	l.requestRegen()
	return b
}

// DestroyBlock removes a block from the list.
func (l *List) DestroyBlock(b *Block) {
	for i, blk := range l.blocks {
		if blk == b {
			l.blocks = append(l.blocks[:i], l.blocks[i+1:]...)
			l.requestRegen()
			return
		}
	}
	l.log.Errorf("copper: block %p is not part of the list", b)
}

// Blocks returns the number of blocks in the list.
func (l *List) Blocks() int {
	return len(l.blocks)
}

// Move appends a MOVE of value into reg to the block.
func (l *List) Move(b *Block, reg uint16, value uint16) error {
	if len(b.cmds) >= b.max {
		l.log.Errorf("copper: block %p is full (%d cmds)", b, b.max)
		return ErrBlockFull
	}
	b.cmds = append(b.cmds, NewMove(reg, value))
	l.requestRegen()
	return nil
}

func (l *List) requestRegen() {
	l.regen = 2
}

// Process rebuilds the back buffer from the blocks while a block change is
// still missing from one of the buffers. It is a no-op in raw mode.
func (l *List) Process() {
	if l.mode != ModeBlock || l.regen == 0 {
		return
	}
	l.regen--

	blocks := append([]*Block(nil), l.blocks...)
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].waitY != blocks[j].waitY {
			return blocks[i].waitY < blocks[j].waitY
		}
		return blocks[i].waitX < blocks[j].waitX
	})

	cmds := l.back.cmds[:0]
	for _, b := range blocks {
		if len(b.cmds) == 0 {
			continue
		}
		cmds = append(cmds, NewWait(b.waitX, b.waitY))
		cmds = append(cmds, b.cmds...)
	}
	l.back.cmds = append(cmds, End())
}
