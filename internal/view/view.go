// Package view holds the display context sprites are placed in: the
// display window origin and the copper list executed each frame.
package view

import (
	"github.com/youenchene/ACE/internal/copper"
	"github.com/youenchene/ACE/internal/types"
	"github.com/youenchene/ACE/pkg/log"
)

// View is a display window and its copper list.
type View struct {
	x, y    uint8
	mode    copper.Mode
	rawSize int
	cop     *copper.List
	frame   uint64

	log log.Logger
}

// Opt configures a View.
type Opt func(v *View)

// WithOrigin sets the DIWSTRT position of the display window.
func WithOrigin(x, y uint8) Opt {
	return func(v *View) {
		v.x, v.y = x, y
	}
}

// WithCopperMode selects the copper list mode. rawSize is the number of
// instructions per buffer and is only used in raw mode.
func WithCopperMode(mode copper.Mode, rawSize int) Opt {
	return func(v *View) {
		v.mode, v.rawSize = mode, rawSize
	}
}

// WithLogger sets the logger of the view and its copper list.
func WithLogger(l log.Logger) Opt {
	return func(v *View) {
		v.log = l
	}
}

// New creates a view with a standard PAL display window and a block mode
// copper list unless configured otherwise.
func New(opts ...Opt) *View {
	v := &View{
		x:   types.DefaultViewX,
		y:   types.DefaultViewY,
		log: log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.cop = copper.NewList(v.mode, v.rawSize, copper.WithLogger(v.log))
	return v
}

// X returns the horizontal origin of the display window.
func (v *View) X() uint8 { return v.x }

// Y returns the vertical origin of the display window.
func (v *View) Y() uint8 { return v.y }

// Copper returns the copper list of the view.
func (v *View) Copper() *copper.List { return v.cop }

// Frame returns the number of frames displayed so far.
func (v *View) Frame() uint64 { return v.frame }

// Process ends a frame: the copper back buffer is rebuilt if needed and
// becomes the displayed buffer.
func (v *View) Process() {
	v.cop.Process()
	v.cop.Swap()
	v.frame++
}
