package sprite

import "errors"

// Failures are reported both through the registry's logger and as one of
// these values. None of them is fatal: constructors still return a usable
// value wherever the documentation says so, and the caller decides.
var (
	// ErrChannelRange is returned for a channel index outside of the
	// hardware channel table.
	ErrChannelRange = errors.New("sprite: channel index out of range")
	// ErrChannelInUse is returned when a multiplexer is added on a channel
	// already owned by another one. The new multiplexer is still returned
	// but its buffer is never published.
	ErrChannelInUse = errors.New("sprite: channel already used")
	// ErrDuplicateBlock is returned in debug mode when a channel already
	// has a copper block reserved.
	ErrDuplicateBlock = errors.New("sprite: channel already has a copper block")
	// ErrBitmapFormat is returned for bitmaps that are not interleaved or
	// have an unsupported number of bitplanes.
	ErrBitmapFormat = errors.New("sprite: unsupported bitmap format")
	// ErrBitmapDepth is returned for strips whose number of bitplanes
	// cannot be displayed on the requested channel.
	ErrBitmapDepth = errors.New("sprite: unsupported bitmap depth for channel")
	// ErrBitmapWidth is returned for bitmaps of an unsupported width.
	ErrBitmapWidth = errors.New("sprite: unsupported bitmap width")
	// ErrFrameRange is returned for an animation frame that does not exist.
	ErrFrameRange = errors.New("sprite: animation frame out of range")
	// ErrHeightRange is returned for heights that do not fit the 9-bit
	// vertical fields of a sprite header.
	ErrHeightRange = errors.New("sprite: height out of range")
	// ErrHeightOverflow is returned when a height change would make the
	// elements outgrow the channel's composed bitmap.
	ErrHeightOverflow = errors.New("sprite: elements do not fit the channel bitmap")
	// ErrRemoved is returned when operating on a removed multiplexer.
	ErrRemoved = errors.New("sprite: multiplexer was removed")
)
