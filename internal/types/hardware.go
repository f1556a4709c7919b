package types

const (
	// SpriteChannelCount is the number of hardware sprite DMA channels.
	SpriteChannelCount = 8
	// SpriteWidth is the width in pixels of one hardware sprite.
	SpriteWidth = 16
	// SpriteByteWidth is the width in bytes of one sprite bitplane row.
	SpriteByteWidth = SpriteWidth / 8
	// SpriteDepth is the number of bitplanes fetched by one sprite channel.
	SpriteDepth = 2
	// SpriteMaxHeight is the largest height encodable in the 9-bit
	// vertical start/stop fields.
	SpriteMaxHeight = 511
	// SpriteColorBase is the first palette entry used by sprites.
	SpriteColorBase = 16

	// DefaultViewX and DefaultViewY are the DIWSTRT coordinates of a
	// standard PAL low-resolution display window (0x2C81).
	DefaultViewX = 0x81
	DefaultViewY = 0x2C
)
