package web

// Setting identifies a server setting changed by a client with a
// [Settings, setting, value] message.
type Setting = uint8

const (
	_ Setting = iota
	Compression
	CompressionLevel
	FramePatching
	FrameSkipping
	ClientStatus
	FramePatchingRatio
	RegisterUsername
)

// Client to server message types.
const (
	// Pause and Resume are single byte messages controlling the animation.
	Pause  = 0
	Resume = 1

	Settings  = 10
	KeepAlive = 254
	Closing   = 255
)

// Type is the first byte of a server to client message.
type Type = uint8

const (
	Frame Type = iota
	FramePatch
	FrameSkip
	ClientInfo
	PatchCache
	FrameCache
	FrameCacheSync
	FrameSync
	FrameSize
	ClientClosing
	ServerInfo
	PlayerInfo
)
