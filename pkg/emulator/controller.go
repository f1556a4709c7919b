package emulator

// Controller defines the interface contract for a sprite player to
// implement in order for a preview server to be able to control
// it.
type Controller interface {
	Pause()
	Resume()
	Paused() bool
	Frame() uint64
}
