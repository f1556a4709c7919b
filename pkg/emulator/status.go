package emulator

// Status represents the status of a Player. It can be one of the
// following:
//
//   - Running
//   - Paused
//   - Stopped
type Status int32

const (
	// Running represents the status of the player while frames are
	// being stepped.
	Running Status = iota
	// Paused represents the status of the player when stepping has
	// been suspended by its controller.
	Paused
	// Stopped represents the status of the player once Run has
	// returned.
	Stopped
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

func (s Status) IsRunning() bool {
	return s == Running
}

func (s Status) IsPaused() bool {
	return s == Paused
}

func (s Status) IsStopped() bool {
	return s == Stopped
}
