package scheduler

// EventType identifies the handler of an event. Only one event of each
// type can be scheduled at a time.
type EventType int

const (
	// AnimationAdvance steps the animation frame of the sprites.
	AnimationAdvance EventType = iota
	// SpriteMove moves the sprites along their path.
	SpriteMove
	// PreviewCapture renders the displayed frame for the previews.
	PreviewCapture

	eventTypes
)

// Event is a pending call of the handler of eventType.
type Event struct {
	frame     uint64
	eventType EventType
	scheduled bool
	next      *Event
}

func (e *Event) Reset() {
	e.frame = 0
	e.scheduled = false
	e.next = nil
}
