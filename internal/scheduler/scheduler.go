package scheduler

import (
	"fmt"
	"strings"
)

// Scheduler is a simple event scheduler that can be used to schedule events
// to be executed at a specific frame.
//
// The scheduler is a linked list of events, sorted by the frame at which
// they should be executed. When an event is scheduled, it is inserted into
// the list in the correct position, and when the scheduler is ticked, every
// event due is removed from the list and executed.
type Scheduler struct {
	frames uint64
	root   *Event

	eventHandlers [eventTypes]func()
	events        [eventTypes]Event // only one event of each type can be scheduled at a time
}

func NewScheduler() *Scheduler {
	s := &Scheduler{}
	for i := range s.events {
		s.events[i].eventType = EventType(i)
	}
	return s
}

// Frame returns the number of frames ticked so far.
func (s *Scheduler) Frame() uint64 {
	return s.frames
}

// RegisterEvent registers the function called when an event of eventType
// is due.
func (s *Scheduler) RegisterEvent(eventType EventType, fn func()) {
	s.eventHandlers[eventType] = fn
}

// Tick advances the scheduler by the given number of frames, executing
// every event due in order. Handlers may schedule events again, including
// their own.
func (s *Scheduler) Tick(frames uint64) {
	s.frames += frames

	for s.root != nil && s.root.frame <= s.frames {
		event := s.root
		s.root = event.next
		event.Reset()

		if fn := s.eventHandlers[event.eventType]; fn != nil {
			fn()
		}
	}
}

// ScheduleEvent schedules an event to be executed in the given number of
// frames. An event of the same type already scheduled is moved.
func (s *Scheduler) ScheduleEvent(eventType EventType, frames uint64) {
	s.DescheduleEvent(eventType)

	this := &s.events[eventType]
	this.frame = s.frames + frames
	this.scheduled = true

	// events due at the same frame run in the order they were scheduled
	if s.root == nil || this.frame < s.root.frame {
		this.next = s.root
		s.root = this
		return
	}
	prev := s.root
	for prev.next != nil && prev.next.frame <= this.frame {
		prev = prev.next
	}
	this.next = prev.next
	prev.next = this
}

// DescheduleEvent removes the pending event of eventType, if any.
func (s *Scheduler) DescheduleEvent(eventType EventType) {
	if !s.events[eventType].scheduled {
		return
	}

	var prev *Event
	for event := s.root; event != nil; prev, event = event, event.next {
		if event.eventType != eventType {
			continue
		}
		if prev == nil {
			s.root = event.next
		} else {
			prev.next = event.next
		}
		event.Reset()
		return
	}
}

// Scheduled reports whether an event of eventType is pending.
func (s *Scheduler) Scheduled(eventType EventType) bool {
	return s.events[eventType].scheduled
}

// Until returns the number of frames before the next event is due.
func (s *Scheduler) Until() (uint64, bool) {
	if s.root == nil {
		return 0, false
	}
	if s.root.frame <= s.frames {
		return 0, true
	}
	return s.root.frame - s.frames, true
}

func (s *Scheduler) String() string {
	var b strings.Builder
	for event := s.root; event != nil; event = event.next {
		fmt.Fprintf(&b, "%d:%d->", event.eventType, event.frame)
	}
	return b.String()
}
