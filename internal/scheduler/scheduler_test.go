package scheduler

import (
	"reflect"
	"testing"
)

func TestScheduler(t *testing.T) {
	s := NewScheduler()
	var got []EventType
	for _, e := range []EventType{AnimationAdvance, SpriteMove, PreviewCapture} {
		e := e
		s.RegisterEvent(e, func() { got = append(got, e) })
	}

	s.ScheduleEvent(PreviewCapture, 3)
	s.ScheduleEvent(AnimationAdvance, 1)
	s.ScheduleEvent(SpriteMove, 3)

	s.Tick(1)
	if want := []EventType{AnimationAdvance}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if n, ok := s.Until(); !ok || n != 2 {
		t.Errorf("got %d frames, want 2", n)
	}

	s.Tick(5)
	if want := []EventType{AnimationAdvance, PreviewCapture, SpriteMove}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, ok := s.Until(); ok {
		t.Errorf("expected no event left, got %s", s)
	}
}

func TestReschedule(t *testing.T) {
	s := NewScheduler()
	count := 0
	s.RegisterEvent(AnimationAdvance, func() {
		count++
		s.ScheduleEvent(AnimationAdvance, 4)
	})
	s.ScheduleEvent(AnimationAdvance, 4)

	for i := 0; i < 20; i++ {
		s.Tick(1)
	}
	if count != 5 {
		t.Errorf("got %d calls, want 5", count)
	}

	s.ScheduleEvent(AnimationAdvance, 100)
	s.ScheduleEvent(AnimationAdvance, 1)
	if s.String() != "0:21->" {
		t.Errorf("got %s, want a single event at frame 21", s)
	}

	s.DescheduleEvent(AnimationAdvance)
	if s.Scheduled(AnimationAdvance) {
		t.Errorf("expected event to be descheduled")
	}
	s.Tick(10)
	if count != 5 {
		t.Errorf("got %d calls, want 5", count)
	}
	if s.Frame() != 30 {
		t.Errorf("got frame %d, want 30", s.Frame())
	}
}
