package system

import (
	"testing"
	"time"

	"github.com/youenchene/ACE/pkg/log"
)

func TestNesting(t *testing.T) {
	rec := log.NewRecorder()
	s := New(rec)

	s.Use()
	s.Use()
	if s.Depth() != 2 {
		t.Errorf("got depth %d, want 2", s.Depth())
	}

	ran := make(chan struct{})
	go s.Background(func() { close(ran) })

	s.Unuse()
	select {
	case <-ran:
		t.Fatalf("background ran inside the critical section")
	case <-time.After(20 * time.Millisecond):
	}

	s.Unuse()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatalf("background did not run after the critical section ended")
	}

	s.Unuse()
	if rec.Errors() != 1 {
		t.Errorf("got %d errors, want 1 for unbalanced unuse", rec.Errors())
	}
}
