// Package system provides the critical section that structural sprite
// operations run in, so background work never observes a half-patched
// copper list or channel table.
package system

import (
	"sync"

	"github.com/youenchene/ACE/pkg/log"
)

// System tracks the "background preemption suspended" state. Use and
// Unuse are called by the owning goroutine only and nest by depth; the
// outermost Use holds the lock Background waits on.
type System struct {
	mu    sync.Mutex
	depth int

	log log.Logger
}

// New returns a System logging unbalanced calls to logger. A nil logger
// discards them.
func New(logger log.Logger) *System {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	return &System{log: logger}
}

// Use enters the critical section.
func (s *System) Use() {
	if s.depth == 0 {
		s.mu.Lock()
	}
	s.depth++
}

// Unuse leaves the critical section entered by the matching Use.
func (s *System) Unuse() {
	if s.depth == 0 {
		s.log.Errorf("system: unuse without matching use")
		return
	}
	s.depth--
	if s.depth == 0 {
		s.mu.Unlock()
	}
}

// Depth returns how many Use calls are currently open.
func (s *System) Depth() int {
	return s.depth
}

// Background runs fn outside of any critical section, waiting for the
// owner to leave it first.
func (s *System) Background(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}
