package log

import (
	"fmt"
	"strings"
	"sync"
)

// Level identifies the severity of a recorded line.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
	LevelFatal
)

// Entry is a single line captured by a Recorder.
type Entry struct {
	Level   Level
	Message string
}

// Recorder is a Logger that keeps every line in memory. Fatal is
// recorded like any other line and does not exit, which makes the
// Recorder suitable for asserting on logged failures in tests.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(level Level, format string, args ...interface{}) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
	r.mu.Unlock()
}

func (r *Recorder) Infof(format string, args ...interface{}) {
	r.record(LevelInfo, format, args...)
}

func (r *Recorder) Errorf(format string, args ...interface{}) {
	r.record(LevelError, format, args...)
}

func (r *Recorder) Debugf(format string, args ...interface{}) {
	r.record(LevelDebug, format, args...)
}

func (r *Recorder) Fatal(str string) {
	r.record(LevelFatal, "%s", str)
}

// Entries returns a copy of the recorded lines.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Errors returns the number of lines recorded at LevelError or above.
func (r *Recorder) Errors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Level >= LevelError {
			n++
		}
	}
	return n
}

// Contains reports whether any recorded line contains substr.
func (r *Recorder) Contains(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// Reset discards every recorded line.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = r.entries[:0]
	r.mu.Unlock()
}
