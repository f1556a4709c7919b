package log

import (
	"strings"
	"testing"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Infof("channel %d claimed", 3)
	r.Errorf("sprite channel %d is already used", 3)
	r.Debugf("ignored")

	if got := len(r.Entries()); got != 3 {
		t.Fatalf("got %d entries, want 3", got)
	}
	if got := r.Errors(); got != 1 {
		t.Errorf("got %d errors, want 1", got)
	}
	if !r.Contains("already used") {
		t.Errorf("expected recorder to contain logged error")
	}

	r.Reset()
	if got := len(r.Entries()); got != 0 {
		t.Errorf("got %d entries after reset, want 0", got)
	}
}

func TestNullLogger(t *testing.T) {
	l := NewNullLogger()
	l.Infof("%d", 1)
	l.Errorf("%d", 2)
	l.Debugf("%d", 3)
	l.Fatal("nothing happens")
}

func TestLoggerDebug(t *testing.T) {
	for _, test := range []struct {
		name  string
		debug bool
		want  string
	}{
		{"quiet", false, "[INFO]\tframe 1\n"},
		{"debug", true, "[INFO]\tframe 1\n[DEBUG]\tblock 2\n"},
	} {
		t.Run(test.name, func(t *testing.T) {
			var b strings.Builder
			l := New(WithWriter(&b), WithDebug(test.debug))
			l.Infof("frame %d", 1)
			l.Debugf("block %d", 2)
			if b.String() != test.want {
				t.Errorf("got %q, want %q", b.String(), test.want)
			}
		})
	}
}
