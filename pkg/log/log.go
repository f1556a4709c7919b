package log

import (
	"fmt"
	"io"
	"os"
)

type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Fatal(str string)
}

type logger struct {
	out   io.Writer
	debug bool
}

// Opt configures the logger returned by New.
type Opt func(l *logger)

// WithWriter sets where lines are written to. Stdout is used by default.
func WithWriter(w io.Writer) Opt {
	return func(l *logger) {
		l.out = w
	}
}

// WithDebug enables Debugf lines, which are dropped by default.
func WithDebug(enabled bool) Opt {
	return func(l *logger) {
		l.debug = enabled
	}
}

func New(opts ...Opt) Logger {
	l := &logger{out: os.Stdout}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *logger) Infof(format string, args ...interface{}) {
	fmt.Fprintf(l.out, "[INFO]\t"+format+"\n", args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(l.out, "[ERROR]\t"+format+"\n", args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	fmt.Fprintf(l.out, "[DEBUG]\t"+format+"\n", args...)
}

func (l *logger) Fatal(str string) {
	fmt.Fprintf(l.out, "[FATAL]\t%s\n", str)
	os.Exit(1)
}
