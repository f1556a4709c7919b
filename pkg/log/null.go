package log

// Discard is a Logger that drops every line. Fatal does not exit.
var Discard Logger = nullLogger{}

type nullLogger struct{}

func (nullLogger) Fatal(string)                  {}
func (nullLogger) Infof(string, ...interface{})  {}
func (nullLogger) Errorf(string, ...interface{}) {}
func (nullLogger) Debugf(string, ...interface{}) {}

// NewNullLogger returns Discard. Components default to it when no
// logger is configured.
func NewNullLogger() Logger {
	return Discard
}
