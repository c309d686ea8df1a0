// Package gwlog provides the small logging facade every gateway component
// takes as a constructor dependency. There is no process-global logger;
// callers inject one, matching the "silent vs dynamic mode is a constructor
// parameter" requirement.
package gwlog

import (
	"io"
	"log"
)

// Logger is the facade consumed by ClientManager, ProxyService and Router.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// New returns a Logger that writes timestamped lines to w.
func New(w io.Writer) Logger {
	return &stdLogger{l: log.New(w, "", log.LstdFlags)}
}

// Discard returns a Logger that drops every message, the "silent" mode.
func Discard() Logger {
	return noopLogger{}
}

type stdLogger struct {
	l *log.Logger
}

func (s *stdLogger) Debugf(format string, args ...interface{}) { s.l.Printf("DEBUG "+format, args...) }
func (s *stdLogger) Infof(format string, args ...interface{})  { s.l.Printf("INFO "+format, args...) }
func (s *stdLogger) Warnf(format string, args ...interface{})  { s.l.Printf("WARN "+format, args...) }
func (s *stdLogger) Errorf(format string, args ...interface{}) { s.l.Printf("ERROR "+format, args...) }

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Warnf(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}
