package medrec

import "log"

var (
	_ Logger = (*nopLogger)(nil)
	_ Logger = (*stdLogger)(nil)
)

// Logger is the minimal logging surface the registry needs. Implementations
// must be safe to call from multiple goroutines.
type Logger interface {
	Log(format string, args ...interface{})
}

// NopLogger returns a Logger that drops everything.
func NopLogger() Logger { return &nopLogger{} }

type nopLogger struct{}

func (n *nopLogger) Log(format string, args ...interface{}) {}

type stdLogger struct{}

func (s *stdLogger) Log(format string, args ...interface{}) {
	if len(format) == 0 || format[len(format)-1] != '\n' {
		format += "\n"
	}
	log.Printf("MEDREC: "+format, args...)
}
