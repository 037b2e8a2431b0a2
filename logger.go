package bfault

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogUnhandledFault(v any)
	LogEmitError(err error)
	LogNegotiationPanic(v any)
	LogImplicitFlushError(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledFault(v any) {
	l.Logger.Printf("bfault: unhandled fault: %v", v)
}

func (l stdLogger) LogEmitError(err error) {
	l.Logger.Printf("bfault: error while emitting response: %s", err)
}

func (l stdLogger) LogNegotiationPanic(v any) {
	l.Logger.Printf("bfault: panic during negotiation, falling back to plain text: %v", v)
}

func (l stdLogger) LogImplicitFlushError(err error) {
	l.Logger.Printf("bfault: error while flushing implicitly: %s", err)
}

// NewStdLogger wraps a standard library logger. A nil logger uses log.Default().
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

type TestLogger struct {
	tb testing.TB

	NumLogUnhandledFault     int64
	NumLogEmitError          int64
	NumLogNegotiationPanic   int64
	NumLogImplicitFlushError int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledFault(v any) {
	atomic.AddInt64(&l.NumLogUnhandledFault, 1)
	l.tb.Logf("bfault: unhandled fault: %v", v)
}

func (l *TestLogger) LogEmitError(err error) {
	atomic.AddInt64(&l.NumLogEmitError, 1)
	l.tb.Logf("bfault: error while emitting response: %s", err)
}

func (l *TestLogger) LogNegotiationPanic(v any) {
	atomic.AddInt64(&l.NumLogNegotiationPanic, 1)
	l.tb.Logf("bfault: panic during negotiation, falling back to plain text: %v", v)
}

func (l *TestLogger) LogImplicitFlushError(err error) {
	atomic.AddInt64(&l.NumLogImplicitFlushError, 1)
	l.tb.Logf("bfault: error while flushing implicitly: %s", err)
}

var _ Logger = &TestLogger{}
