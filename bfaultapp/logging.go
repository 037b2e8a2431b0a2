package bfaultapp

import (
	"net/http"

	"github.com/advdv/bfault"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// Uses JSON encoding, BF_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledFault(v any) {
	l.Logger.Error("unhandled fault", zap.Any("fault", v))
}

func (l zapLogger) LogEmitError(err error) {
	l.Logger.Error("error while emitting response", zap.Error(err))
}

func (l zapLogger) LogNegotiationPanic(v any) {
	l.Logger.Error("panic during negotiation, falling back to plain text", zap.Any("panic", v))
}

func (l zapLogger) LogImplicitFlushError(err error) {
	l.Logger.Error("error while flushing implicitly", zap.Error(err))
}

// NewBFaultLogger adapts a zap logger to the bfault.Logger interface.
func NewBFaultLogger(l *zap.Logger) bfault.Logger {
	return zapLogger{l.Named("bfault")}
}

// LogObserver logs every handled fault. Fatal faults are logged at error level, recoverable
// faults at warn level.
type LogObserver struct{ logs *zap.Logger }

// NewLogObserver inits the log observer.
func NewLogObserver(l *zap.Logger) *LogObserver {
	return &LogObserver{logs: l.Named("faults")}
}

// ObserveFault implements bfault.Observer.
func (o *LogObserver) ObserveFault(r *http.Request, out bfault.Outcome) {
	level := zapcore.WarnLevel
	if out.Fault.Kind() == bfault.KindFatal {
		level = zapcore.ErrorLevel
	}

	fields := []zap.Field{
		zap.Stringer("kind", out.Fault.Kind()),
		zap.Int("status", out.Response.StatusCode()),
		zap.Strings("content_type", out.Response.HeaderValues("Content-Type")),
		zap.Error(out.Fault.Err()),
	}

	if r != nil {
		fields = append(fields, zap.String("method", r.Method), zap.String("path", r.URL.Path))
	}

	o.logs.Log(level, "fault handled", fields...)
}

var _ bfault.Observer = &LogObserver{}
