package bfault

import (
	"runtime"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidResponse is returned when emitting a response without a usable status code.
	ErrInvalidResponse = errors.New("bfault: invalid response")

	// ErrUnknownMediaType is returned when a media type has no builtin content handler.
	ErrUnknownMediaType = errors.New("bfault: unknown media type")
)

// Kind discriminates the variants of a [Fault].
type Kind int

const (
	// KindUnclassified faults are never rendered.
	KindUnclassified Kind = iota
	// KindRecoverable faults are expected application errors, e.g. returned by a handler.
	KindRecoverable
	// KindFatal faults are unexpected failures of the execution environment, e.g. a panic.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindRecoverable:
		return "recoverable"
	case KindFatal:
		return "fatal"
	default:
		return "unclassified"
	}
}

// Fault is a caught failure together with how it was produced.
type Fault struct {
	kind Kind
	err  error
}

// Recoverable marks err as an expected application fault. A nil err is unclassified.
func Recoverable(err error) Fault {
	if err == nil {
		return Fault{}
	}

	return Fault{kind: KindRecoverable, err: err}
}

// Fatal marks a value recovered from a panic as a fatal fault. Values that are not errors are
// turned into one, with the stack of the caller attached. A nil value is unclassified.
func Fatal(v any) Fault {
	switch vt := v.(type) {
	case nil:
		return Fault{}
	case Fault:
		if vt.kind == KindUnclassified {
			return vt
		}

		return Fault{kind: KindFatal, err: vt.err}
	case error:
		return Fault{kind: KindFatal, err: errors.WithStackDepth(vt, 1)}
	default:
		return Fault{kind: KindFatal, err: errors.NewWithDepthf(1, "panic: %v", vt)}
	}
}

// Classify turns an arbitrary caught value into a fault. Faults are returned as is, runtime
// errors are fatal, any other error is recoverable and everything else is unclassified. A
// runtime error that was wrapped by application code is recoverable.
func Classify(v any) Fault {
	switch vt := v.(type) {
	case Fault:
		return vt
	case runtime.Error:
		return Fault{kind: KindFatal, err: vt}
	case error:
		return Recoverable(vt)
	default:
		return Fault{}
	}
}

// Kind returns the variant of the fault.
func (f Fault) Kind() Kind { return f.kind }

// Err returns the underlying error, nil for unclassified faults.
func (f Fault) Err() error { return f.err }

// Error implements the error interface.
func (f Fault) Error() string {
	if f.err == nil {
		return "bfault: " + f.kind.String() + " fault"
	}

	return f.kind.String() + ": " + f.err.Error()
}

// Unwrap allows errors.Is and errors.As to reach the underlying error.
func (f Fault) Unwrap() error { return f.err }
