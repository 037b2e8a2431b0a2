package bfault

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Emitter writes a final response onto the transport.
type Emitter interface {
	Emit(resp Response) error
}

// EmitterFunc allows casting a function to implement [Emitter].
type EmitterFunc func(Response) error

// Emit implements [Emitter].
func (f EmitterFunc) Emit(resp Response) error { return f(resp) }

// WriterEmitter emits responses onto a http.ResponseWriter.
func WriterEmitter(w http.ResponseWriter) Emitter {
	return EmitterFunc(func(resp Response) error { return resp.WriteTo(w) })
}

// Outcome describes a fault that was turned into an emitted response.
type Outcome struct {
	Fault    Fault
	Response Response
}

// Observer is told about every fault that was handled by a [FaultRouter].
type Observer interface {
	ObserveFault(r *http.Request, o Outcome)
}

// ObserverFunc allows casting a function to implement [Observer].
type ObserverFunc func(*http.Request, Outcome)

// ObserveFault implements [Observer].
func (f ObserverFunc) ObserveFault(r *http.Request, o Outcome) { f(r, o) }

// FaultRouter turns caught faults into an emitted response. It captures the default request and
// response at construction and uses them as the base for every fault it handles. A router is
// scoped to one request and must not be shared between concurrent requests.
type FaultRouter struct {
	dispatcher Dispatcher
	req        *http.Request
	base       Response
	emit       Emitter
	logs       Logger
	observers  []Observer
}

// RouterOption configures the fault router.
type RouterOption func(*FaultRouter)

// WithRouterLogger sets the logger that is told about emission errors.
func WithRouterLogger(logs Logger) RouterOption {
	return func(fr *FaultRouter) { fr.logs = logs }
}

// WithObservers adds observers that are told about handled faults.
func WithObservers(obs ...Observer) RouterOption {
	return func(fr *FaultRouter) { fr.observers = append(fr.observers, obs...) }
}

// NewFaultRouter inits a fault router for a single request.
func NewFaultRouter(d Dispatcher, req *http.Request, base Response, emit Emitter, opts ...RouterOption) *FaultRouter {
	fr := &FaultRouter{
		dispatcher: d,
		req:        req,
		base:       base,
		emit:       emit,
		logs:       NewStdLogger(nil),
	}

	for _, opt := range opts {
		opt(fr)
	}

	return fr
}

// Handle classifies v (see [Classify]) and renders it with the dispatcher. If a response was
// rendered it is emitted and true is returned: the caller must stop processing the request.
// False means nothing was emitted and the caller decides what happens to v.
func (fr *FaultRouter) Handle(v any) bool {
	return fr.route(Classify(v))
}

// HandlePanic is like [FaultRouter.Handle] but treats any non-nil value as a fatal fault. It
// is meant for values returned by recover().
func (fr *FaultRouter) HandlePanic(v any) bool {
	return fr.route(Fatal(v))
}

func (fr *FaultRouter) route(f Fault) bool {
	resp, ok := fr.render(f)
	if !ok || !resp.Valid() {
		return false
	}

	fr.recordSpan(f, resp)
	fr.emitResponse(resp)

	out := Outcome{Fault: f, Response: resp}
	for _, obs := range fr.observers {
		fr.observe(obs, out)
	}

	return true
}

// emitResponse emits resp once. Errors and panics of the emitter are logged, the response is
// considered handed off either way.
func (fr *FaultRouter) emitResponse(resp Response) {
	defer func() {
		if v := recover(); v != nil {
			fr.logs.LogEmitError(errors.Newf("emitter panicked: %v", v))
		}
	}()

	if err := fr.emit.Emit(resp); err != nil {
		fr.logs.LogEmitError(err)
	}
}

func (fr *FaultRouter) observe(obs Observer, out Outcome) {
	defer func() {
		if v := recover(); v != nil {
			fr.logs.LogUnhandledFault(errors.Newf("observer %T panicked: %v", obs, v))
		}
	}()

	obs.ObserveFault(fr.req, out)
}

// render asks the dispatcher for a response. A dispatcher that panics renders nothing.
func (fr *FaultRouter) render(f Fault) (resp Response, ok bool) {
	defer func() {
		if v := recover(); v != nil {
			fr.logs.LogNegotiationPanic(v)
			resp, ok = Response{}, false
		}
	}()

	switch f.Kind() {
	case KindRecoverable:
		return fr.dispatcher.HandleException(fr.req, fr.base, f.Err()), true
	case KindFatal:
		return fr.dispatcher.HandleThrowable(fr.req, fr.base, f.Err()), true
	default:
		return Response{}, false
	}
}

func (fr *FaultRouter) recordSpan(f Fault, resp Response) {
	if fr.req == nil {
		return
	}

	span := trace.SpanFromContext(fr.req.Context())
	if !span.IsRecording() {
		return
	}

	span.RecordError(f.Err(), trace.WithAttributes(
		attribute.String("bfault.kind", f.Kind().String()),
		attribute.Int("bfault.status", resp.StatusCode()),
		attribute.String("bfault.media_type", resp.header.Get("Content-Type")),
	))
	span.SetStatus(codes.Error, f.Kind().String()+" fault")
}
