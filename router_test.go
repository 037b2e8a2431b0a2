package bfault_test

import (
	"net/http"
	"testing"

	"github.com/advdv/bfault"
	"github.com/advdv/bfault/bfaulttest"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRouter(t *testing.T, d bfault.Dispatcher, req *http.Request, opts ...bfault.RouterOption) (
	*bfault.FaultRouter, *bfaulttest.Emitter, *bfault.TestLogger,
) {
	t.Helper()

	emit, logs := &bfaulttest.Emitter{}, bfault.NewTestLogger(t)
	opts = append([]bfault.RouterOption{bfault.WithRouterLogger(logs)}, opts...)

	return bfault.NewFaultRouter(d, req, bfault.ResponseFor(req), emit, opts...), emit, logs
}

func TestRouterHandlesRecoverable(t *testing.T) {
	fr, emit, _ := newRouter(t, bfault.NewNegotiator(nil), bfaulttest.NewRequest("/", "text/plain"))

	require.True(t, fr.Handle(errors.New("foo")))
	require.Len(t, emit.Responses(), 1)

	resp := emit.Responses()[0]
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
	assert.Equal(t, "Application Error", string(resp.BodyBytes()))
}

func TestRouterHandlesFatal(t *testing.T) {
	n := bfault.NewNegotiator(bfault.NewRegistry(
		bfault.Register("application/json", bfault.NewJSON(bfault.WithErrorDetails())),
	))
	fr, emit, _ := newRouter(t, n, bfaulttest.NewRequest("/", ""))

	require.True(t, fr.HandlePanic("boom"))
	require.Len(t, emit.Responses(), 1)
	assert.Contains(t, string(emit.Responses()[0].BodyBytes()), `"message":"panic: boom"`)
}

func TestRouterIgnoresUnclassified(t *testing.T) {
	for name, d := range map[string]bfault.Dispatcher{
		"default registry": bfault.NewNegotiator(nil),
		"empty registry":   bfault.NewNegotiator(bfault.NewRegistry()),
		"single entry": bfault.NewNegotiator(bfault.NewRegistry(
			bfault.Register("application/json", bfault.NewJSON()),
		)),
		"static":           bfault.Static(bfault.NewProblem("")),
		"zero negotiator":  &bfault.Negotiator{},
		"panicking static": bfault.Static(bfaulttest.PanicHandler{Type: "x/y"}),
	} {
		t.Run(name, func(t *testing.T) {
			var observed int
			fr, emit, _ := newRouter(t, d, bfaulttest.NewRequest("/", "application/json"),
				bfault.WithObservers(bfault.ObserverFunc(func(*http.Request, bfault.Outcome) { observed++ })))

			for _, v := range []any{nil, "foo", 42, struct{}{}} {
				require.False(t, fr.Handle(v))
			}

			require.False(t, fr.HandlePanic(nil))
			require.Empty(t, emit.Responses())
			require.Zero(t, observed)
		})
	}
}

func TestRouterInvalidResponse(t *testing.T) {
	var observed int
	fr, emit, _ := newRouter(t, bfaulttest.InvalidDispatcher{}, bfaulttest.NewRequest("/", ""),
		bfault.WithObservers(bfault.ObserverFunc(func(*http.Request, bfault.Outcome) { observed++ })))

	require.False(t, fr.Handle(errors.New("foo")))
	require.Empty(t, emit.Responses())
	require.Zero(t, observed)
}

func TestRouterPanickingDispatcher(t *testing.T) {
	fr, emit, logs := newRouter(t, bfault.Static(bfaulttest.PanicHandler{Type: "x/y"}), bfaulttest.NewRequest("/", ""))

	require.False(t, fr.Handle(errors.New("foo")))
	require.Empty(t, emit.Responses())
	require.Equal(t, int64(1), logs.NumLogNegotiationPanic)
}

func TestRouterEmitErrorStillHandled(t *testing.T) {
	fr, emit, logs := newRouter(t, bfault.NewNegotiator(nil), bfaulttest.NewRequest("/", ""))
	emit.Err = errors.New("connection reset")

	require.True(t, fr.Handle(errors.New("foo")))
	require.Equal(t, int64(1), logs.NumLogEmitError)
}

func TestRouterPanickingEmitter(t *testing.T) {
	var observed int
	req := bfaulttest.NewRequest("/", "")
	logs := bfault.NewTestLogger(t)
	fr := bfault.NewFaultRouter(bfault.NewNegotiator(nil), req, bfault.ResponseFor(req),
		bfault.EmitterFunc(func(bfault.Response) error { panic("connection gone") }),
		bfault.WithRouterLogger(logs),
		bfault.WithObservers(bfault.ObserverFunc(func(*http.Request, bfault.Outcome) { observed++ })))

	require.NotPanics(t, func() {
		require.True(t, fr.Handle(errors.New("foo")))
	})
	require.Equal(t, int64(1), logs.NumLogEmitError)
	require.Equal(t, 1, observed, "observers still see the outcome")
}

func TestRouterPanickingObserver(t *testing.T) {
	var observed int
	fr, emit, logs := newRouter(t, bfault.NewNegotiator(nil), bfaulttest.NewRequest("/", ""),
		bfault.WithObservers(
			bfault.ObserverFunc(func(*http.Request, bfault.Outcome) { panic("obs") }),
			bfault.ObserverFunc(func(*http.Request, bfault.Outcome) { observed++ }),
		))

	require.NotPanics(t, func() {
		require.True(t, fr.Handle(errors.New("foo")))
	})
	require.Len(t, emit.Responses(), 1)
	require.Equal(t, 1, observed, "later observers still run")
	require.Equal(t, int64(1), logs.NumLogUnhandledFault)
}

func TestRouterObservers(t *testing.T) {
	var outcomes []bfault.Outcome
	obs := bfault.ObserverFunc(func(_ *http.Request, o bfault.Outcome) { outcomes = append(outcomes, o) })

	fr, _, _ := newRouter(t, bfault.NewNegotiator(nil), bfaulttest.NewRequest("/", "text/html"),
		bfault.WithObservers(obs, obs))

	require.True(t, fr.Handle(errors.New("foo")))
	require.Len(t, outcomes, 2)
	assert.Equal(t, bfault.KindRecoverable, outcomes[0].Fault.Kind())
	assert.Equal(t, []string{"text/html"}, outcomes[0].Response.HeaderValues("Content-Type"))
}

func TestRouterRecordsSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	ctx, span := tp.Tracer("test").Start(t.Context(), "request")
	req := bfaulttest.NewRequest("/", "application/json").WithContext(ctx)

	fr, _, _ := newRouter(t, bfault.NewNegotiator(nil), req)
	require.True(t, fr.Handle(errors.New("foo")))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)

	require.Len(t, ended[0].Events(), 1)
	ev := ended[0].Events()[0]
	assert.Equal(t, "exception", ev.Name)
	assert.Contains(t, ev.Attributes, attribute.String("bfault.kind", "recoverable"))
	assert.Contains(t, ev.Attributes, attribute.Int("bfault.status", http.StatusInternalServerError))
	assert.Contains(t, ev.Attributes, attribute.String("bfault.media_type", "application/json"))
}

func TestWriterEmitter(t *testing.T) {
	rec := &statusRecorder{header: http.Header{}}
	resp := bfault.NewResponse().WithStatus(http.StatusNotFound, "").WithBodyString("x")

	require.NoError(t, bfault.WriterEmitter(rec).Emit(resp))
	require.Equal(t, http.StatusNotFound, rec.status)
}

type statusRecorder struct {
	header http.Header
	status int
}

func (r *statusRecorder) Header() http.Header { return r.header }

func (r *statusRecorder) WriteHeader(code int) { r.status = code }

func (r *statusRecorder) Write(b []byte) (int, error) { return len(b), nil }
