package bfault

import (
	"net/http"
	"strings"
)

// ResponseWriter implements the http.ResponseWriter but the underlying bytes are buffered. This allows
// a failing handler's partial output to be replaced by a negotiated error response.
type ResponseWriter interface {
	http.ResponseWriter
	Reset()
	Free()
	FlushBuffer() error
}

// Handler mirrors http.Handler but it writes to a buffered response and may return an error.
type Handler interface {
	ServeBFault(w ResponseWriter, r *http.Request) error
}

// HandlerFunc allow casting a function to implement [Handler].
type HandlerFunc func(ResponseWriter, *http.Request) error

// ServeBFault implements the [Handler] interface.
func (f HandlerFunc) ServeBFault(w ResponseWriter, r *http.Request) error {
	return f(w, r)
}

// ToStd converts a handler into a standard library http.Handler. The response is buffered and
// flushed after serving. A returned error is a recoverable fault, a panic is a fatal fault. Both
// replace the buffered response with one rendered by dispatcher 'd'. Values that can't be routed
// still produce a plain 500 so the client never ends up with a white screen.
func ToStd(h Handler, d Dispatcher, bufLimit int, logs Logger, obs ...Observer) http.Handler {
	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		bresp := NewResponseBuffer(resp, bufLimit)
		defer bresp.Free()

		if v := serve(h, bresp, req); v != nil {
			if bresp.Committed() {
				logs.LogUnhandledFault(v)
				return
			}

			bresp.Reset()
			bresp.limit = -1 // error responses ignore the buffer limit

			fr := NewFaultRouter(d, req, ResponseFor(req), WriterEmitter(bresp),
				WithRouterLogger(logs),
				WithObservers(obs...))

			if !fr.Handle(v) {
				logs.LogUnhandledFault(v)
				bresp.Reset()
				http.Error(bresp,
					http.StatusText(http.StatusInternalServerError),
					http.StatusInternalServerError)
			}
		}

		if err := bresp.FlushBuffer(); err != nil {
			logs.LogImplicitFlushError(err)
		}
	})
}

// serve calls h and turns a returned error or a panic into the value to route.
func serve(h Handler, w ResponseWriter, r *http.Request) (v any) {
	defer func() {
		if rv := recover(); rv != nil {
			if rv == http.ErrAbortHandler { //nolint:errorlint
				panic(rv)
			}

			v = Fatal(rv)
		}
	}()

	if err := h.ServeBFault(w, r); err != nil {
		return err
	}

	return nil
}

// NotFoundHandler renders a negotiated 404 response, for routers that accept a custom
// not-found handler.
func NotFoundHandler(d Dispatcher, logs Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := d.HandleNotFound(r, ResponseFor(r)).WriteTo(w); err != nil {
			logs.LogEmitError(err)
		}
	})
}

// NotAllowedHandler renders a negotiated 405 response listing 'allowed', which is also sent
// in the Allow header.
func NotAllowedHandler(d Dispatcher, logs Logger, allowed ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base := ResponseFor(r).WithHeader("Allow", strings.Join(allowed, ", "))
		if err := d.HandleNotAllowed(r, base, allowed).WriteTo(w); err != nil {
			logs.LogEmitError(err)
		}
	})
}
