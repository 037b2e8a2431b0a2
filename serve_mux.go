package bfault

import (
	"log"
	"net/http"
	"strings"

	"github.com/samber/lo"
)

// ServeMux is an HTTP multiplexer with buffered responses whose failures, unknown routes and
// disallowed methods are answered with a negotiated error response.
type ServeMux struct {
	logs        Logger
	bufLimit    int
	dispatcher  Dispatcher
	observers   []Observer
	mux         *http.ServeMux
	middlewares struct {
		captured bool
		buffered []Middleware
	}
}

// NewServeMux creates a new ServeMux with default settings.
func NewServeMux() *ServeMux {
	logs := NewStdLogger(log.Default())
	return NewServeMuxWith(-1, logs, http.NewServeMux(), NewNegotiator(nil, WithLogger(logs)))
}

// NewServeMuxWith creates a ServeMux with custom settings.
func NewServeMuxWith(bufLimit int, logger Logger, baseMux *http.ServeMux, d Dispatcher, obs ...Observer) *ServeMux {
	return &ServeMux{
		bufLimit:   bufLimit,
		logs:       logger,
		dispatcher: d,
		observers:  obs,
		mux:        baseMux,
	}
}

// Use allows providing of middleware.
func (m *ServeMux) Use(mw ...Middleware) {
	m.ensureNoUseAfterHandle()
	m.middlewares.buffered = append(m.middlewares.buffered, mw...)
}

// HandleFunc handles the request given the pattern using a function.
func (m *ServeMux) HandleFunc(pattern string, handler HandlerFunc) {
	m.Handle(pattern, handler)
}

// HandleStd registers a standard library [http.Handler] for the given pattern. Middleware
// registered via [ServeMux.Use] is applied. The handler owns its own error responses.
func (m *ServeMux) HandleStd(pattern string, handler http.Handler) {
	m.Handle(pattern, HandlerFunc(func(w ResponseWriter, r *http.Request) error {
		handler.ServeHTTP(w, r)
		return nil
	}))
}

// Handle handles the request given a handler.
func (m *ServeMux) Handle(pattern string, handler Handler) {
	m.middlewares.captured = true
	m.mux.Handle(pattern, ToStd(
		Wrap(handler, m.middlewares.buffered...),
		m.dispatcher,
		m.bufLimit,
		m.logs,
		m.observers...,
	))
}

// ServeHTTP makes the server mux implement the http.Handler interface. Requests that match no
// pattern are answered with a negotiated 404, or a 405 when the path exists for other methods.
func (m *ServeMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h, pattern := m.mux.Handler(r)
	if pattern != "" {
		m.mux.ServeHTTP(w, r)
		return
	}

	probe := &statusProbe{header: http.Header{}}
	h.ServeHTTP(probe, r)

	var resp Response
	switch {
	case probe.status >= 300 && probe.status < 400:
		h.ServeHTTP(w, r) // path cleaning and trailing slash redirects
		return
	case probe.status == http.StatusMethodNotAllowed:
		allowed := splitAllow(probe.header.Values("Allow"))
		base := ResponseFor(r).WithHeader("Allow", strings.Join(allowed, ", "))
		resp = m.dispatcher.HandleNotAllowed(r, base, allowed)
	default:
		resp = m.dispatcher.HandleNotFound(r, ResponseFor(r))
	}

	if err := resp.WriteTo(w); err != nil {
		m.logs.LogEmitError(err)
	}
}

func (m *ServeMux) ensureNoUseAfterHandle() {
	if m.middlewares.captured {
		panic("bfault: cannot call Use() after calling Handle")
	}
}

// statusProbe captures what the standard mux would answer for an unmatched request.
type statusProbe struct {
	header http.Header
	status int
}

func (p *statusProbe) Header() http.Header { return p.header }

func (p *statusProbe) WriteHeader(code int) {
	if p.status == 0 {
		p.status = code
	}
}

func (p *statusProbe) Write(b []byte) (int, error) {
	p.WriteHeader(http.StatusOK)
	return len(b), nil
}

func splitAllow(vals []string) []string {
	var methods []string
	for _, v := range vals {
		methods = append(methods, strings.Split(v, ",")...)
	}

	return lo.Compact(lo.Map(methods, func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}
