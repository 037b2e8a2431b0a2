package bfault

import (
	"net/http"
	"net/url"
	"strings"
)

// Mount mounts a Handler on a sub-path pattern. The mounted handler receives requests with the
// mount prefix stripped from the path. Its faults are rendered like those of any other route.
func (m *ServeMux) Mount(pattern string, handler Handler) {
	method, path := splitMethodPattern(pattern)

	wrapped := Wrap(stripPrefix(strings.TrimSuffix(path, "/"), handler), m.middlewares.buffered...)
	stdHandler := ToStd(wrapped, m.dispatcher, m.bufLimit, m.logs, m.observers...)

	m.middlewares.captured = true
	m.mux.Handle(method+path, stdHandler)
	if !strings.HasSuffix(path, "/") {
		m.mux.Handle(method+path+"/", stdHandler)
	}
}

// MountFunc mounts a HandlerFunc on a sub-path pattern, see [ServeMux.Mount].
func (m *ServeMux) MountFunc(pattern string, handler HandlerFunc) {
	m.Mount(pattern, handler)
}

// MountStd mounts a standard library [http.Handler] on a sub-path pattern. Middleware
// registered via [ServeMux.Use] is applied and sees the original path. The handler owns its
// own error responses, only panics are rendered as faults.
func (m *ServeMux) MountStd(pattern string, handler http.Handler) {
	m.Mount(pattern, HandlerFunc(func(w ResponseWriter, r *http.Request) error {
		handler.ServeHTTP(w, r)
		return nil
	}))
}

func splitMethodPattern(pattern string) (method, path string) {
	if idx := strings.LastIndex(pattern, "/"); idx > 0 {
		prefix := pattern[:idx]
		if spaceIdx := strings.Index(prefix, " "); spaceIdx >= 0 {
			return pattern[:spaceIdx+1], pattern[spaceIdx+1:]
		}
	}

	return "", pattern
}

// stripPrefix runs after middleware, so middleware sees the original path.
func stripPrefix(prefix string, handler Handler) Handler {
	return HandlerFunc(func(w ResponseWriter, r *http.Request) error {
		p := strings.TrimPrefix(r.URL.Path, prefix)
		if p == "" {
			p = "/"
		}

		rp := ""
		if r.URL.RawPath != "" {
			rp = strings.TrimPrefix(r.URL.RawPath, prefix)
			if rp == "" {
				rp = "/"
			}
		}

		r2 := new(http.Request)
		*r2 = *r
		r2.URL = new(url.URL)
		*r2.URL = *r.URL
		r2.URL.Path = p
		r2.URL.RawPath = rp

		return handler.ServeBFault(w, r2)
	})
}
