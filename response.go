package bfault

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/net/http/httpguts"
)

// DefaultProtocolVersion is used by [NewResponse] when no request protocol is known.
const DefaultProtocolVersion = "1.1"

// Response is an immutable HTTP response value. Every With* method returns a copy with the
// field replaced, the receiver is never changed. This guarantees that a base response handed to
// a content handler can never be corrupted by a failed render.
type Response struct {
	proto  string
	status int
	reason string
	header http.Header
	body   []byte
}

// NewResponse returns the base response: protocol 1.1, status 200 OK, no headers and no body.
func NewResponse() Response {
	return Response{
		proto:  DefaultProtocolVersion,
		status: http.StatusOK,
		reason: http.StatusText(http.StatusOK),
		header: http.Header{},
	}
}

// ResponseFor returns a base response that carries the protocol version of request r.
func ResponseFor(r *http.Request) Response {
	resp := NewResponse()
	if r != nil && r.ProtoMajor > 0 {
		resp = resp.WithProtocolVersion(strconv.Itoa(r.ProtoMajor) + "." + strconv.Itoa(r.ProtoMinor))
	}

	return resp
}

// ProtocolVersion returns the HTTP version, e.g. "1.1".
func (r Response) ProtocolVersion() string { return r.proto }

// StatusCode returns the numeric status code.
func (r Response) StatusCode() int { return r.status }

// ReasonPhrase returns the reason phrase that goes with the status code.
func (r Response) ReasonPhrase() string { return r.reason }

// Header returns a copy of the header map.
func (r Response) Header() http.Header { return r.header.Clone() }

// HeaderValues returns the values of the header with the given (canonicalized) name.
func (r Response) HeaderValues(name string) []string {
	return append([]string(nil), r.header.Values(name)...)
}

// Body returns a new reader over the body. Each call starts at the beginning.
func (r Response) Body() *bytes.Reader { return bytes.NewReader(r.body) }

// BodyBytes returns a copy of the body.
func (r Response) BodyBytes() []byte { return bytes.Clone(r.body) }

// Valid reports whether the response carries a status code that can be written to the wire.
func (r Response) Valid() bool { return r.status >= 100 && r.status <= 599 }

// WithStatus returns a copy with the status code and reason phrase replaced. An empty reason
// uses the standard status text.
func (r Response) WithStatus(code int, reason string) Response {
	if reason == "" {
		reason = http.StatusText(code)
	}

	r.status, r.reason = code, reason

	return r
}

// WithProtocolVersion returns a copy with the protocol version replaced.
func (r Response) WithProtocolVersion(v string) Response {
	r.proto = v
	return r
}

// WithHeader returns a copy where the header 'name' is replaced by 'values'. Invalid header
// names leave the response unchanged.
func (r Response) WithHeader(name string, values ...string) Response {
	if !httpguts.ValidHeaderFieldName(name) {
		return r
	}

	r.header = r.header.Clone()
	if r.header == nil {
		r.header = http.Header{}
	}

	r.header[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)

	return r
}

// WithAddedHeader returns a copy where 'values' are appended to the existing values of 'name'.
func (r Response) WithAddedHeader(name string, values ...string) Response {
	return r.WithHeader(name, append(r.header.Values(name), values...)...)
}

// WithoutHeader returns a copy without the header 'name'.
func (r Response) WithoutHeader(name string) Response {
	r.header = r.header.Clone()
	r.header.Del(name)

	return r
}

// WithBody returns a copy with the body replaced.
func (r Response) WithBody(b []byte) Response {
	r.body = bytes.Clone(b)
	return r
}

// WithBodyString returns a copy with the body replaced by s.
func (r Response) WithBodyString(s string) Response {
	r.body = []byte(s)
	return r
}

// WriteTo emits the response onto w: headers, status line and body. The protocol version and
// reason phrase are decided by the server for real connections.
func (r Response) WriteTo(w http.ResponseWriter) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidResponse, r.status)
	}

	hdr := w.Header()
	for name, vals := range r.header {
		hdr[name] = append([]string(nil), vals...)
	}

	hdr.Set("Content-Length", strconv.Itoa(len(r.body)))
	w.WriteHeader(r.status)

	if _, err := io.Copy(w, r.Body()); err != nil {
		return fmt.Errorf("write body: %w", err)
	}

	return nil
}
