package bfault

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/cockroachdb/errors"
)

// Dispatcher turns the four fault situations into a response for a request.
type Dispatcher interface {
	HandleNotFound(r *http.Request, base Response) Response
	HandleNotAllowed(r *http.Request, base Response, allowed []string) Response
	HandleException(r *http.Request, base Response, err error) Response
	HandleThrowable(r *http.Request, base Response, err error) Response
}

// Entry pairs a media type with the content handler that produces it.
type Entry struct {
	MediaType string
	Handler   ContentHandler
}

// Register is a shorthand for creating an [Entry].
func Register(mediaType string, h ContentHandler) Entry {
	return Entry{MediaType: mediaType, Handler: h}
}

// Registry is an ordered mapping from media type to content handler. Media types are matched
// exactly and case-sensitive. The order of registration is the fallback priority. A registry
// is immutable after construction and safe for concurrent use.
type Registry struct {
	keys     []string
	handlers map[string]ContentHandler
}

// NewRegistry builds a registry from entries. A later entry with the same media type replaces
// the handler of the earlier one but keeps its position. Entries without a handler are ignored.
func NewRegistry(entries ...Entry) *Registry {
	reg := &Registry{handlers: make(map[string]ContentHandler, len(entries))}
	for _, e := range entries {
		if e.Handler == nil {
			continue
		}

		if _, exists := reg.handlers[e.MediaType]; !exists {
			reg.keys = append(reg.keys, e.MediaType)
		}

		reg.handlers[e.MediaType] = e.Handler
	}

	return reg
}

// DefaultRegistry returns the registry used when none is configured: JSON first, then HTML
// and plain text.
func DefaultRegistry(opts ...HandlerOption) *Registry {
	return NewRegistry(
		Register(MediaTypeJSON, NewJSON(opts...)),
		Register(MediaTypeHTML, NewHTML(nil, opts...)),
		Register(MediaTypePlainText, NewPlainText(opts...)),
	)
}

// BuiltinRegistry builds a registry of builtin handlers for the media types, in order.
func BuiltinRegistry(mediaTypes []string, opts ...HandlerOption) (*Registry, error) {
	entries := make([]Entry, 0, len(mediaTypes))
	for _, mt := range mediaTypes {
		var h ContentHandler
		switch mt {
		case MediaTypeJSON:
			h = NewJSON(opts...)
		case MediaTypePlainText:
			h = NewPlainText(opts...)
		case MediaTypeHTML:
			h = NewHTML(nil, opts...)
		case MediaTypeProblem:
			h = NewProblem("", opts...)
		default:
			return nil, errors.Wrapf(ErrUnknownMediaType, "%q", mt)
		}

		entries = append(entries, Register(mt, h))
	}

	return NewRegistry(entries...), nil
}

// Len returns the number of registered media types.
func (reg *Registry) Len() int { return len(reg.keys) }

// MediaTypes returns the registered media types in priority order.
func (reg *Registry) MediaTypes() []string { return slices.Clone(reg.keys) }

// Lookup returns the handler registered for exactly mediaType.
func (reg *Registry) Lookup(mediaType string) (ContentHandler, bool) {
	h, ok := reg.handlers[mediaType]
	return h, ok
}

func (reg *Registry) first() (ContentHandler, bool) {
	if reg == nil || len(reg.keys) < 1 {
		return nil, false
	}

	return reg.handlers[reg.keys[0]], true
}

// Negotiator is a [Dispatcher] that picks a content handler from a [Registry] based on the
// media types the request accepts.
type Negotiator struct {
	reg      *Registry
	fallback ContentHandler
	logs     Logger
}

// NegotiatorOption configures the negotiator.
type NegotiatorOption func(*Negotiator)

// WithLogger sets the logger that is told about handlers that panic.
func WithLogger(logs Logger) NegotiatorOption {
	return func(n *Negotiator) { n.logs = logs }
}

// WithFallbackOptions configures the builtin plain text handler that is used when nothing
// else can be.
func WithFallbackOptions(opts ...HandlerOption) NegotiatorOption {
	return func(n *Negotiator) { n.fallback = NewPlainText(opts...) }
}

// NewNegotiator inits the negotiator. A nil registry uses [DefaultRegistry], an empty registry
// renders everything as plain text.
func NewNegotiator(reg *Registry, opts ...NegotiatorOption) *Negotiator {
	if reg == nil {
		reg = DefaultRegistry()
	}

	n := &Negotiator{
		reg:      reg,
		fallback: NewPlainText(),
		logs:     NewStdLogger(nil),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// SelectHandler picks the handler for the request. The accepted media types are tried in the order
// the client declared them and the first one that is registered wins. A wildcard accepts the first
// registered handler. Without an Accept header, or when nothing matches, the first registered
// handler is used. With an empty registry the builtin plain text handler is returned.
func (n *Negotiator) SelectHandler(r *http.Request) (h ContentHandler) {
	defer func() {
		if v := recover(); v != nil {
			n.logger().LogNegotiationPanic(v)
			h = n.fallbackHandler()
		}
	}()

	first, ok := n.reg.first()
	if !ok {
		return n.fallbackHandler()
	}

	for _, mr := range AcceptedMediaTypes(r) {
		if mr.Type == AnyMediaType {
			return first
		}

		if h, ok := n.reg.Lookup(mr.Type); ok {
			return h
		}
	}

	return first
}

func (n *Negotiator) HandleNotFound(r *http.Request, base Response) Response {
	return n.render(r, func(h ContentHandler) Response {
		return h.RenderNotFound(r, base)
	})
}

func (n *Negotiator) HandleNotAllowed(r *http.Request, base Response, allowed []string) Response {
	allowed = slices.Clone(allowed)

	return n.render(r, func(h ContentHandler) Response {
		return h.RenderNotAllowed(r, base, allowed)
	})
}

func (n *Negotiator) HandleException(r *http.Request, base Response, err error) Response {
	return n.render(r, func(h ContentHandler) Response {
		return h.RenderException(r, base, err)
	})
}

func (n *Negotiator) HandleThrowable(r *http.Request, base Response, err error) Response {
	return n.render(r, func(h ContentHandler) Response {
		return h.RenderFatal(r, base, err)
	})
}

// render selects a handler and renders with it. A handler that panics is replaced by the
// builtin plain text handler.
func (n *Negotiator) render(r *http.Request, fn func(ContentHandler) Response) (resp Response) {
	h := n.SelectHandler(r)

	defer func() {
		if v := recover(); v != nil {
			n.logger().LogNegotiationPanic(fmt.Errorf("%T: %v", h, v))
			resp = fn(n.fallbackHandler())
		}
	}()

	return fn(h)
}

// fallbackHandler and logger keep a zero Negotiator usable, it then behaves like one with an
// empty registry.
func (n *Negotiator) fallbackHandler() ContentHandler {
	if n.fallback == nil {
		return builtinPlainText
	}

	return n.fallback
}

func (n *Negotiator) logger() Logger {
	if n.logs == nil {
		return NewStdLogger(nil)
	}

	return n.logs
}

var builtinPlainText = NewPlainText()

var _ Dispatcher = &Negotiator{}

// Static returns a dispatcher that always renders with h, without negotiation.
func Static(h ContentHandler) Dispatcher {
	return staticDispatcher{h}
}

type staticDispatcher struct{ h ContentHandler }

func (d staticDispatcher) HandleNotFound(r *http.Request, base Response) Response {
	return d.h.RenderNotFound(r, base)
}

func (d staticDispatcher) HandleNotAllowed(r *http.Request, base Response, allowed []string) Response {
	return d.h.RenderNotAllowed(r, base, allowed)
}

func (d staticDispatcher) HandleException(r *http.Request, base Response, err error) Response {
	return d.h.RenderException(r, base, err)
}

func (d staticDispatcher) HandleThrowable(r *http.Request, base Response, err error) Response {
	return d.h.RenderFatal(r, base, err)
}
