// Package bfault renders content-negotiated error responses for HTTP servers.
//
// # Overview
//
// When a request fails because no route matches, the method is not allowed, a handler
// returned an error or a handler panicked, bfault selects a representation that the client
// asked for and renders a complete response: status, reason phrase, headers and body.
//
// A minimal example:
//
//	mux := bfault.NewServeMux()
//	mux.HandleFunc("GET /items/{id}", func(w bfault.ResponseWriter, r *http.Request) error {
//	    item, err := db.GetItem(r.PathValue("id"))
//	    if err != nil {
//	        return err // rendered as a 500 in JSON, HTML or plain text
//	    }
//	    return json.NewEncoder(w).Encode(item)
//	})
//
// # Content Handlers
//
// A [ContentHandler] renders the four fault situations in exactly one media type:
//
//   - [ContentHandler.RenderNotFound]: 404 Not Found
//   - [ContentHandler.RenderNotAllowed]: 405 Method Not Allowed, listing the allowed methods
//   - [ContentHandler.RenderException]: 500 for a recoverable fault, always with a generic message
//   - [ContentHandler.RenderFatal]: 500 for a fatal fault, optionally with diagnostic details
//
// The builtin handlers are [JSON], [PlainText], [HTML] and [Problem] (RFC 9457). Every handler
// sets Content-Type to its media type without parameters and leaves all other headers of the
// base response alone.
//
// # Negotiation
//
// A [Negotiator] holds an ordered [Registry] of handlers. For each request it walks the
// accepted media types in declared order and picks the first one that is registered.
// A wildcard, a missing Accept header or a request that matches nothing gets the first
// registered handler:
//
//	n := bfault.NewNegotiator(bfault.NewRegistry(
//	    bfault.Register("application/json", bfault.NewJSON()),
//	    bfault.Register("text/plain", bfault.NewPlainText()),
//	))
//
// A nil registry uses [DefaultRegistry]. An empty registry renders everything with the builtin
// plain text handler. The negotiator never panics: a handler that does is replaced by plain text.
//
// # Responses
//
// [Response] is an immutable value. Every With* method returns a copy, so a base response can
// be shared by many renders without being changed by any of them:
//
//	base := bfault.NewResponse().WithHeader("X-Request-Id", id)
//	resp := n.HandleNotFound(r, base) // base is unchanged
//
// # Faults
//
// A [Fault] is either recoverable (an error a handler returned), fatal (a recovered panic or a
// runtime error) or unclassified. A [FaultRouter] renders a fault with a [Dispatcher] and
// emits the result:
//
//	fr := bfault.NewFaultRouter(n, r, bfault.ResponseFor(r), bfault.WriterEmitter(w))
//	if !fr.Handle(v) {
//	    panic(v) // nothing was written, the caller decides
//	}
//
// Handle returns true only when a response was emitted. The caller must stop processing the
// request in that case.
//
// # Buffered Handlers
//
// [Handler] differs from http.Handler in that it writes to a buffering [ResponseWriter] and
// returns an error. [ToStd] converts it to a standard handler: on error or panic everything
// written so far is discarded and replaced by the negotiated error response. [ServeMux]
// combines this with middleware and answers unmatched requests with negotiated 404 and 405
// responses.
package bfault
