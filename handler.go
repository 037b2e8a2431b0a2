package bfault

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// ApplicationErrorMessage is the generic message rendered for every 500 response. The message
// of the fault itself is never rendered for recoverable faults.
const ApplicationErrorMessage = "Application Error"

// ContentHandler renders the four fault situations into a response of a single media type.
// Implementations return a new response layered on top of 'base' and set the Content-Type
// header to exactly [ContentHandler.MediaType].
type ContentHandler interface {
	// MediaType returns the media type of every response this handler produces.
	MediaType() string
	// RenderNotFound renders the absence of a matching route.
	RenderNotFound(r *http.Request, base Response) Response
	// RenderNotAllowed renders a method mismatch, allowed lists the methods in order.
	RenderNotAllowed(r *http.Request, base Response, allowed []string) Response
	// RenderException renders a recoverable application fault.
	RenderException(r *http.Request, base Response, err error) Response
	// RenderFatal renders a fatal fault, possibly with diagnostic details.
	RenderFatal(r *http.Request, base Response, err error) Response
}

// HandlerOption configures the builtin content handlers.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	errorDetails bool
}

// WithErrorDetails makes the handler include the type, message and stack of fatal faults.
// Recoverable faults are never rendered with details.
func WithErrorDetails() HandlerOption {
	return func(c *handlerConfig) { c.errorDetails = true }
}

func newHandlerConfig(opts []HandlerOption) handlerConfig {
	var cfg handlerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// ErrorDetail describes a fatal fault for diagnostic output.
type ErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// DetailOf describes err for diagnostic output.
func DetailOf(err error) ErrorDetail {
	if err == nil {
		return ErrorDetail{Type: "<nil>"}
	}

	d := ErrorDetail{
		Type:    fmt.Sprintf("%T", errors.UnwrapAll(err)),
		Message: err.Error(),
	}

	if st := fmt.Sprintf("%+v", err); st != d.Message {
		d.Stack = st
	}

	return d
}

func notFound(base Response, mediaType string) Response {
	return base.
		WithStatus(http.StatusNotFound, "").
		WithHeader("Content-Type", mediaType)
}

func notAllowed(base Response, mediaType string) Response {
	return base.
		WithStatus(http.StatusMethodNotAllowed, "").
		WithHeader("Content-Type", mediaType)
}

func serverError(base Response, mediaType string) Response {
	return base.
		WithStatus(http.StatusInternalServerError, "").
		WithHeader("Content-Type", mediaType)
}
