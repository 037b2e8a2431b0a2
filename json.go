package bfault

import (
	"encoding/json"
	"net/http"
)

// MediaTypeJSON is produced by [JSON].
const MediaTypeJSON = "application/json"

// JSON renders faults as compact JSON objects.
type JSON struct{ cfg handlerConfig }

// NewJSON inits the JSON content handler.
func NewJSON(opts ...HandlerOption) *JSON {
	return &JSON{cfg: newHandlerConfig(opts)}
}

type jsonMessage struct {
	Message        string   `json:"message"`
	AllowedMethods []string `json:"allowed_methods,omitempty"`
}

type jsonError struct {
	Error   string       `json:"error"`
	Details *ErrorDetail `json:"details,omitempty"`
}

func (h *JSON) MediaType() string { return MediaTypeJSON }

func (h *JSON) RenderNotFound(_ *http.Request, base Response) Response {
	return notFound(base, h.MediaType()).
		WithBody(marshalJSON(jsonMessage{Message: http.StatusText(http.StatusNotFound)}))
}

func (h *JSON) RenderNotAllowed(_ *http.Request, base Response, allowed []string) Response {
	return notAllowed(base, h.MediaType()).
		WithBody(marshalJSON(jsonMessage{Message: "Method not allowed.", AllowedMethods: allowed}))
}

func (h *JSON) RenderException(_ *http.Request, base Response, _ error) Response {
	return serverError(base, h.MediaType()).
		WithBody(marshalJSON(jsonError{Error: ApplicationErrorMessage}))
}

func (h *JSON) RenderFatal(_ *http.Request, base Response, err error) Response {
	body := jsonError{Error: ApplicationErrorMessage}
	if h.cfg.errorDetails {
		d := DetailOf(err)
		body.Details = &d
	}

	return serverError(base, h.MediaType()).WithBody(marshalJSON(body))
}

// marshalJSON encodes v, the generic error object is used if v can't be encoded.
func marshalJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"error":"` + ApplicationErrorMessage + `"}`)
	}

	return b
}

var _ ContentHandler = &JSON{}
