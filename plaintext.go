package bfault

import (
	"net/http"
	"strings"
)

// MediaTypePlainText is produced by [PlainText].
const MediaTypePlainText = "text/plain"

// PlainText renders faults as human readable text. It is also the handler of last resort.
type PlainText struct{ cfg handlerConfig }

// NewPlainText inits the plain text content handler.
func NewPlainText(opts ...HandlerOption) *PlainText {
	return &PlainText{cfg: newHandlerConfig(opts)}
}

func (h *PlainText) MediaType() string { return MediaTypePlainText }

func (h *PlainText) RenderNotFound(_ *http.Request, base Response) Response {
	return notFound(base, h.MediaType()).WithBodyString(http.StatusText(http.StatusNotFound))
}

func (h *PlainText) RenderNotAllowed(_ *http.Request, base Response, allowed []string) Response {
	return notAllowed(base, h.MediaType()).
		WithBodyString("Method not allowed.\nAllowed methods: " + strings.Join(allowed, ", "))
}

func (h *PlainText) RenderException(_ *http.Request, base Response, _ error) Response {
	return serverError(base, h.MediaType()).WithBodyString(ApplicationErrorMessage)
}

func (h *PlainText) RenderFatal(_ *http.Request, base Response, err error) Response {
	body := ApplicationErrorMessage
	if h.cfg.errorDetails {
		d := DetailOf(err)
		body += "\n\nType: " + d.Type + "\nMessage: " + d.Message
		if d.Stack != "" {
			body += "\n\n" + d.Stack
		}
	}

	return serverError(base, h.MediaType()).WithBodyString(body)
}

var _ ContentHandler = &PlainText{}
