package bfault

import (
	"net/http"
)

// MediaTypeProblem is produced by [Problem].
const MediaTypeProblem = "application/problem+json"

// Problem renders faults as RFC 9457 problem details. The request path is used as the problem
// instance. Problem types are relative to BaseURL when set, "about:blank" otherwise.
type Problem struct {
	cfg     handlerConfig
	baseURL string
}

// NewProblem inits the problem details content handler.
func NewProblem(baseURL string, opts ...HandlerOption) *Problem {
	return &Problem{cfg: newHandlerConfig(opts), baseURL: baseURL}
}

// ProblemDetail is the RFC 9457 document.
type ProblemDetail struct {
	Type           string       `json:"type"`
	Title          string       `json:"title"`
	Status         int          `json:"status"`
	Detail         string       `json:"detail,omitempty"`
	Instance       string       `json:"instance,omitempty"`
	AllowedMethods []string     `json:"allowed_methods,omitempty"`
	Details        *ErrorDetail `json:"details,omitempty"`
}

func (h *Problem) MediaType() string { return MediaTypeProblem }

func (h *Problem) RenderNotFound(r *http.Request, base Response) Response {
	return notFound(base, h.MediaType()).
		WithBody(marshalJSON(h.problem(r, http.StatusNotFound, "not-found")))
}

func (h *Problem) RenderNotAllowed(r *http.Request, base Response, allowed []string) Response {
	p := h.problem(r, http.StatusMethodNotAllowed, "method-not-allowed")
	p.AllowedMethods = allowed

	return notAllowed(base, h.MediaType()).WithBody(marshalJSON(p))
}

func (h *Problem) RenderException(r *http.Request, base Response, _ error) Response {
	p := h.problem(r, http.StatusInternalServerError, "application-error")
	p.Detail = ApplicationErrorMessage

	return serverError(base, h.MediaType()).WithBody(marshalJSON(p))
}

func (h *Problem) RenderFatal(r *http.Request, base Response, err error) Response {
	p := h.problem(r, http.StatusInternalServerError, "application-error")
	p.Detail = ApplicationErrorMessage

	if h.cfg.errorDetails {
		d := DetailOf(err)
		p.Details = &d
	}

	return serverError(base, h.MediaType()).WithBody(marshalJSON(p))
}

func (h *Problem) problem(r *http.Request, status int, slug string) ProblemDetail {
	p := ProblemDetail{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
	}

	if h.baseURL != "" {
		p.Type = h.baseURL + "/" + slug
	}

	if r != nil && r.URL != nil {
		p.Instance = r.URL.Path
	}

	return p
}

var _ ContentHandler = &Problem{}
