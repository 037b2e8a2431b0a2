package bfault

import (
	"bytes"
	"html/template"
	"net/http"
)

// MediaTypeHTML is produced by [HTML].
const MediaTypeHTML = "text/html"

// DefaultHTMLTemplate renders a minimal error page. The template receives an [HTMLPage].
var DefaultHTMLTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
{{- if .AllowedMethods}}
<ul>{{range .AllowedMethods}}<li>{{.}}</li>{{end}}</ul>
{{- end}}
{{- with .Details}}
<pre>{{.Type}}: {{.Message}}
{{.Stack}}</pre>
{{- end}}
</body>
</html>
`))

// HTMLPage is the data handed to the HTML template.
type HTMLPage struct {
	Status         int
	Title          string
	Message        string
	AllowedMethods []string
	Details        *ErrorDetail
}

// HTML renders faults as an HTML page.
type HTML struct {
	cfg  handlerConfig
	tmpl *template.Template
}

// NewHTML inits the HTML content handler. A nil template uses [DefaultHTMLTemplate].
func NewHTML(tmpl *template.Template, opts ...HandlerOption) *HTML {
	if tmpl == nil {
		tmpl = DefaultHTMLTemplate
	}

	return &HTML{cfg: newHandlerConfig(opts), tmpl: tmpl}
}

func (h *HTML) MediaType() string { return MediaTypeHTML }

func (h *HTML) RenderNotFound(_ *http.Request, base Response) Response {
	return notFound(base, h.MediaType()).WithBody(h.render(HTMLPage{
		Status:  http.StatusNotFound,
		Title:   http.StatusText(http.StatusNotFound),
		Message: "The requested resource could not be found.",
	}))
}

func (h *HTML) RenderNotAllowed(_ *http.Request, base Response, allowed []string) Response {
	return notAllowed(base, h.MediaType()).WithBody(h.render(HTMLPage{
		Status:         http.StatusMethodNotAllowed,
		Title:          http.StatusText(http.StatusMethodNotAllowed),
		Message:        "Method not allowed. Allowed methods:",
		AllowedMethods: allowed,
	}))
}

func (h *HTML) RenderException(_ *http.Request, base Response, _ error) Response {
	return serverError(base, h.MediaType()).WithBody(h.render(HTMLPage{
		Status:  http.StatusInternalServerError,
		Title:   ApplicationErrorMessage,
		Message: "An error occurred while processing the request.",
	}))
}

func (h *HTML) RenderFatal(_ *http.Request, base Response, err error) Response {
	page := HTMLPage{
		Status:  http.StatusInternalServerError,
		Title:   ApplicationErrorMessage,
		Message: "An error occurred while processing the request.",
	}

	if h.cfg.errorDetails {
		d := DetailOf(err)
		page.Details = &d
	}

	return serverError(base, h.MediaType()).WithBody(h.render(page))
}

// render executes the template, a failing template falls back to the escaped title.
func (h *HTML) render(page HTMLPage) []byte {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, page); err != nil {
		return []byte("<!DOCTYPE html><title>" + template.HTMLEscapeString(page.Title) + "</title>")
	}

	return buf.Bytes()
}

var _ ContentHandler = &HTML{}
