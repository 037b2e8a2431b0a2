package bfaulttest

import (
	"net/http"

	"github.com/advdv/bfault"
)

// PanicHandler is a content handler that panics on every render.
type PanicHandler struct{ Type string }

func (h PanicHandler) MediaType() string { return h.Type }

func (h PanicHandler) RenderNotFound(*http.Request, bfault.Response) bfault.Response {
	panic("bfaulttest: render not found")
}

func (h PanicHandler) RenderNotAllowed(*http.Request, bfault.Response, []string) bfault.Response {
	panic("bfaulttest: render not allowed")
}

func (h PanicHandler) RenderException(*http.Request, bfault.Response, error) bfault.Response {
	panic("bfaulttest: render exception")
}

func (h PanicHandler) RenderFatal(*http.Request, bfault.Response, error) bfault.Response {
	panic("bfaulttest: render fatal")
}

// InvalidDispatcher renders zero responses, which are never valid.
type InvalidDispatcher struct{}

func (InvalidDispatcher) HandleNotFound(*http.Request, bfault.Response) bfault.Response {
	return bfault.Response{}
}

func (InvalidDispatcher) HandleNotAllowed(*http.Request, bfault.Response, []string) bfault.Response {
	return bfault.Response{}
}

func (InvalidDispatcher) HandleException(*http.Request, bfault.Response, error) bfault.Response {
	return bfault.Response{}
}

func (InvalidDispatcher) HandleThrowable(*http.Request, bfault.Response, error) bfault.Response {
	return bfault.Response{}
}

var (
	_ bfault.ContentHandler = PanicHandler{}
	_ bfault.Dispatcher     = InvalidDispatcher{}
)
