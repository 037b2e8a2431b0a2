// Package bfaulttest provides helpers for testing code that renders faults with bfault.
package bfaulttest

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/advdv/bfault"
)

// Emitter records every emitted response. Set Err to make emission fail.
type Emitter struct {
	mu        sync.Mutex
	Err       error
	responses []bfault.Response
}

// Emit implements bfault.Emitter.
func (e *Emitter) Emit(resp bfault.Response) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.responses = append(e.responses, resp)

	return e.Err
}

// Responses returns what was emitted so far.
func (e *Emitter) Responses() []bfault.Response {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]bfault.Response(nil), e.responses...)
}

var _ bfault.Emitter = &Emitter{}

// NewRequest returns a GET request for target with the given Accept header. An empty accept
// sends no Accept header at all.
func NewRequest(target, accept string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	return req
}
