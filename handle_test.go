package bfault_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/bfault"
	"github.com/advdv/bfault/bfaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handleHello(w bfault.ResponseWriter, r *http.Request) error {
	w.Header().Set("Is-Bar", "rab")
	w.WriteHeader(http.StatusCreated)

	fmt.Fprintf(w, `hello at %s`, r.URL.Path)

	switch r.URL.Path {
	case "/trigger-error":
		return errors.New("triggered error")
	case "/trigger-panic":
		panic("boom")
	}

	return nil
}

func TestHandleBasic(t *testing.T) {
	logs := bfault.NewTestLogger(t)
	hdlr := bfault.ToStd(bfault.HandlerFunc(handleHello), bfault.NewNegotiator(nil), -1, logs)

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bar", nil)
	hdlr.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, `rab`, rec.Header().Get("Is-Bar"))
	require.Equal(t, `hello at /bar`, rec.Body.String())
}

func TestHandleErrorIsNegotiated(t *testing.T) {
	logs := bfault.NewTestLogger(t)
	hdlr := bfault.ToStd(bfault.HandlerFunc(handleHello), bfault.NewNegotiator(nil), -1, logs)

	rec, req := httptest.NewRecorder(), bfaulttest.NewRequest("/trigger-error", "application/json")
	hdlr.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, rec.Header().Get("Is-Bar"))
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, `{"error":"Application Error"}`, rec.Body.String())
	require.Equal(t, int64(0), logs.NumLogUnhandledFault)
}

func TestHandlePanicIsFatal(t *testing.T) {
	logs := bfault.NewTestLogger(t)
	neg := bfault.NewNegotiator(bfault.NewRegistry(
		bfault.Register("text/plain", bfault.NewPlainText(bfault.WithErrorDetails())),
	))

	var seen []bfault.Outcome
	obs := bfault.ObserverFunc(func(_ *http.Request, o bfault.Outcome) { seen = append(seen, o) })

	hdlr := bfault.ToStd(bfault.HandlerFunc(handleHello), neg, -1, logs, obs)

	rec, req := httptest.NewRecorder(), bfaulttest.NewRequest("/trigger-panic", "")
	hdlr.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "Application Error")
	require.Contains(t, rec.Body.String(), "Message: panic: boom")
	require.NotContains(t, rec.Body.String(), "hello at")

	require.Len(t, seen, 1)
	assert.Equal(t, bfault.KindFatal, seen[0].Fault.Kind())
	assert.Equal(t, http.StatusInternalServerError, seen[0].Response.StatusCode())
}

func TestHandleUnroutableFault(t *testing.T) {
	logs := bfault.NewTestLogger(t)
	hdlr := bfault.ToStd(bfault.HandlerFunc(handleHello), bfaulttest.InvalidDispatcher{}, -1, logs)

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/trigger-error", nil)
	hdlr.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, rec.Header().Get("Is-Bar"))
	require.Equal(t, `Internal Server Error`+"\n", rec.Body.String())
	require.Equal(t, int64(1), logs.NumLogUnhandledFault)
}

func TestHandleErrorAfterExplicitFlush(t *testing.T) {
	logs := bfault.NewTestLogger(t)
	hdlr := bfault.ToStd(bfault.HandlerFunc(func(w bfault.ResponseWriter, _ *http.Request) error {
		fmt.Fprint(w, "partial")
		if err := http.NewResponseController(w).Flush(); err != nil {
			return err
		}

		return errors.New("too late")
	}), bfault.NewNegotiator(nil), -1, logs)

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)
	hdlr.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "partial", rec.Body.String())
	require.Equal(t, int64(1), logs.NumLogUnhandledFault)
}

func TestHandleBufferFull(t *testing.T) {
	logs := bfault.NewTestLogger(t)
	hdlr := bfault.ToStd(bfault.HandlerFunc(func(w bfault.ResponseWriter, _ *http.Request) error {
		_, err := fmt.Fprint(w, "way too much")
		return err
	}), bfault.NewNegotiator(nil), 4, logs)

	rec, req := httptest.NewRecorder(), bfaulttest.NewRequest("/", "text/plain")
	hdlr.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Application Error", rec.Body.String())
}

func TestHandleAbortIsRepanicked(t *testing.T) {
	logs := bfault.NewTestLogger(t)
	hdlr := bfault.ToStd(bfault.HandlerFunc(func(bfault.ResponseWriter, *http.Request) error {
		panic(http.ErrAbortHandler)
	}), bfault.NewNegotiator(nil), -1, logs)

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)
	require.PanicsWithValue(t, http.ErrAbortHandler, func() { hdlr.ServeHTTP(rec, req) })
}

func TestNotFoundHandler(t *testing.T) {
	logs := bfault.NewTestLogger(t)
	rec, req := httptest.NewRecorder(), bfaulttest.NewRequest("/nope", "text/plain")
	bfault.NotFoundHandler(bfault.NewNegotiator(nil), logs).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Not Found", rec.Body.String())
}

func TestNotAllowedHandler(t *testing.T) {
	logs := bfault.NewTestLogger(t)
	rec, req := httptest.NewRecorder(), bfaulttest.NewRequest("/", "application/json")
	bfault.NotAllowedHandler(bfault.NewNegotiator(nil), logs, "GET", "HEAD").ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
	require.JSONEq(t, `{"message":"Method not allowed.","allowed_methods":["GET","HEAD"]}`, rec.Body.String())
	require.Equal(t, int64(0), logs.NumLogEmitError)
}
