package bfault

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrBufferFull is returned when a write would grow the buffer past its limit.
var ErrBufferFull = errors.New("bfault: response buffer is full")

var bufPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// ResponseBuffer is a [ResponseWriter] that holds the status, headers and body in memory until
// it is flushed. Until then the response can be replaced entirely with [ResponseBuffer.Reset].
type ResponseBuffer struct {
	resp  http.ResponseWriter
	limit int
	buf   *bytes.Buffer

	header      http.Header
	sentHeader  http.Header
	status      int
	wroteHeader bool
	sent        bool
	flushed     bool
}

// NewResponseBuffer buffers writes to resp. A negative limit means no limit.
func NewResponseBuffer(resp http.ResponseWriter, limit int) *ResponseBuffer {
	return newBufferResponse(resp, limit)
}

func newBufferResponse(resp http.ResponseWriter, limit int) *ResponseBuffer {
	buf, _ := bufPool.Get().(*bytes.Buffer)
	buf.Reset()

	return &ResponseBuffer{
		resp:   resp,
		limit:  limit,
		buf:    buf,
		header: http.Header{},
		status: http.StatusOK,
	}
}

// Header returns the header map that will be sent.
func (w *ResponseBuffer) Header() http.Header { return w.header }

// WriteHeader records the status code, only the first call has effect.
func (w *ResponseBuffer) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}

	w.wroteHeader = true
	w.status = code
	w.sentHeader = w.header.Clone()
}

// Write buffers p, it fails with [ErrBufferFull] if that would exceed the limit.
func (w *ResponseBuffer) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}

	if w.limit >= 0 && w.buf.Len()+len(p) > w.limit {
		return 0, ErrBufferFull
	}

	return w.buf.Write(p)
}

// Reset discards the buffered status, headers and body. It panics when (part of) the response
// has already been flushed.
func (w *ResponseBuffer) Reset() {
	if w.flushed {
		panic("bfault: cannot reset, response already flushed")
	}

	w.buf.Reset()
	w.header = http.Header{}
	w.sentHeader = nil
	w.status = http.StatusOK
	w.wroteHeader = false
}

// Committed reports whether anything was written to the underlying writer yet.
func (w *ResponseBuffer) Committed() bool { return w.sent }

// FlushBuffer writes the headers (once) and the buffered body to the underlying writer.
func (w *ResponseBuffer) FlushBuffer() error {
	if !w.sent {
		if !w.wroteHeader {
			w.WriteHeader(http.StatusOK)
		}

		w.sent = true
		hdr := w.resp.Header()
		for k, v := range w.sentHeader {
			hdr[k] = v
		}

		w.resp.WriteHeader(w.status)
	}

	if w.buf.Len() < 1 {
		return nil
	}

	defer w.buf.Reset()
	if _, err := w.resp.Write(w.buf.Bytes()); err != nil {
		return fmt.Errorf("write buffered body: %w", err)
	}

	return nil
}

// FlushError flushes the buffer and the underlying writer. After this the response can no
// longer be reset.
func (w *ResponseBuffer) FlushError() error {
	w.flushed = true
	if err := w.FlushBuffer(); err != nil {
		return err
	}

	if err := http.NewResponseController(w.resp).Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return fmt.Errorf("flush underlying: %w", err)
	}

	return nil
}

// Flush implements http.Flusher.
func (w *ResponseBuffer) Flush() { _ = w.FlushError() }

// Unwrap returns the underlying writer, for http.ResponseController.
func (w *ResponseBuffer) Unwrap() http.ResponseWriter { return w.resp }

// Free returns the buffer to the pool. The ResponseBuffer can't be used afterwards.
func (w *ResponseBuffer) Free() {
	if w.buf == nil {
		return
	}

	w.buf.Reset()
	bufPool.Put(w.buf)
	w.buf = nil
}

var _ ResponseWriter = &ResponseBuffer{}
