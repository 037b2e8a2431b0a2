package bfaultapptest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [bfaultapp.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t    testing.TB
	port int
}

// SetBaseEnv sets all [bfaultapp.BaseEnvironment] env vars to sensible test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - BF_SERVICE_NAME: "test"
//   - BF_LOG_LEVEL: "error"
//   - BF_MEDIA_TYPES: "application/json,text/html,text/plain"
//   - BF_ERROR_DETAILS: "false"
//   - BF_BUFFER_LIMIT: "-1"
//   - BF_OTEL_EXPORTER: "none"
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("BF_PORT", strconv.Itoa(port))
	t.Setenv("BF_SERVICE_NAME", "test")
	t.Setenv("BF_LOG_LEVEL", "error")
	t.Setenv("BF_MEDIA_TYPES", "application/json,text/html,text/plain")
	t.Setenv("BF_ERROR_DETAILS", "false")
	t.Setenv("BF_BUFFER_LIMIT", "-1")
	t.Setenv("BF_OTEL_EXPORTER", "none")
	return &Env{t: t, port: port}
}

// BaseURL is the address the app under test listens on.
func (e *Env) BaseURL() string {
	return "http://localhost:" + strconv.Itoa(e.port)
}

// ServiceName overrides BF_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("BF_SERVICE_NAME", name)
	return e
}

// MediaTypes overrides BF_MEDIA_TYPES.
func (e *Env) MediaTypes(list string) *Env {
	e.t.Helper()
	e.t.Setenv("BF_MEDIA_TYPES", list)
	return e
}

// ErrorDetails overrides BF_ERROR_DETAILS.
func (e *Env) ErrorDetails(on bool) *Env {
	e.t.Helper()
	e.t.Setenv("BF_ERROR_DETAILS", strconv.FormatBool(on))
	return e
}

// BufferLimit overrides BF_BUFFER_LIMIT.
func (e *Env) BufferLimit(n int) *Env {
	e.t.Helper()
	e.t.Setenv("BF_BUFFER_LIMIT", strconv.Itoa(n))
	return e
}
