// Package bfaultapptest provides test helpers for bfaultapp applications.
//
// It constructs the identical DI graph as [bfaultapp.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
// Example:
//
//	env := bfaultapptest.SetBaseEnv(t, 18081)
//	bfaultapptest.New[bfaultapp.BaseEnvironment](t, routing).RequireServing(env.BaseURL())
package bfaultapptest

import (
	"testing"
	"time"

	"github.com/advdv/bfault/bfaultapp"
	"github.com/carlmjohnson/requests"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

// ReadyTimeout bounds how long [App.RequireServing] waits for the server.
var ReadyTimeout = 5 * time.Second

// App embeds *fxtest.App for testing bfaultapp applications.
type App struct {
	*fxtest.App
	tb testing.TB
}

// New creates a test app with the same DI graph as [bfaultapp.NewApp].
func New[E bfaultapp.Environment](t testing.TB, routing any, opts ...bfaultapp.Option) *App {
	return &App{App: fxtest.New(t, bfaultapp.FxOptions[E](routing, opts...)...), tb: t}
}

// RequireServing starts the app, stops it when the test ends and blocks until the server
// answers with a 2xx on its health path, "/healthz" unless given.
func (a *App) RequireServing(baseURL string, healthPath ...string) *App {
	a.tb.Helper()

	a.RequireStart()
	a.tb.Cleanup(func() { a.RequireStop() })

	path := "/healthz"
	if len(healthPath) > 0 {
		path = healthPath[0]
	}

	require.Eventually(a.tb, func() bool {
		return requests.URL(baseURL).Path(path).Fetch(a.tb.Context()) == nil
	}, ReadyTimeout, 20*time.Millisecond, "server at %s never became ready", baseURL)

	return a
}
