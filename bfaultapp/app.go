package bfaultapp

import (
	"context"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// AppConfig holds configuration for the app.
type AppConfig struct {
	ServerConfig
	FxOptions []fx.Option
}

// Option configures the App.
type Option func(*AppConfig)

// WithFx adds fx options for dependency injection.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// WithHealthHandler sets a custom health check handler.
// If not set, a default handler returning 200 OK is used.
func WithHealthHandler(h func(http.ResponseWriter, *http.Request)) Option {
	return func(c *AppConfig) {
		c.HealthHandler = h
	}
}

// WithMetricsPath changes the path the prometheus metrics are served on.
func WithMetricsPath(p string) Option {
	return func(c *AppConfig) {
		c.MetricsPath = p
	}
}

// NewApp creates an app whose failures are answered with negotiated error responses.
//
// The routing function can request any types that are provided via fx options.
// At minimum, it should accept *Mux for routing.
//
// Example:
//
//	bfaultapp.NewApp[Env](func(m *bfaultapp.Mux, h *Handlers) {
//	    m.HandleFunc("GET /items", h.ListItems)
//	},
//	    bfaultapp.WithFx(fx.Provide(NewHandlers)),
//	).Run()
func NewApp[E Environment](routing any, opts ...Option) *App {
	return &App{
		app: fx.New(FxOptions[E](routing, opts...)...),
	}
}

// FxOptions returns the fx options that make up the app's dependency graph. It allows tests to
// build the identical graph with fxtest.
func FxOptions[E Environment](routing any, opts ...Option) []fx.Option {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	baseOpts := make([]fx.Option, 0, 16+len(cfg.FxOptions))
	baseOpts = append(baseOpts, []fx.Option{
		fx.NopLogger,
		fx.Provide(ParseEnv[E]()),
		fx.Provide(func(e E) Environment { return e }),
		fx.Provide(func(e E) (*zap.Logger, error) { return NewLogger(e) }),
		fx.Provide(NewBFaultLogger),
		fx.Provide(NewRegistry),
		fx.Provide(NewDispatcher),
		fx.Provide(NewMetricsRegistry),
		fx.Provide(func(reg *prom.Registry) *PrometheusObserver { return NewPrometheusObserver(reg) }),
		fx.Provide(NewMux),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		fx.Supply(cfg.ServerConfig),
		fx.Provide(NewServer),
		fx.Invoke(routing), // before the server registers its routes, so routing may call Use
		fx.Invoke(startServerHook),
	}...)

	return append(baseOpts, cfg.FxOptions...)
}

// Err returns an error that occurred while building the app's dependency graph.
func (a *App) Err() error {
	return a.app.Err()
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Start starts the application with the given context.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}
