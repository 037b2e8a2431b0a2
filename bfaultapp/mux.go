package bfaultapp

import (
	"net/http"

	"github.com/advdv/bfault"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Mux is an alias for bfault.ServeMux.
type Mux = bfault.ServeMux

// NewRegistry builds the content handler registry from BF_MEDIA_TYPES and BF_ERROR_DETAILS.
func NewRegistry(env Environment) (*bfault.Registry, error) {
	var opts []bfault.HandlerOption
	if env.errorDetails() {
		opts = append(opts, bfault.WithErrorDetails())
	}

	return bfault.BuiltinRegistry(env.mediaTypes(), opts...)
}

// NewDispatcher creates the negotiator that renders every fault of the app.
func NewDispatcher(reg *bfault.Registry, logs bfault.Logger) bfault.Dispatcher {
	return bfault.NewNegotiator(reg, bfault.WithLogger(logs))
}

// MuxParams holds the dependencies for creating the mux.
type MuxParams struct {
	fx.In

	Env        Environment
	Logger     *zap.Logger
	Logs       bfault.Logger
	Dispatcher bfault.Dispatcher
	Metrics    *PrometheusObserver
}

// NewMux creates a new Mux whose handled faults are logged and counted.
func NewMux(p MuxParams) *Mux {
	return bfault.NewServeMuxWith(
		p.Env.bufferLimit(),
		p.Logs,
		http.NewServeMux(),
		p.Dispatcher,
		NewLogObserver(p.Logger),
		p.Metrics,
	)
}
