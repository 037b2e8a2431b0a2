// Package example implements example middleware in an outside package.
package example

import (
	"context"
	"net/http"

	"github.com/advdv/bfault"
	"go.uber.org/zap"
)

// ctxKey type scopes middleware values.
type ctxKey string

// Middleware provides an example for middleware that adds a request scoped logger to the context
// and logs every error that passes through it before it is negotiated.
func Middleware(logs *zap.Logger) bfault.Middleware {
	return func(n bfault.Handler) bfault.Handler {
		return bfault.HandlerFunc(func(w bfault.ResponseWriter, r *http.Request) error {
			logs := logs.With(zap.String("method", r.Method), zap.String("path", r.URL.Path))
			r = r.WithContext(context.WithValue(r.Context(), ctxKey("zap"), logs))

			err := n.ServeBFault(w, r)
			if err != nil {
				logs.Info("handler returned error", zap.Error(err))
			}

			return err
		})
	}
}

// Log returns the logger that [Middleware] stored in the context, or a no-op logger.
func Log(ctx context.Context) *zap.Logger {
	if v, ok := ctx.Value(ctxKey("zap")).(*zap.Logger); ok {
		return v
	}

	return zap.NewNop()
}
