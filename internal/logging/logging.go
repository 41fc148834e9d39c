package logging

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type CtxKey int8

const (
	CtxKeyLogger CtxKey = iota
)

// New builds the process logger. Production gets JSON output at info level,
// everything else the human readable development encoder.
func New(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}

// Middleware puts a request scoped logger on the context, tagged with the
// request id when chi's RequestID middleware ran first.
func Middleware(base *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				logger = logger.With("request_id", reqID)
			}
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), logger)))
		})
	}
}

func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, CtxKeyLogger, logger)
}

// FromContext never returns nil.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(CtxKeyLogger).(*zap.SugaredLogger); ok && logger != nil {
		return logger
	}

	return zap.NewNop().Sugar()
}
