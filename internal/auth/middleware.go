package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/sportsnews/internal/logging"
	"github.com/SergeyParamoshkin/sportsnews/internal/model"
)

type ctxKey int8

const ctxKeyAdmin ctxKey = iota

func WithAdmin(ctx context.Context, admin *model.Admin) context.Context {
	return context.WithValue(ctx, ctxKeyAdmin, admin)
}

// AdminFromContext returns the admin Protect attached, or nil.
func AdminFromContext(ctx context.Context) *model.Admin {
	admin, _ := ctx.Value(ctxKeyAdmin).(*model.Admin)

	return admin
}

// Protect only lets requests through that carry a valid session token in
// the jwt cookie or a Bearer header. The cookie is tried first; a Bearer
// token still gets in when the cookie is stale. The resolved admin goes on
// the context.
func (h *Handler) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, err := h.authenticate(r)
		if err != nil {
			h.errs.Respond(w, r, err)

			return
		}

		ctx := WithAdmin(r.Context(), admin)
		ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With("admin_id", admin.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate returns the first admin a candidate token resolves to, or
// the error of the first candidate.
func (h *Handler) authenticate(r *http.Request) (*model.Admin, error) {
	tokens := tokensFromRequest(r)
	if len(tokens) == 0 {
		return h.svc.Authenticate(r.Context(), "")
	}

	var firstErr error
	for _, token := range tokens {
		admin, err := h.svc.Authenticate(r.Context(), token)
		if err == nil {
			return admin, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return nil, firstErr
}

func tokensFromRequest(r *http.Request) []string {
	var tokens []string
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		tokens = append(tokens, c.Value)
	}

	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if token = strings.TrimSpace(token); ok && strings.EqualFold(scheme, "Bearer") && token != "" {
		tokens = append(tokens, token)
	}

	return tokens
}
