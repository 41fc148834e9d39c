package article

import (
	"context"
	"net/http"

	"github.com/SergeyParamoshkin/sportsnews/internal/model"
	"github.com/go-chi/chi/v5"
)

type ctxKey int8

const ctxKeyArticle ctxKey = iota

// ArticleCtx middleware is used to load an Article object from
// the {slug} URL parameter. In case the Article could not be found,
// we stop here and return a 404.
func (h *Handler) ArticleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		article, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.errs.Respond(w, r, err)

			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyArticle, article)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func FromContext(ctx context.Context) (*model.Article, bool) {
	article, ok := ctx.Value(ctxKeyArticle).(*model.Article)

	return article, ok && article != nil
}
