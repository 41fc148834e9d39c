package article

import (
	"net/http"

	"github.com/SergeyParamoshkin/sportsnews/internal/articlerequest"
	"github.com/SergeyParamoshkin/sportsnews/internal/articleresponse"
	"github.com/SergeyParamoshkin/sportsnews/internal/auth"
	"github.com/SergeyParamoshkin/sportsnews/internal/errresponse"
	"github.com/SergeyParamoshkin/sportsnews/internal/logging"
	"github.com/SergeyParamoshkin/sportsnews/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type Handler struct {
	svc  *Service
	errs *errresponse.Responder
}

func NewHandler(svc *Service, errs *errresponse.Responder) *Handler {
	return &Handler{svc: svc, errs: errs}
}

// ListArticles returns one page of articles. category, istrending and
// isRecent filter exactly; search, sortBy, order, page and limit shape
// the page.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	filter := store.ArticleFilter{
		Category:   params.Get("category"),
		IsTrending: boolParam(params.Get("istrending")),
		IsRecent:   boolParam(params.Get("isRecent")),
	}

	page, err := h.svc.List(r.Context(), filter, params)
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	h.render(w, r, articleresponse.NewListResponse(page))
}

// CreateArticle persists the posted Article and returns it
// back to the client as an acknowledgement.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	data, err := articlerequest.Parse(w, r)
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}
	defer data.Close()

	article, err := h.svc.Create(r.Context(), auth.AdminFromContext(r.Context()), data)
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	logging.FromContext(r.Context()).Infow("article created", "article_id", article.ID, "slug", article.Slug)

	render.Status(r, http.StatusCreated)
	h.render(w, r, articleresponse.NewSingleResponse(article))
}

// GetArticle returns the Article ArticleCtx loaded.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, ok := FromContext(r.Context())
	if !ok {
		h.errs.Respond(w, r, ErrNotFound)

		return
	}

	h.render(w, r, articleresponse.NewSingleResponse(article))
}

// DeleteArticle removes an existing Article from our persistent store.
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	logging.FromContext(r.Context()).Infow("article deleted", "article_id", id)
	h.render(w, r, articleresponse.NewMessageResponse("Blog deleted successfully"))
}

func (h *Handler) TrendingAndRecent(w http.ResponseWriter, r *http.Request) {
	trending, recent, err := h.svc.TrendingAndRecent(r.Context())
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	h.render(w, r, articleresponse.NewTrendingResponse(trending, recent))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	h.render(w, r, articleresponse.StatsResponse(stats))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		logging.FromContext(r.Context()).Errorw("render response", "error", err)
	}
}

// boolParam follows the form rule: absent means no filter, anything but
// "true" means false.
func boolParam(v string) *bool {
	if v == "" {
		return nil
	}

	b := v == "true"

	return &b
}
