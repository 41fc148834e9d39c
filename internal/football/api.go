package football

import (
	"net/http"

	"github.com/SergeyParamoshkin/sportsnews/internal/errresponse"
	"github.com/SergeyParamoshkin/sportsnews/internal/logging"
	"github.com/SergeyParamoshkin/sportsnews/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// MatchList renders as a bare JSON array.
type MatchList []model.Match

func (ml MatchList) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type StandingList []model.Standing

func (sl StandingList) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type LiveMatchResponse struct {
	*model.LiveMatch
}

func (lr *LiveMatchResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type MatchDetailResponse struct {
	Status string             `json:"status"`
	Data   *model.MatchDetail `json:"data"`
}

func (mr *MatchDetailResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type Handler struct {
	agg  *Aggregator
	errs *errresponse.Responder
}

func NewHandler(agg *Aggregator, errs *errresponse.Responder) *Handler {
	return &Handler{agg: agg, errs: errs}
}

func (h *Handler) MatchesToday(w http.ResponseWriter, r *http.Request) {
	matches, err := h.agg.MatchesToday(r.Context())
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	h.render(w, r, MatchList(matches))
}

func (h *Handler) MatchesWeek(w http.ResponseWriter, r *http.Request) {
	matches, err := h.agg.MatchesWeek(r.Context())
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	h.render(w, r, MatchList(matches))
}

func (h *Handler) LeagueTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.agg.LeagueTable(r.Context(), chi.URLParam(r, "league"))
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	h.render(w, r, StandingList(table))
}

func (h *Handler) LiveMatchEvents(w http.ResponseWriter, r *http.Request) {
	live, err := h.agg.LiveMatchEvents(r.Context(), chi.URLParam(r, "matchId"))
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	h.render(w, r, &LiveMatchResponse{LiveMatch: live})
}

func (h *Handler) MatchDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.agg.MatchDetail(r.Context(), chi.URLParam(r, "matchId"))
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	h.render(w, r, &MatchDetailResponse{Status: "success", Data: detail})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		logging.FromContext(r.Context()).Errorw("render response", "error", err)
	}
}
