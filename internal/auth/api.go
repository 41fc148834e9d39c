package auth

import (
	"net/http"
	"time"

	"github.com/SergeyParamoshkin/sportsnews/internal/adminpayload"
	"github.com/SergeyParamoshkin/sportsnews/internal/errresponse"
	"github.com/SergeyParamoshkin/sportsnews/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Handler serves the /auth routes and the Protect gate.
type Handler struct {
	svc     *Service
	cookies CookiePolicy
	errs    *errresponse.Responder
	now     func() time.Time
}

func NewHandler(svc *Service, cookies CookiePolicy, errs *errresponse.Responder) *Handler {
	return &Handler{svc: svc, cookies: cookies, errs: errs, now: time.Now}
}

// Signup creates an admin and answers 201 without logging it in.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	data, err := bindCredentials(r)
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	admin, err := h.svc.Signup(r.Context(), data.Username, data.Password)
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	logging.FromContext(r.Context()).Infow("admin created", "admin_id", admin.ID)

	h.render(w, r, &SignupResponse{
		Status:  statusSuccess,
		Message: "Admin created successfully",
		Data:    SignupData{ID: admin.ID, UserName: admin.Username, Avatar: admin.Avatar},
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	data, err := bindCredentials(r)
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	admin, token, err := h.svc.Login(r.Context(), data.Username, data.Password)
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	http.SetCookie(w, h.cookies.Session(token, h.now()))
	h.render(w, r, &LoginResponse{
		Status: statusSuccess,
		Token:  token,
		Data:   AdminData{Admin: adminpayload.NewAdminPayload(admin)},
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookies.Cleared())
	h.render(w, r, &LogoutResponse{Status: statusSuccess, Message: "Logged out"})
}

// Me returns the caller. Must run behind Protect.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	caller := AdminFromContext(r.Context())
	if caller == nil {
		h.errs.Respond(w, r, ErrNotLoggedIn)

		return
	}

	admin, err := h.svc.Get(r.Context(), caller.ID)
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	h.render(w, r, &MeResponse{Admin: adminpayload.NewAdminPayload(admin)})
}

func (h *Handler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, total, err := h.svc.List(r.Context())
	if err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	h.render(w, r, &AdminListResponse{
		Status:     statusSuccess,
		Results:    len(admins),
		TotalItems: total,
		Data:       UsersData{Users: adminpayload.NewAdminListPayload(admins)},
	})
}

func (h *Handler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.errs.Respond(w, r, err)

		return
	}

	logging.FromContext(r.Context()).Infow("admin deleted", "deleted_id", id)
	render.NoContent(w, r)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		logging.FromContext(r.Context()).Errorw("render response", "error", err)
	}
}
