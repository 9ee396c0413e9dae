package dashboardhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"feedbackhub/internal/domain/auth"
	"feedbackhub/internal/domain/dashboard"
	"feedbackhub/internal/requestctx"
	"feedbackhub/internal/transport/http/api"
	"feedbackhub/internal/transport/http/middleware"
)

type Handler struct {
	Dashboards *dashboard.Service
}

func NewHandler(dashboards *dashboard.Service) *Handler {
	return &Handler{Dashboards: dashboards}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.With(middleware.RequireAction(auth.ActionDashboardAdmin)).Get("/admin", h.HandleAdmin)
		r.With(middleware.RequireAction(auth.ActionDashboardGestor)).Get("/gestor", h.HandleGestor)
		r.Get("/colaborador", h.HandleColaborador)
	})
}

func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	d, err := h.Dashboards.Admin(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "dashboard failed", reqID)
		return
	}
	api.Success(w, d, reqID)
}

func (h *Handler) HandleGestor(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())

	d, err := h.Dashboards.Gestor(r.Context(), actor.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "dashboard failed", reqID)
		return
	}
	api.Success(w, d, reqID)
}

func (h *Handler) HandleColaborador(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())

	d, err := h.Dashboards.Colaborador(r.Context(), actor.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "dashboard failed", reqID)
		return
	}
	api.Success(w, d, reqID)
}
