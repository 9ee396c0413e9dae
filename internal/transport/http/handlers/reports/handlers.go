package reportshandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"feedbackhub/internal/domain/auth"
	"feedbackhub/internal/domain/feedback"
	"feedbackhub/internal/domain/identity"
	"feedbackhub/internal/domain/reports"
	"feedbackhub/internal/requestctx"
	"feedbackhub/internal/transport/http/api"
	"feedbackhub/internal/transport/http/middleware"
	"feedbackhub/internal/transport/http/shared"
)

type Handler struct {
	Reports *reports.Service
	Users   *identity.Store
}

func NewHandler(reportsService *reports.Service, users *identity.Store) *Handler {
	return &Handler{Reports: reportsService, Users: users}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/collaborator-profile/{id}", h.HandleProfile)
		r.Get("/reports/collaborator/{id}/feedbacks.pdf", h.HandleFeedbackHistoryPDF)
	})
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (string, feedback.Scope, bool) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())
	subjectID := chi.URLParam(r, "id")

	if !auth.CanPerform(actor, auth.ActionProfileRead, auth.Resource{ColaboradorID: subjectID}) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", reqID)
		return "", feedback.Scope{}, false
	}

	mode, viewerID, members, err := shared.ResolveScope(r.Context(), actor, h.Users)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "scope resolution failed", reqID)
		return "", feedback.Scope{}, false
	}
	return subjectID, feedback.Scope{Mode: mode, ViewerID: viewerID, MemberIDs: members}, true
}

func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	subjectID, scope, ok := h.authorize(w, r)
	if !ok {
		return
	}

	profile, err := h.Reports.Profile(r.Context(), subjectID, scope)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "profile failed", reqID)
		return
	}
	api.Success(w, profile, reqID)
}

func (h *Handler) HandleFeedbackHistoryPDF(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	subjectID, scope, ok := h.authorize(w, r)
	if !ok {
		return
	}

	pdfBytes, err := h.Reports.FeedbackHistoryPDF(r.Context(), subjectID, scope)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "report failed", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="feedbacks.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}
