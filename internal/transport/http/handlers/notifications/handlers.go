package notificationshandler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"feedbackhub/internal/domain/auth"
	"feedbackhub/internal/domain/notifications"
	"feedbackhub/internal/platform/jobs"
	"feedbackhub/internal/requestctx"
	"feedbackhub/internal/transport/http/api"
	"feedbackhub/internal/transport/http/middleware"
	"feedbackhub/internal/transport/http/shared"
)

type Handler struct {
	Notifier *notifications.Service
	Jobs     *jobs.Service
}

func NewHandler(notifier *notifications.Service, jobService *jobs.Service) *Handler {
	return &Handler{Notifier: notifier, Jobs: jobService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.HandleList)
		r.Get("/unread-count", h.HandleUnreadCount)
		r.Put("/{id}/read", h.HandleMarkRead)
		r.Put("/read-all", h.HandleMarkAllRead)
		r.With(middleware.RequireAction(auth.ActionSweepRun)).Post("/check-overdue", h.HandleCheckOverdue)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())

	onlyUnread := false
	if raw := r.URL.Query().Get("lida"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil && !parsed {
			onlyUnread = true
		}
	}
	limit := shared.ParseLimit(r, 50, 200)

	list, err := h.Notifier.List(r.Context(), actor.UserID, onlyUnread, limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "notification list failed", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())

	count, err := h.Notifier.UnreadCount(r.Context(), actor.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unread count failed", reqID)
		return
	}
	api.Success(w, map[string]int{"unread": count}, reqID)
}

func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())

	err := h.Notifier.MarkRead(r.Context(), actor.UserID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, notifications.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "notification not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "mark read failed", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "read"}, reqID)
}

func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())

	updated, err := h.Notifier.MarkAllRead(r.Context(), actor.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "mark all read failed", reqID)
		return
	}
	api.Success(w, map[string]int{"updated": updated}, reqID)
}

// HandleCheckOverdue runs the sweep synchronously so the caller sees the
// counts. A second run inside the dedup window reports zeros.
func (h *Handler) HandleCheckOverdue(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	result, err := h.Jobs.RunSweep(r.Context(), jobs.TriggerManual)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "sweep failed", reqID)
		return
	}
	api.Success(w, map[string]any{"notifications_sent": result}, reqID)
}
