package identityhandler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"feedbackhub/internal/domain/auth"
	"feedbackhub/internal/domain/identity"
	"feedbackhub/internal/requestctx"
	"feedbackhub/internal/transport/http/api"
	"feedbackhub/internal/transport/http/middleware"
	"feedbackhub/internal/transport/http/shared"
)

// Handler exposes the read-only user and team directory. Account
// administration happens outside this service.
type Handler struct {
	Users *identity.Store
}

func NewHandler(users *identity.Store) *Handler {
	return &Handler{Users: users}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.With(middleware.RequireAction(auth.ActionDirectoryRead)).Get("/users", h.HandleListUsers)
		r.With(middleware.RequireAction(auth.ActionDirectoryRead)).Get("/users/{id}", h.HandleGetUser)
		r.With(middleware.RequireAction(auth.ActionDirectoryRead)).Get("/teams", h.HandleListTeams)
		r.With(middleware.RequireAction(auth.ActionDirectoryRead)).Get("/teams/{id}", h.HandleGetTeam)
	})
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	q := r.URL.Query()
	v := shared.NewValidator()
	filter := identity.UserFilter{
		Papel:  q.Get("papel"),
		TimeID: q.Get("time_id"),
	}
	v.Enum("papel", filter.Papel, auth.Roles, "must be a valid role")
	if raw := q.Get("ativo"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			v.Add("ativo", "must be true or false")
		} else {
			filter.Ativo = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	users, err := h.Users.ListUsers(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "user list failed", reqID)
		return
	}
	api.Success(w, users, reqID)
}

func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	user, err := h.Users.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "user lookup failed", reqID)
		return
	}
	api.Success(w, user, reqID)
}

func (h *Handler) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	teams, err := h.Users.ListTeams(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "team list failed", reqID)
		return
	}
	api.Success(w, teams, reqID)
}

func (h *Handler) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	team, err := h.Users.GetTeam(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, identity.ErrTeamNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "team not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "team lookup failed", reqID)
		return
	}
	api.Success(w, team, reqID)
}
