package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"feedbackhub/internal/domain/auth"
	"feedbackhub/internal/domain/identity"
	"feedbackhub/internal/requestctx"
	"feedbackhub/internal/transport/http/api"
	"feedbackhub/internal/transport/http/middleware"
)

type Handler struct {
	Users    *identity.Store
	Secret   string
	TokenTTL time.Duration
}

func NewHandler(users *identity.Store, secret string, tokenTTL time.Duration) *Handler {
	return &Handler{Users: users, Secret: secret, TokenTTL: tokenTTL}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	user, hash, err := h.Users.CredentialsByEmail(r.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "login failed", requestctx.GetRequestID(r.Context()))
		return
	}
	if !user.Ativo {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := auth.CheckPassword(hash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: user.ID, Email: user.Email, Role: user.Papel}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestctx.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"usuario":      user,
	}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	full, err := h.Users.GetUser(r.Context(), user.UserID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "lookup failed", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, full, requestctx.GetRequestID(r.Context()))
}
