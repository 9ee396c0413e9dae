package feedbackhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"feedbackhub/internal/domain/auth"
	"feedbackhub/internal/domain/feedback"
	"feedbackhub/internal/domain/identity"
	"feedbackhub/internal/domain/notifications"
	"feedbackhub/internal/requestctx"
	"feedbackhub/internal/transport/http/api"
	"feedbackhub/internal/transport/http/middleware"
	"feedbackhub/internal/transport/http/shared"
)

type Handler struct {
	Feedbacks   *feedback.Service
	Users       *identity.Store
	Notifier    *notifications.Service
	CadenceDays int
}

func NewHandler(feedbacks *feedback.Service, users *identity.Store, notifier *notifications.Service, cadenceDays int) *Handler {
	return &Handler{Feedbacks: feedbacks, Users: users, Notifier: notifier, CadenceDays: cadenceDays}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/feedbacks", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.With(middleware.RequireAction(auth.ActionFeedbackCreate)).Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Post("/{id}/acknowledge", h.HandleAcknowledge)
		r.Delete("/{id}", h.HandleDelete)
	})
}

type createRequest struct {
	ColaboradorID       string   `json:"colaborador_id"`
	GestorID            string   `json:"gestor_id"`
	TipoFeedback        string   `json:"tipo_feedback"`
	Contexto            string   `json:"contexto"`
	Impacto             string   `json:"impacto"`
	Expectativa         string   `json:"expectativa"`
	PontosFortes        []string `json:"pontos_fortes"`
	PontosMelhoria      []string `json:"pontos_melhoria"`
	DataProximoFeedback string   `json:"data_proximo_feedback"`
	Confidencial        bool     `json:"confidencial"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())

	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("colaborador_id", payload.ColaboradorID, "is required")
	v.Required("tipo_feedback", payload.TipoFeedback, "is required")
	v.Enum("tipo_feedback", payload.TipoFeedback, feedback.Tipos, "must be a valid feedback type")
	v.Required("contexto", payload.Contexto, "is required")
	v.Required("impacto", payload.Impacto, "is required")
	v.Required("expectativa", payload.Expectativa, "is required")

	var dataProximo *time.Time
	if payload.DataProximoFeedback != "" {
		if parsed, ok := v.Date("data_proximo_feedback", payload.DataProximoFeedback); ok {
			dataProximo = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	subject, err := h.Users.GetUser(r.Context(), payload.ColaboradorID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "collaborator not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "collaborator lookup failed", reqID)
		return
	}

	gestorID := actor.UserID
	if actor.Role == auth.RoleAdmin && payload.GestorID != "" {
		gestorID = payload.GestorID
	}

	if dataProximo == nil {
		next := time.Now().UTC().AddDate(0, 0, h.cadenceFor(r, subject.ID))
		dataProximo = &next
	}

	created, err := h.Feedbacks.Create(r.Context(), feedback.CreateInput{
		ColaboradorID:       subject.ID,
		GestorID:            gestorID,
		TipoFeedback:        payload.TipoFeedback,
		Contexto:            payload.Contexto,
		Impacto:             payload.Impacto,
		Expectativa:         payload.Expectativa,
		PontosFortes:        payload.PontosFortes,
		PontosMelhoria:      payload.PontosMelhoria,
		DataProximoFeedback: dataProximo,
		Confidencial:        payload.Confidencial,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "feedback create failed", reqID)
		return
	}

	titulo := "Novo feedback recebido"
	mensagem := fmt.Sprintf("Você recebeu um novo feedback de %s.", created.GestorNome)
	if err := h.Notifier.Notify(r.Context(), created.ColaboradorID, notifications.TipoNovoFeedback, titulo, mensagem, &created.ID); err != nil {
		slog.Warn("new feedback notification failed", "feedbackId", created.ID, "err", err)
	}

	api.Created(w, created, reqID)
}

func (h *Handler) cadenceFor(r *http.Request, userID string) int {
	days, err := h.Users.TeamCadenceDays(r.Context(), userID)
	if err != nil {
		slog.Warn("team cadence lookup failed", "userId", userID, "err", err)
	}
	if days <= 0 {
		days = h.CadenceDays
	}
	if days <= 0 {
		days = 30
	}
	return days
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())

	mode, viewerID, members, err := shared.ResolveScope(r.Context(), actor, h.Users)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "scope resolution failed", reqID)
		return
	}

	q := r.URL.Query()
	v := shared.NewValidator()
	query := feedback.ListQuery{
		ColaboradorID: q.Get("colaborador_id"),
		GestorID:      q.Get("gestor_id"),
		TimeID:        q.Get("time_id"),
		Tipo:          q.Get("tipo_feedback"),
		Status:        q.Get("status"),
	}
	v.Enum("tipo_feedback", query.Tipo, feedback.Tipos, "must be a valid feedback type")
	v.Enum("status", query.Status, feedback.Statuses, "must be a valid feedback status")
	if raw := q.Get("data_inicio"); raw != "" {
		if parsed, ok := v.Date("data_inicio", raw); ok {
			query.DataInicio = &parsed
		}
	}
	if raw := q.Get("data_fim"); raw != "" {
		if parsed, ok := v.Date("data_fim", raw); ok {
			query.DataFim = &parsed
		}
	}
	if raw := q.Get("com_plano"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			v.Add("com_plano", "must be true or false")
		} else {
			query.ComPlano = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	list, err := h.Feedbacks.List(r.Context(), feedback.Scope{Mode: mode, ViewerID: viewerID, MemberIDs: members}, query)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "feedback list failed", reqID)
		return
	}
	api.Success(w, list, reqID)
}

// load fetches the record and answers the policy question in one place.
func (h *Handler) load(w http.ResponseWriter, r *http.Request, action auth.Action) (feedback.Feedback, bool) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")

	f, err := h.Feedbacks.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, feedback.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "feedback not found", reqID)
			return feedback.Feedback{}, false
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "feedback lookup failed", reqID)
		return feedback.Feedback{}, false
	}

	res := auth.Resource{
		ColaboradorID: f.ColaboradorID,
		GestorID:      f.GestorID,
		Confidencial:  f.Confidencial,
	}
	if subject, err := h.Users.GetUser(r.Context(), f.ColaboradorID); err == nil && subject.GestorDiretoID != nil {
		res.GestorDiretoID = *subject.GestorDiretoID
	}

	if !auth.CanPerform(actor, action, res) {
		if auth.ConcealFrom(actor, res) {
			api.Fail(w, http.StatusNotFound, "not_found", "feedback not found", reqID)
			return feedback.Feedback{}, false
		}
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", reqID)
		return feedback.Feedback{}, false
	}
	return f, true
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	f, ok := h.load(w, r, auth.ActionFeedbackRead)
	if !ok {
		return
	}
	api.Success(w, f, requestctx.GetRequestID(r.Context()))
}

type updateRequest struct {
	TipoFeedback        *string  `json:"tipo_feedback"`
	Contexto            *string  `json:"contexto"`
	Impacto             *string  `json:"impacto"`
	Expectativa         *string  `json:"expectativa"`
	PontosFortes        []string `json:"pontos_fortes"`
	PontosMelhoria      []string `json:"pontos_melhoria"`
	DataProximoFeedback *string  `json:"data_proximo_feedback"`
	Confidencial        *bool    `json:"confidencial"`
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	f, ok := h.load(w, r, auth.ActionFeedbackUpdate)
	if !ok {
		return
	}

	var payload updateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	if payload.TipoFeedback != nil {
		v.Required("tipo_feedback", *payload.TipoFeedback, "must not be blank")
		v.Enum("tipo_feedback", *payload.TipoFeedback, feedback.Tipos, "must be a valid feedback type")
	}
	in := feedback.UpdateInput{
		TipoFeedback:   payload.TipoFeedback,
		Contexto:       payload.Contexto,
		Impacto:        payload.Impacto,
		Expectativa:    payload.Expectativa,
		PontosFortes:   payload.PontosFortes,
		PontosMelhoria: payload.PontosMelhoria,
		Confidencial:   payload.Confidencial,
	}
	if payload.DataProximoFeedback != nil {
		if parsed, ok := v.Date("data_proximo_feedback", *payload.DataProximoFeedback); ok {
			in.DataProximoFeedback = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	updated, err := h.Feedbacks.Update(r.Context(), f.ID, in)
	if err != nil {
		if errors.Is(err, feedback.ErrNoFields) {
			api.Fail(w, http.StatusBadRequest, "validation_error", "no fields to update", reqID)
			return
		}
		if errors.Is(err, feedback.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "feedback not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "feedback update failed", reqID)
		return
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) HandleAcknowledge(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	f, ok := h.load(w, r, auth.ActionFeedbackAcknowledge)
	if !ok {
		return
	}

	acked, err := h.Feedbacks.Acknowledge(r.Context(), f.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "acknowledge failed", reqID)
		return
	}
	api.Success(w, acked, reqID)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	f, ok := h.load(w, r, auth.ActionFeedbackDelete)
	if !ok {
		return
	}

	if err := h.Feedbacks.Delete(r.Context(), f.ID); err != nil {
		if errors.Is(err, feedback.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "feedback not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "feedback delete failed", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}
