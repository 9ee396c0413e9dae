package actionplanhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"feedbackhub/internal/domain/actionplan"
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
	Plans     *actionplan.Service
	Feedbacks *feedback.Service
	Users     *identity.Store
	Notifier  *notifications.Service
}

func NewHandler(plans *actionplan.Service, feedbacks *feedback.Service, users *identity.Store, notifier *notifications.Service) *Handler {
	return &Handler{Plans: plans, Feedbacks: feedbacks, Users: users, Notifier: notifier}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/action-plans", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.With(middleware.RequireAction(auth.ActionPlanManage)).Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
	r.Route("/action-plan-items", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Post("/", h.HandleAddItem)
		r.Get("/", h.HandleListItems)
		r.Put("/{id}", h.HandleUpdateItem)
		r.Delete("/{id}", h.HandleDeleteItem)
	})
	r.Route("/checkins", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Post("/", h.HandleAddCheckin)
		r.Get("/", h.HandleListCheckins)
	})
}

func (h *Handler) resource(r *http.Request, colaboradorID, gestorID string, confidencial bool) auth.Resource {
	res := auth.Resource{
		ColaboradorID: colaboradorID,
		GestorID:      gestorID,
		Confidencial:  confidencial,
	}
	if subject, err := h.Users.GetUser(r.Context(), colaboradorID); err == nil && subject.GestorDiretoID != nil {
		res.GestorDiretoID = *subject.GestorDiretoID
	}
	return res
}

// loadPlan fetches the plan and answers the policy question in one place.
func (h *Handler) loadPlan(w http.ResponseWriter, r *http.Request, planID string, action auth.Action) (actionplan.Plan, bool) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())

	p, err := h.Plans.GetPlan(r.Context(), planID)
	if err != nil {
		if errors.Is(err, actionplan.ErrPlanNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "action plan not found", reqID)
			return actionplan.Plan{}, false
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "action plan lookup failed", reqID)
		return actionplan.Plan{}, false
	}

	res := h.resource(r, p.ColaboradorID, p.GestorID, p.Confidencial)
	if !auth.CanPerform(actor, action, res) {
		if auth.ConcealFrom(actor, res) {
			api.Fail(w, http.StatusNotFound, "not_found", "action plan not found", reqID)
			return actionplan.Plan{}, false
		}
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", reqID)
		return actionplan.Plan{}, false
	}
	if action == auth.ActionPlanManage && !auth.CanPerform(actor, auth.ActionPlanRead, res) {
		if auth.ConcealFrom(actor, res) {
			api.Fail(w, http.StatusNotFound, "not_found", "action plan not found", reqID)
			return actionplan.Plan{}, false
		}
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", reqID)
		return actionplan.Plan{}, false
	}
	return p, true
}

type createPlanRequest struct {
	FeedbackID  string `json:"feedback_id"`
	Objetivo    string `json:"objetivo"`
	PrazoFinal  string `json:"prazo_final"`
	Responsavel string `json:"responsavel"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())

	var payload createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("feedback_id", payload.FeedbackID, "is required")
	v.Required("objetivo", payload.Objetivo, "is required")
	v.Required("prazo_final", payload.PrazoFinal, "is required")
	v.Required("responsavel", payload.Responsavel, "is required")
	v.Enum("responsavel", payload.Responsavel, actionplan.Responsaveis, "must be a valid responsible party")
	prazo, _ := v.Date("prazo_final", payload.PrazoFinal)
	if v.Reject(w, reqID) {
		return
	}

	parent, err := h.Feedbacks.Get(r.Context(), payload.FeedbackID)
	if err != nil {
		if errors.Is(err, feedback.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "feedback not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "feedback lookup failed", reqID)
		return
	}

	res := h.resource(r, parent.ColaboradorID, parent.GestorID, parent.Confidencial)
	if !auth.CanPerform(actor, auth.ActionPlanRead, res) {
		if auth.ConcealFrom(actor, res) {
			api.Fail(w, http.StatusNotFound, "not_found", "feedback not found", reqID)
			return
		}
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", reqID)
		return
	}

	plan, err := h.Plans.CreatePlan(r.Context(), actionplan.CreatePlanInput{
		FeedbackID:  parent.ID,
		Objetivo:    payload.Objetivo,
		PrazoFinal:  prazo,
		Responsavel: payload.Responsavel,
	})
	if err != nil {
		if errors.Is(err, actionplan.ErrDeadlineInPast) {
			shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "prazo_final", Reason: "must not be in the past"}})
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "action plan create failed", reqID)
		return
	}

	titulo := "Novo plano de ação"
	mensagem := fmt.Sprintf("Um plano de ação foi criado para você: %s.", plan.Objetivo)
	if err := h.Notifier.Notify(r.Context(), parent.ColaboradorID, notifications.TipoNovoPlano, titulo, mensagem, &plan.ID); err != nil {
		slog.Warn("new plan notification failed", "planId", plan.ID, "err", err)
	}

	api.Created(w, plan, reqID)
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
	query := actionplan.ListQuery{
		FeedbackID:  q.Get("feedback_id"),
		Status:      q.Get("status"),
		Responsavel: q.Get("responsavel"),
	}
	v.Enum("status", query.Status, actionplan.Statuses, "must be a valid plan status")
	v.Enum("responsavel", query.Responsavel, actionplan.Responsaveis, "must be a valid responsible party")
	if v.Reject(w, reqID) {
		return
	}

	plans, err := h.Plans.ListPlans(r.Context(), actionplan.Scope{Mode: mode, ViewerID: viewerID, MemberIDs: members}, query)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "action plan list failed", reqID)
		return
	}
	api.Success(w, plans, reqID)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPlan(w, r, chi.URLParam(r, "id"), auth.ActionPlanRead)
	if !ok {
		return
	}
	api.Success(w, p, requestctx.GetRequestID(r.Context()))
}

type updatePlanRequest struct {
	Objetivo    *string `json:"objetivo"`
	PrazoFinal  *string `json:"prazo_final"`
	Responsavel *string `json:"responsavel"`
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	p, ok := h.loadPlan(w, r, chi.URLParam(r, "id"), auth.ActionPlanManage)
	if !ok {
		return
	}

	var payload updatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	in := actionplan.UpdatePlanInput{
		Objetivo:    payload.Objetivo,
		Responsavel: payload.Responsavel,
	}
	if payload.Responsavel != nil {
		v.Enum("responsavel", *payload.Responsavel, actionplan.Responsaveis, "must be a valid responsible party")
	}
	if payload.PrazoFinal != nil {
		if parsed, ok := v.Date("prazo_final", *payload.PrazoFinal); ok {
			in.PrazoFinal = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	updated, err := h.Plans.UpdatePlan(r.Context(), p.ID, in)
	if err != nil {
		if errors.Is(err, actionplan.ErrNoFields) {
			api.Fail(w, http.StatusBadRequest, "validation_error", "no fields to update", reqID)
			return
		}
		if errors.Is(err, actionplan.ErrPlanNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "action plan not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "action plan update failed", reqID)
		return
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	p, ok := h.loadPlan(w, r, chi.URLParam(r, "id"), auth.ActionPlanManage)
	if !ok {
		return
	}

	if err := h.Plans.DeletePlan(r.Context(), p.ID); err != nil {
		if errors.Is(err, actionplan.ErrPlanNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "action plan not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "action plan delete failed", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}

type itemRequest struct {
	PlanoDeAcaoID string  `json:"plano_de_acao_id"`
	Descricao     string  `json:"descricao"`
	PrazoItem     *string `json:"prazo_item"`
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload itemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("plano_de_acao_id", payload.PlanoDeAcaoID, "is required")
	v.Required("descricao", payload.Descricao, "is required")
	var prazoItem *time.Time
	if payload.PrazoItem != nil && *payload.PrazoItem != "" {
		if parsed, ok := v.Date("prazo_item", *payload.PrazoItem); ok {
			prazoItem = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	p, ok := h.loadPlan(w, r, payload.PlanoDeAcaoID, auth.ActionItemWrite)
	if !ok {
		return
	}

	item, err := h.Plans.AddItem(r.Context(), p.ID, payload.Descricao, prazoItem)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "item create failed", reqID)
		return
	}
	api.Created(w, item, reqID)
}

func (h *Handler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	planID := r.URL.Query().Get("plano_de_acao_id")
	if planID == "" {
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "plano_de_acao_id", Reason: "is required"}})
		return
	}

	p, ok := h.loadPlan(w, r, planID, auth.ActionPlanRead)
	if !ok {
		return
	}

	items, err := h.Plans.ListItems(r.Context(), p.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "item list failed", reqID)
		return
	}
	api.Success(w, items, reqID)
}

// loadItem resolves the item's parent plan and authorizes against it.
func (h *Handler) loadItem(w http.ResponseWriter, r *http.Request, action auth.Action) (actionplan.Item, bool) {
	reqID := requestctx.GetRequestID(r.Context())

	it, err := h.Plans.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, actionplan.ErrItemNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "item not found", reqID)
			return actionplan.Item{}, false
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "item lookup failed", reqID)
		return actionplan.Item{}, false
	}
	if _, ok := h.loadPlan(w, r, it.PlanoDeAcaoID, action); !ok {
		return actionplan.Item{}, false
	}
	return it, true
}

type updateItemRequest struct {
	Descricao *string `json:"descricao"`
	PrazoItem *string `json:"prazo_item"`
	Concluido *bool   `json:"concluido"`
}

func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	it, ok := h.loadItem(w, r, auth.ActionItemWrite)
	if !ok {
		return
	}

	var payload updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	in := actionplan.UpdateItemInput{
		Descricao: payload.Descricao,
		Concluido: payload.Concluido,
	}
	if payload.PrazoItem != nil {
		if parsed, ok := v.Date("prazo_item", *payload.PrazoItem); ok {
			in.PrazoItem = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	item, plan, err := h.Plans.UpdateItem(r.Context(), it.ID, in)
	if err != nil {
		if errors.Is(err, actionplan.ErrNoFields) {
			api.Fail(w, http.StatusBadRequest, "validation_error", "no fields to update", reqID)
			return
		}
		if errors.Is(err, actionplan.ErrItemNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "item not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "item update failed", reqID)
		return
	}
	api.Success(w, map[string]any{"item": item, "plano": plan}, reqID)
}

func (h *Handler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	it, ok := h.loadItem(w, r, auth.ActionItemWrite)
	if !ok {
		return
	}

	plan, err := h.Plans.DeleteItem(r.Context(), it.ID)
	if err != nil {
		if errors.Is(err, actionplan.ErrItemNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "item not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "item delete failed", reqID)
		return
	}
	api.Success(w, map[string]any{"status": "deleted", "plano": plan}, reqID)
}

type checkinRequest struct {
	PlanoDeAcaoID string `json:"plano_de_acao_id"`
	Progresso     string `json:"progresso"`
	Comentario    string `json:"comentario"`
}

func (h *Handler) HandleAddCheckin(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetUser(r.Context())

	var payload checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("plano_de_acao_id", payload.PlanoDeAcaoID, "is required")
	v.Required("progresso", payload.Progresso, "is required")
	v.Enum("progresso", payload.Progresso, actionplan.Progressos, "must be a valid progress rating")
	v.Required("comentario", payload.Comentario, "is required")
	if v.Reject(w, reqID) {
		return
	}

	p, ok := h.loadPlan(w, r, payload.PlanoDeAcaoID, auth.ActionCheckinCreate)
	if !ok {
		return
	}

	checkin, err := h.Plans.AddCheckin(r.Context(), p.ID, payload.Progresso, payload.Comentario, actor.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "checkin create failed", reqID)
		return
	}
	api.Created(w, checkin, reqID)
}

func (h *Handler) HandleListCheckins(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	planID := r.URL.Query().Get("plano_de_acao_id")
	if planID == "" {
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "plano_de_acao_id", Reason: "is required"}})
		return
	}

	p, ok := h.loadPlan(w, r, planID, auth.ActionPlanRead)
	if !ok {
		return
	}

	checkins, err := h.Plans.ListCheckins(r.Context(), p.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "checkin list failed", reqID)
		return
	}
	api.Success(w, checkins, reqID)
}
