package reports

import (
	"time"

	"feedbackhub/internal/domain/actionplan"
	"feedbackhub/internal/domain/feedback"
	"feedbackhub/internal/domain/identity"
)

type CollaboratorProfile struct {
	Usuario         identity.User       `json:"usuario"`
	Time            *identity.Team      `json:"time,omitempty"`
	Feedbacks       []feedback.Feedback `json:"feedbacks"`
	Planos          []actionplan.Plan   `json:"planos"`
	PontosFortes    []string            `json:"pontos_fortes_recorrentes"`
	PontosMelhoria  []string            `json:"pontos_melhoria_recorrentes"`
	TotalFeedbacks  int                 `json:"total_feedbacks"`
	PendenteCiencia int                 `json:"pendente_ciencia"`
	ProximoFeedback *time.Time          `json:"proximo_feedback"`
}
