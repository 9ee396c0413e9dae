package dashboard

import (
	"time"

	"feedbackhub/internal/domain/feedback"
)

type AdminDashboard struct {
	TotalUsuarios       int            `json:"total_usuarios"`
	TotalAdmins         int            `json:"total_admins"`
	TotalGestores       int            `json:"total_gestores"`
	TotalColaboradores  int            `json:"total_colaboradores"`
	TotalTimes          int            `json:"total_times"`
	TotalFeedbacks      int            `json:"total_feedbacks"`
	FeedbacksAtrasados  int            `json:"feedbacks_atrasados"`
	FeedbacksAguardando int            `json:"feedbacks_aguardando"`
	TotalPlanos         int            `json:"total_planos"`
	PlanosAtrasados     int            `json:"planos_atrasados"`
	PlanosConcluidos    int            `json:"planos_concluidos"`
	FeedbacksPorTipo    map[string]int `json:"feedbacks_por_tipo"`
}

type GestorDashboard struct {
	TotalColaboradores      int                 `json:"total_colaboradores"`
	FeedbacksAtrasados      int                 `json:"feedbacks_atrasados"`
	AguardandoCiencia       int                 `json:"aguardando_ciencia"`
	Feedbacks7Dias          int                 `json:"feedbacks_7_dias"`
	Feedbacks30Dias         int                 `json:"feedbacks_30_dias"`
	ColaboradoresSemFeedback int                `json:"colaboradores_sem_feedback"`
	PlanosAtrasados         int                 `json:"planos_atrasados"`
	RecentFeedbacks         []feedback.Feedback `json:"recent_feedbacks"`
}

type ColaboradorDashboard struct {
	TotalFeedbacks  int        `json:"total_feedbacks"`
	PendenteCiencia int        `json:"pendente_ciencia"`
	PlanosAtivos    int        `json:"planos_ativos"`
	PlanosAtrasados int        `json:"planos_atrasados"`
	ProximoFeedback *time.Time `json:"proximo_feedback"`
}
