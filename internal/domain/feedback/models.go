package feedback

import "time"

type Feedback struct {
	ID                  string     `json:"id"`
	ColaboradorID       string     `json:"colaborador_id"`
	ColaboradorNome     string     `json:"colaborador_nome,omitempty"`
	GestorID            string     `json:"gestor_id"`
	GestorNome          string     `json:"gestor_nome,omitempty"`
	DataFeedback        time.Time  `json:"data_feedback"`
	TipoFeedback        string     `json:"tipo_feedback"`
	Contexto            string     `json:"contexto"`
	Impacto             string     `json:"impacto"`
	Expectativa         string     `json:"expectativa"`
	PontosFortes        []string   `json:"pontos_fortes"`
	PontosMelhoria      []string   `json:"pontos_melhoria"`
	DataProximoFeedback *time.Time `json:"data_proximo_feedback"`
	StatusFeedback      string     `json:"status_feedback"`
	CienciaColaborador  bool       `json:"ciencia_colaborador"`
	DataCiencia         *time.Time `json:"data_ciencia"`
	Confidencial        bool       `json:"confidencial"`
	CriadoEm            time.Time  `json:"criado_em"`

	// HasNewer reports whether the collaborator has a more recent feedback;
	// it feeds status derivation and is not part of the wire format.
	HasNewer bool `json:"-"`
	HasPlan  bool `json:"-"`
}

type CreateInput struct {
	ColaboradorID       string
	GestorID            string
	TipoFeedback        string
	Contexto            string
	Impacto             string
	Expectativa         string
	PontosFortes        []string
	PontosMelhoria      []string
	DataProximoFeedback *time.Time
	Confidencial        bool
}

// UpdateInput carries partial content updates. Nil fields are untouched.
// Acknowledgement state and derived status are deliberately absent.
type UpdateInput struct {
	TipoFeedback        *string
	Contexto            *string
	Impacto             *string
	Expectativa         *string
	PontosFortes        []string
	PontosMelhoria      []string
	DataProximoFeedback *time.Time
	Confidencial        *bool
}

func (u UpdateInput) Empty() bool {
	return u.TipoFeedback == nil && u.Contexto == nil && u.Impacto == nil &&
		u.Expectativa == nil && u.PontosFortes == nil && u.PontosMelhoria == nil &&
		u.DataProximoFeedback == nil && u.Confidencial == nil
}

type ListQuery struct {
	ColaboradorID string
	GestorID      string
	TimeID        string
	Tipo          string
	Status        string
	DataInicio    *time.Time
	DataFim       *time.Time
	ComPlano      *bool
}
