package actionplan

import "time"

type Plan struct {
	ID                  string    `json:"id"`
	FeedbackID          string    `json:"feedback_id"`
	Objetivo            string    `json:"objetivo"`
	PrazoFinal          time.Time `json:"prazo_final"`
	Responsavel         string    `json:"responsavel"`
	Status              string    `json:"status"`
	ProgressoPercentual int       `json:"progresso_percentual"`
	CriadoEm            time.Time `json:"criado_em"`

	// Ownership facts for policy decisions; not part of the wire format.
	ColaboradorID string `json:"-"`
	GestorID      string `json:"-"`
	Confidencial  bool   `json:"-"`

	TotalItens      int `json:"-"`
	ItensConcluidos int `json:"-"`
	CheckinCount    int `json:"-"`
}

type Item struct {
	ID            string     `json:"id"`
	PlanoDeAcaoID string     `json:"plano_de_acao_id"`
	Descricao     string     `json:"descricao"`
	PrazoItem     *time.Time `json:"prazo_item"`
	Concluido     bool       `json:"concluido"`
}

type Checkin struct {
	ID               string    `json:"id"`
	PlanoDeAcaoID    string    `json:"plano_de_acao_id"`
	DataCheckin      time.Time `json:"data_checkin"`
	Progresso        string    `json:"progresso"`
	Comentario       string    `json:"comentario"`
	RegistradoPorID  string    `json:"registrado_por_id"`
	RegistradoPorNome string   `json:"registrado_por_nome,omitempty"`
}

type CreatePlanInput struct {
	FeedbackID  string
	Objetivo    string
	PrazoFinal  time.Time
	Responsavel string
}

// UpdatePlanInput carries partial updates; derived status and percentage
// are never accepted from clients.
type UpdatePlanInput struct {
	Objetivo    *string
	PrazoFinal  *time.Time
	Responsavel *string
}

func (u UpdatePlanInput) Empty() bool {
	return u.Objetivo == nil && u.PrazoFinal == nil && u.Responsavel == nil
}

type UpdateItemInput struct {
	Descricao *string
	PrazoItem *time.Time
	Concluido *bool
}

func (u UpdateItemInput) Empty() bool {
	return u.Descricao == nil && u.PrazoItem == nil && u.Concluido == nil
}

type ListQuery struct {
	FeedbackID  string
	Status      string
	Responsavel string
}
