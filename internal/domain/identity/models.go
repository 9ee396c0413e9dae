package identity

import "time"

type User struct {
	ID             string    `json:"id"`
	Nome           string    `json:"nome"`
	Email          string    `json:"email"`
	Papel          string    `json:"papel"`
	TimeID         *string   `json:"time_id"`
	GestorDiretoID *string   `json:"gestor_direto_id"`
	Ativo          bool      `json:"ativo"`
	CriadoEm       time.Time `json:"criado_em"`
}

type Team struct {
	ID                  string    `json:"id"`
	Nome                string    `json:"nome"`
	Empresa             string    `json:"empresa"`
	FrequenciaPadraoDias int      `json:"frequencia_padrao_feedback_dias"`
	Descricao           *string   `json:"descricao"`
	CriadoEm            time.Time `json:"criado_em"`
}

type UserFilter struct {
	Papel  string
	TimeID string
	Ativo  *bool
}
