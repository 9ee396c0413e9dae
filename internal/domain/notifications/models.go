package notifications

import "time"

type Notification struct {
	ID        string    `json:"id"`
	UsuarioID string    `json:"usuario_id"`
	Tipo      string    `json:"tipo"`
	Titulo    string    `json:"titulo"`
	Mensagem  string    `json:"mensagem"`
	OrigemID  *string   `json:"origem_id,omitempty"`
	Lida      bool      `json:"lida"`
	CriadoEm  time.Time `json:"criado_em"`
}
