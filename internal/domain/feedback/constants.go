package feedback

const (
	TipoUmAUm        = "1:1"
	TipoAvaliacao    = "Avaliação de Desempenho"
	TipoCoaching     = "Coaching"
	TipoCorrecaoRota = "Correção de Rota"
	TipoElogio       = "Elogio"

	StatusEmDia             = "Em dia"
	StatusAguardandoCiencia = "Aguardando ciência"
	StatusAtrasado          = "Atrasado"
)

var Tipos = []string{TipoUmAUm, TipoAvaliacao, TipoCoaching, TipoCorrecaoRota, TipoElogio}

var Statuses = []string{StatusEmDia, StatusAguardandoCiencia, StatusAtrasado}
