package actionplan

const (
	StatusNaoIniciado = "Não iniciado"
	StatusEmAndamento = "Em andamento"
	StatusConcluido   = "Concluído"
	StatusAtrasado    = "Atrasado"

	ResponsavelColaborador = "Colaborador"
	ResponsavelGestor      = "Gestor"
	ResponsavelAmbos       = "Ambos"

	ProgressoRuim    = "Ruim"
	ProgressoRegular = "Regular"
	ProgressoBom     = "Bom"
)

var Statuses = []string{StatusNaoIniciado, StatusEmAndamento, StatusConcluido, StatusAtrasado}

var Responsaveis = []string{ResponsavelColaborador, ResponsavelGestor, ResponsavelAmbos}

var Progressos = []string{ProgressoRuim, ProgressoRegular, ProgressoBom}
