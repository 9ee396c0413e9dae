package notifications

const (
	TipoNovoFeedback     = "novo_feedback"
	TipoNovoPlano        = "novo_plano"
	TipoFeedbackAtrasado = "feedback_atrasado"
	TipoPrazoProximo     = "prazo_proximo"
)
