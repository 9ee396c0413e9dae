package feedback

import "time"

// DefaultAckGraceDays is how long an unacknowledged feedback with no
// pending next-feedback date stays "Aguardando ciência" before it counts
// as overdue.
const DefaultAckGraceDays = 30

type StatusInput struct {
	CienciaColaborador  bool
	DataFeedback        time.Time
	DataProximoFeedback *time.Time
	// HasNewer is true when the collaborator already received a more
	// recent feedback; a passed next-feedback date then no longer makes
	// this record overdue.
	HasNewer bool
}

// DeriveStatus is the single source of truth for feedback status.
// Acknowledgement always wins; a missed next-feedback date or an
// acknowledgement outstanding past the grace period means overdue.
func DeriveStatus(in StatusInput, graceDays int, now time.Time) string {
	if in.CienciaColaborador {
		return StatusEmDia
	}
	if in.DataProximoFeedback != nil && in.DataProximoFeedback.Before(now) && !in.HasNewer {
		return StatusAtrasado
	}
	if graceDays <= 0 {
		graceDays = DefaultAckGraceDays
	}
	if now.After(in.DataFeedback.AddDate(0, 0, graceDays)) {
		return StatusAtrasado
	}
	return StatusAguardandoCiencia
}

// Overdue reports whether a feedback should be picked up by the
// overdue-notification sweep: next date missed, never acknowledged, and
// still the collaborator's latest feedback.
func Overdue(in StatusInput, now time.Time) bool {
	return !in.CienciaColaborador &&
		in.DataProximoFeedback != nil &&
		in.DataProximoFeedback.Before(now) &&
		!in.HasNewer
}
