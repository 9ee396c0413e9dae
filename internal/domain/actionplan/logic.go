package actionplan

import (
	"math"
	"time"
)

// Progress returns the completion percentage, rounded to the nearest
// integer. A plan with no items is at 0%.
func Progress(totalItems, doneItems int) int {
	if totalItems <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(doneItems) / float64(totalItems)))
}

type StatusInput struct {
	TotalItems   int
	DoneItems    int
	CheckinCount int
	PrazoFinal   time.Time
}

// DeriveStatus is the single source of truth for plan status. A complete
// plan is done regardless of deadline; a missed deadline otherwise wins;
// any progress or recorded check-in means the plan is underway.
func DeriveStatus(in StatusInput, now time.Time) string {
	pct := Progress(in.TotalItems, in.DoneItems)
	switch {
	case pct == 100:
		return StatusConcluido
	case in.PrazoFinal.Before(now):
		return StatusAtrasado
	case pct > 0 || in.CheckinCount > 0:
		return StatusEmAndamento
	default:
		return StatusNaoIniciado
	}
}
