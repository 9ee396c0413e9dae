package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"feedbackhub/internal/domain/actionplan"
	"feedbackhub/internal/domain/auth"
	"feedbackhub/internal/domain/feedback"
	"feedbackhub/internal/domain/identity"
)

// Service assembles the role dashboards. All status figures come from the
// same derivation functions the list endpoints use, so the numbers here
// always agree with what a drill-down would show.
type Service struct {
	DB        *pgxpool.Pool
	Feedbacks *feedback.Service
	Plans     *actionplan.Service
	Users     *identity.Store
}

func New(db *pgxpool.Pool, feedbacks *feedback.Service, plans *actionplan.Service, users *identity.Store) *Service {
	return &Service{DB: db, Feedbacks: feedbacks, Plans: plans, Users: users}
}

func (s *Service) Admin(ctx context.Context) (AdminDashboard, error) {
	var d AdminDashboard

	rows, err := s.DB.Query(ctx, `SELECT papel, COUNT(1) FROM usuarios WHERE ativo GROUP BY papel`)
	if err != nil {
		return d, err
	}
	defer rows.Close()
	for rows.Next() {
		var papel string
		var count int
		if err := rows.Scan(&papel, &count); err != nil {
			return d, err
		}
		d.TotalUsuarios += count
		switch papel {
		case auth.RoleAdmin:
			d.TotalAdmins = count
		case auth.RoleGestor:
			d.TotalGestores = count
		case auth.RoleColaborador:
			d.TotalColaboradores = count
		}
	}
	if err := rows.Err(); err != nil {
		return d, err
	}

	if err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM times`).Scan(&d.TotalTimes); err != nil {
		return d, err
	}

	fbs, err := s.Feedbacks.List(ctx, feedback.Scope{Mode: feedback.ScopeAll}, feedback.ListQuery{})
	if err != nil {
		return d, err
	}
	d.TotalFeedbacks = len(fbs)
	d.FeedbacksPorTipo = make(map[string]int, len(feedback.Tipos))
	for _, f := range fbs {
		d.FeedbacksPorTipo[f.TipoFeedback]++
		switch f.StatusFeedback {
		case feedback.StatusAtrasado:
			d.FeedbacksAtrasados++
		case feedback.StatusAguardandoCiencia:
			d.FeedbacksAguardando++
		}
	}

	plans, err := s.Plans.ListPlans(ctx, actionplan.Scope{Mode: actionplan.ScopeAll}, actionplan.ListQuery{})
	if err != nil {
		return d, err
	}
	d.TotalPlanos = len(plans)
	for _, p := range plans {
		switch p.Status {
		case actionplan.StatusAtrasado:
			d.PlanosAtrasados++
		case actionplan.StatusConcluido:
			d.PlanosConcluidos++
		}
	}

	return d, nil
}

// staleFeedbackWindowDays is how long a collaborator may go without any
// feedback before the gestor dashboard flags them.
const staleFeedbackWindowDays = 90

// CountWithoutRecentFeedback counts members whose most recent feedback is
// older than the stale window (or who never received one).
func CountWithoutRecentFeedback(members []string, fbs []feedback.Feedback, now time.Time) int {
	cutoff := now.AddDate(0, 0, -staleFeedbackWindowDays)
	recent := make(map[string]bool, len(members))
	for _, f := range fbs {
		if !f.DataFeedback.Before(cutoff) {
			recent[f.ColaboradorID] = true
		}
	}
	count := 0
	for _, id := range members {
		if !recent[id] {
			count++
		}
	}
	return count
}

func (s *Service) Gestor(ctx context.Context, gestorID string) (GestorDashboard, error) {
	var d GestorDashboard

	members, err := s.Users.DirectReportIDs(ctx, gestorID)
	if err != nil {
		return d, err
	}
	d.TotalColaboradores = len(members)

	scope := feedback.Scope{Mode: feedback.ScopeGestor, ViewerID: gestorID, MemberIDs: members}
	fbs, err := s.Feedbacks.List(ctx, scope, feedback.ListQuery{})
	if err != nil {
		return d, err
	}

	now := time.Now().UTC()
	in7 := now.AddDate(0, 0, 7)
	in30 := now.AddDate(0, 0, 30)
	for _, f := range fbs {
		switch f.StatusFeedback {
		case feedback.StatusAtrasado:
			d.FeedbacksAtrasados++
		case feedback.StatusAguardandoCiencia:
			d.AguardandoCiencia++
		}
		// Only the collaborator's latest feedback carries the pending
		// next-feedback commitment.
		if f.HasNewer || f.DataProximoFeedback == nil {
			continue
		}
		next := *f.DataProximoFeedback
		if !next.Before(now) && !next.After(in7) {
			d.Feedbacks7Dias++
		}
		if !next.Before(now) && !next.After(in30) {
			d.Feedbacks30Dias++
		}
	}
	d.ColaboradoresSemFeedback = CountWithoutRecentFeedback(members, fbs, now)

	if len(fbs) > 5 {
		d.RecentFeedbacks = fbs[:5]
	} else {
		d.RecentFeedbacks = fbs
	}

	planScope := actionplan.Scope{Mode: actionplan.ScopeGestor, ViewerID: gestorID, MemberIDs: members}
	plans, err := s.Plans.ListPlans(ctx, planScope, actionplan.ListQuery{})
	if err != nil {
		return d, err
	}
	for _, p := range plans {
		if p.Status == actionplan.StatusAtrasado {
			d.PlanosAtrasados++
		}
	}

	return d, nil
}

func (s *Service) Colaborador(ctx context.Context, userID string) (ColaboradorDashboard, error) {
	var d ColaboradorDashboard

	scope := feedback.Scope{Mode: feedback.ScopeColaborador, ViewerID: userID}
	fbs, err := s.Feedbacks.List(ctx, scope, feedback.ListQuery{})
	if err != nil {
		return d, err
	}
	d.TotalFeedbacks = len(fbs)

	now := time.Now().UTC()
	for _, f := range fbs {
		if !f.CienciaColaborador {
			d.PendenteCiencia++
		}
		if f.HasNewer || f.DataProximoFeedback == nil || f.DataProximoFeedback.Before(now) {
			continue
		}
		if d.ProximoFeedback == nil || f.DataProximoFeedback.Before(*d.ProximoFeedback) {
			next := *f.DataProximoFeedback
			d.ProximoFeedback = &next
		}
	}

	planScope := actionplan.Scope{Mode: actionplan.ScopeColaborador, ViewerID: userID}
	plans, err := s.Plans.ListPlans(ctx, planScope, actionplan.ListQuery{})
	if err != nil {
		return d, err
	}
	for _, p := range plans {
		switch p.Status {
		case actionplan.StatusAtrasado:
			d.PlanosAtrasados++
			d.PlanosAtivos++
		case actionplan.StatusNaoIniciado, actionplan.StatusEmAndamento:
			d.PlanosAtivos++
		}
	}

	return d, nil
}
