package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"feedbackhub/internal/domain/actionplan"
	"feedbackhub/internal/domain/feedback"
	"feedbackhub/internal/domain/identity"
)

type Service struct {
	Users     *identity.Store
	Feedbacks *feedback.Service
	Plans     *actionplan.Service
}

func NewService(users *identity.Store, feedbacks *feedback.Service, plans *actionplan.Service) *Service {
	return &Service{Users: users, Feedbacks: feedbacks, Plans: plans}
}

// Profile aggregates a collaborator's full feedback history. The caller's
// scope decides confidential visibility, exactly as on the list endpoints.
func (s *Service) Profile(ctx context.Context, userID string, scope feedback.Scope) (CollaboratorProfile, error) {
	var p CollaboratorProfile

	user, err := s.Users.GetUser(ctx, userID)
	if err != nil {
		return p, err
	}
	p.Usuario = user

	if user.TimeID != nil {
		team, err := s.Users.GetTeam(ctx, *user.TimeID)
		if err != nil && !errors.Is(err, identity.ErrTeamNotFound) {
			return p, err
		}
		if err == nil {
			p.Time = &team
		}
	}

	fbs, err := s.Feedbacks.List(ctx, scope, feedback.ListQuery{ColaboradorID: userID})
	if err != nil {
		return p, err
	}
	p.Feedbacks = fbs
	p.TotalFeedbacks = len(fbs)

	now := time.Now().UTC()
	var fortes, melhoria []string
	for _, f := range fbs {
		fortes = append(fortes, f.PontosFortes...)
		melhoria = append(melhoria, f.PontosMelhoria...)
		if !f.CienciaColaborador {
			p.PendenteCiencia++
		}
		if f.HasNewer || f.DataProximoFeedback == nil || f.DataProximoFeedback.Before(now) {
			continue
		}
		if p.ProximoFeedback == nil || f.DataProximoFeedback.Before(*p.ProximoFeedback) {
			next := *f.DataProximoFeedback
			p.ProximoFeedback = &next
		}
	}
	p.PontosFortes = TopRecurring(fortes, 5)
	p.PontosMelhoria = TopRecurring(melhoria, 5)

	planScope := actionplan.Scope{Mode: scope.Mode, ViewerID: scope.ViewerID, MemberIDs: scope.MemberIDs}
	plans, err := s.Plans.ListPlans(ctx, planScope, actionplan.ListQuery{})
	if err != nil {
		return p, err
	}
	p.Planos = make([]actionplan.Plan, 0, len(plans))
	for _, plan := range plans {
		if plan.ColaboradorID == userID {
			p.Planos = append(p.Planos, plan)
		}
	}

	return p, nil
}

// TopRecurring returns the most frequent entries, ties broken
// alphabetically, at most n results. Matching is case-insensitive but the
// first spelling seen is kept.
func TopRecurring(entries []string, n int) []string {
	counts := make(map[string]int)
	display := make(map[string]string)
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		key := strings.ToLower(e)
		counts[key]++
		if _, ok := display[key]; !ok {
			display[key] = e
		}
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	if len(keys) > n {
		keys = keys[:n]
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, display[k])
	}
	return out
}

// FeedbackHistoryPDF renders the profile as a printable report.
func (s *Service) FeedbackHistoryPDF(ctx context.Context, userID string, scope feedback.Scope) ([]byte, error) {
	profile, err := s.Profile(ctx, userID, scope)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Histórico de Feedbacks"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Colaborador: %s", profile.Usuario.Nome)))
	pdf.Ln(7)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Email: %s", profile.Usuario.Email)))
	pdf.Ln(7)
	if profile.Time != nil {
		pdf.Cell(0, 8, tr(fmt.Sprintf("Time: %s", profile.Time.Nome)))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, tr(fmt.Sprintf("Total de feedbacks: %d", profile.TotalFeedbacks)))
	pdf.Ln(10)

	for _, f := range profile.Feedbacks {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, tr(fmt.Sprintf("%s | %s (%s)", f.DataFeedback.Format("02/01/2006"), f.TipoFeedback, f.StatusFeedback)))
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("Contexto: %s", f.Contexto)), "", "L", false)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("Impacto: %s", f.Impacto)), "", "L", false)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("Expectativa: %s", f.Expectativa)), "", "L", false)
		if len(f.PontosFortes) > 0 {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("Pontos fortes: %s", strings.Join(f.PontosFortes, ", "))), "", "L", false)
		}
		if len(f.PontosMelhoria) > 0 {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("Pontos de melhoria: %s", strings.Join(f.PontosMelhoria, ", "))), "", "L", false)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
