package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"feedbackhub/internal/domain/actionplan"
	"feedbackhub/internal/domain/feedback"
)

// Day is the UTC calendar day a sweep notification is keyed on.
type Day struct {
	t time.Time
}

func DayOf(t time.Time) Day {
	u := t.UTC()
	return Day{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Day) Time() time.Time { return d.t }

type SweepResult struct {
	OverdueFeedbacks     int `json:"overdue_feedbacks"`
	ApproachingDeadlines int `json:"approaching_deadlines"`
}

// Sweeper scans for overdue feedbacks and action-plan deadlines inside the
// lookahead window, notifying the responsible parties. Running it twice on
// the same day is a no-op thanks to the per-day dedup key.
type Sweeper struct {
	DB            *pgxpool.Pool
	Notifier      *Service
	LookaheadDays int
}

func NewSweeper(db *pgxpool.Pool, notifier *Service, lookaheadDays int) *Sweeper {
	return &Sweeper{DB: db, Notifier: notifier, LookaheadDays: lookaheadDays}
}

func (s *Sweeper) Run(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult

	overdue, err := s.sweepOverdueFeedbacks(ctx, now)
	if err != nil {
		return result, err
	}
	result.OverdueFeedbacks = overdue

	approaching, err := s.sweepPlanDeadlines(ctx, now)
	if err != nil {
		return result, err
	}
	result.ApproachingDeadlines = approaching

	return result, nil
}

type overdueFeedbackRow struct {
	ID              string
	GestorID        string
	ColaboradorNome string
	Ciencia         bool
	DataFeedback    time.Time
	DataProximo     *time.Time
	HasNewer        bool
}

func (s *Sweeper) sweepOverdueFeedbacks(ctx context.Context, now time.Time) (int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT f.id, f.gestor_id, c.nome, f.ciencia_colaborador, f.data_feedback,
           f.data_proximo_feedback,
           EXISTS (
             SELECT 1 FROM feedbacks n
             WHERE n.colaborador_id = f.colaborador_id AND n.data_feedback > f.data_feedback
           ) AS has_newer
    FROM feedbacks f
    JOIN usuarios c ON c.id = f.colaborador_id
    WHERE NOT f.ciencia_colaborador
      AND f.data_proximo_feedback IS NOT NULL
      AND f.data_proximo_feedback < $1
  `, now)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var candidates []overdueFeedbackRow
	for rows.Next() {
		var r overdueFeedbackRow
		if err := rows.Scan(&r.ID, &r.GestorID, &r.ColaboradorNome, &r.Ciencia, &r.DataFeedback, &r.DataProximo, &r.HasNewer); err != nil {
			return 0, err
		}
		candidates = append(candidates, r)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	day := DayOf(now)
	count := 0
	for _, r := range candidates {
		in := feedback.StatusInput{
			CienciaColaborador:  r.Ciencia,
			DataFeedback:        r.DataFeedback,
			DataProximoFeedback: r.DataProximo,
			HasNewer:            r.HasNewer,
		}
		if !feedback.Overdue(in, now) {
			continue
		}
		titulo := "Feedback atrasado"
		mensagem := fmt.Sprintf("O feedback de %s está atrasado desde %s.", r.ColaboradorNome, r.DataProximo.Format("02/01/2006"))
		created, err := s.Notifier.NotifySwept(ctx, r.GestorID, TipoFeedbackAtrasado, titulo, mensagem, r.ID, day)
		if err != nil {
			slog.Warn("sweep overdue notification failed", "feedbackId", r.ID, "err", err)
			continue
		}
		if created {
			count++
		}
	}
	return count, nil
}

type planDeadlineRow struct {
	ID            string
	Objetivo      string
	PrazoFinal    time.Time
	Responsavel   string
	ColaboradorID string
	GestorID      string
	TotalItens    int
	Concluidos    int
}

func (s *Sweeper) sweepPlanDeadlines(ctx context.Context, now time.Time) (int, error) {
	horizon := now.AddDate(0, 0, s.LookaheadDays)
	rows, err := s.DB.Query(ctx, `
    SELECT p.id, p.objetivo, p.prazo_final, p.responsavel,
           f.colaborador_id, f.gestor_id,
           (SELECT COUNT(1) FROM itens_plano i WHERE i.plano_de_acao_id = p.id),
           (SELECT COUNT(1) FROM itens_plano i WHERE i.plano_de_acao_id = p.id AND i.concluido)
    FROM planos_acao p
    JOIN feedbacks f ON f.id = p.feedback_id
    WHERE p.prazo_final >= $1 AND p.prazo_final <= $2
  `, now, horizon)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var candidates []planDeadlineRow
	for rows.Next() {
		var r planDeadlineRow
		if err := rows.Scan(&r.ID, &r.Objetivo, &r.PrazoFinal, &r.Responsavel, &r.ColaboradorID, &r.GestorID, &r.TotalItens, &r.Concluidos); err != nil {
			return 0, err
		}
		candidates = append(candidates, r)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	day := DayOf(now)
	count := 0
	for _, r := range candidates {
		if actionplan.Progress(r.TotalItens, r.Concluidos) == 100 {
			continue
		}
		titulo := "Prazo de plano de ação se aproximando"
		mensagem := fmt.Sprintf("O plano %q vence em %s.", r.Objetivo, r.PrazoFinal.Format("02/01/2006"))
		for _, userID := range planRecipients(r.Responsavel, r.ColaboradorID, r.GestorID) {
			created, err := s.Notifier.NotifySwept(ctx, userID, TipoPrazoProximo, titulo, mensagem, r.ID, day)
			if err != nil {
				slog.Warn("sweep deadline notification failed", "planId", r.ID, "err", err)
				continue
			}
			if created {
				count++
			}
		}
	}
	return count, nil
}

func planRecipients(responsavel, colaboradorID, gestorID string) []string {
	switch responsavel {
	case actionplan.ResponsavelColaborador:
		return []string{colaboradorID}
	case actionplan.ResponsavelGestor:
		return []string{gestorID}
	default:
		return []string{colaboradorID, gestorID}
	}
}
