package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"feedbackhub/internal/domain/notifications"
)

const (
	TriggerScheduler = "scheduler"
	TriggerManual    = "manual"
)

// Service runs the notification sweep on a fixed interval and on demand.
// Every run, scheduled or manual, is recorded in sweep_runs.
type Service struct {
	DB       *pgxpool.Pool
	Sweeper  *notifications.Sweeper
	Interval time.Duration
	queue    chan string
}

func New(db *pgxpool.Pool, sweeper *notifications.Sweeper, interval time.Duration) *Service {
	return &Service{
		DB:       db,
		Sweeper:  sweeper,
		Interval: interval,
		queue:    make(chan string, 16),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Interval > 0 {
		go s.schedule(ctx)
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case trigger := <-s.queue:
			if _, err := s.RunSweep(ctx, trigger); err != nil {
				slog.Warn("sweep run failed", "trigger", trigger, "err", err)
			}
		}
	}
}

func (s *Service) schedule(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case s.queue <- TriggerScheduler:
			default:
				slog.Warn("sweep queue full, skipping scheduled run")
			}
		}
	}
}

// RunSweep executes the sweep synchronously and returns its counts, so the
// manual trigger endpoint can report what it did.
func (s *Service) RunSweep(ctx context.Context, trigger string) (notifications.SweepResult, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO sweep_runs (trigger, status)
    VALUES ($1,$2)
    RETURNING id
  `, trigger, "running").Scan(&runID); err != nil {
		slog.Warn("sweep run insert failed", "err", err)
	}

	result, err := s.Sweeper.Run(ctx, time.Now().UTC())
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		slog.Warn("sweep details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE sweep_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("sweep run update failed", "err", updErr)
		}
	}
	return result, err
}
