package feedback

import (
	"context"
	"time"
)

type Service struct {
	Store        *Store
	AckGraceDays int
}

func NewService(store *Store, ackGraceDays int) *Service {
	if ackGraceDays <= 0 {
		ackGraceDays = DefaultAckGraceDays
	}
	return &Service{Store: store, AckGraceDays: ackGraceDays}
}

func (s *Service) statusInput(f Feedback) StatusInput {
	return StatusInput{
		CienciaColaborador:  f.CienciaColaborador,
		DataFeedback:        f.DataFeedback,
		DataProximoFeedback: f.DataProximoFeedback,
		HasNewer:            f.HasNewer,
	}
}

func (s *Service) withStatus(f Feedback, now time.Time) Feedback {
	f.StatusFeedback = DeriveStatus(s.statusInput(f), s.AckGraceDays, now)
	return f
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Feedback, error) {
	now := time.Now().UTC()
	id, err := s.Store.Create(ctx, in, now)
	if err != nil {
		return Feedback{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (Feedback, error) {
	f, err := s.Store.Get(ctx, id)
	if err != nil {
		return Feedback{}, err
	}
	return s.withStatus(f, time.Now().UTC()), nil
}

// List returns role-scoped feedback, newest first. The status filter is
// applied after derivation so the listing can never disagree with the
// derivation rules.
func (s *Service) List(ctx context.Context, scope Scope, q ListQuery) ([]Feedback, error) {
	rows, err := s.Store.List(ctx, scope, q)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	out := make([]Feedback, 0, len(rows))
	for _, f := range rows {
		f = s.withStatus(f, now)
		if q.Status != "" && f.StatusFeedback != q.Status {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Feedback, error) {
	if in.Empty() {
		return Feedback{}, ErrNoFields
	}
	if err := s.Store.Update(ctx, id, in); err != nil {
		return Feedback{}, err
	}
	return s.Get(ctx, id)
}

// Acknowledge is idempotent: acknowledging twice keeps the first timestamp.
func (s *Service) Acknowledge(ctx context.Context, id string) (Feedback, error) {
	if _, err := s.Store.Get(ctx, id); err != nil {
		return Feedback{}, err
	}
	if err := s.Store.Acknowledge(ctx, id, time.Now().UTC()); err != nil {
		return Feedback{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}
