package actionplan

import (
	"context"
	"time"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func withDerived(p Plan, now time.Time) Plan {
	p.ProgressoPercentual = Progress(p.TotalItens, p.ItensConcluidos)
	p.Status = DeriveStatus(StatusInput{
		TotalItems:   p.TotalItens,
		DoneItems:    p.ItensConcluidos,
		CheckinCount: p.CheckinCount,
		PrazoFinal:   p.PrazoFinal,
	}, now)
	return p
}

func (s *Service) CreatePlan(ctx context.Context, in CreatePlanInput) (Plan, error) {
	now := time.Now().UTC()
	if in.PrazoFinal.Before(now.Truncate(24 * time.Hour)) {
		return Plan{}, ErrDeadlineInPast
	}
	id, err := s.Store.CreatePlan(ctx, in)
	if err != nil {
		return Plan{}, err
	}
	return s.GetPlan(ctx, id)
}

func (s *Service) GetPlan(ctx context.Context, id string) (Plan, error) {
	p, err := s.Store.GetPlan(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	return withDerived(p, time.Now().UTC()), nil
}

// ListPlans loads plans in scope and derives status before applying the
// status filter, so the filter always matches what callers see.
func (s *Service) ListPlans(ctx context.Context, scope Scope, q ListQuery) ([]Plan, error) {
	plans, err := s.Store.ListPlans(ctx, scope, q)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	out := make([]Plan, 0, len(plans))
	for _, p := range plans {
		p = withDerived(p, now)
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) UpdatePlan(ctx context.Context, id string, in UpdatePlanInput) (Plan, error) {
	if in.Empty() {
		return Plan{}, ErrNoFields
	}
	if err := s.Store.UpdatePlan(ctx, id, in); err != nil {
		return Plan{}, err
	}
	return s.GetPlan(ctx, id)
}

func (s *Service) DeletePlan(ctx context.Context, id string) error {
	return s.Store.DeletePlan(ctx, id)
}

func (s *Service) AddItem(ctx context.Context, planID, descricao string, prazoItem *time.Time) (Item, error) {
	return s.Store.CreateItem(ctx, planID, descricao, prazoItem)
}

func (s *Service) GetItem(ctx context.Context, itemID string) (Item, error) {
	return s.Store.GetItem(ctx, itemID)
}

func (s *Service) ListItems(ctx context.Context, planID string) ([]Item, error) {
	return s.Store.ListItems(ctx, planID)
}

// UpdateItem persists the change and returns the plan recomputed from the
// new item state, so a toggle and its effect are observed together.
func (s *Service) UpdateItem(ctx context.Context, itemID string, in UpdateItemInput) (Item, Plan, error) {
	if in.Empty() {
		return Item{}, Plan{}, ErrNoFields
	}
	it, err := s.Store.UpdateItem(ctx, itemID, in)
	if err != nil {
		return Item{}, Plan{}, err
	}
	plan, err := s.GetPlan(ctx, it.PlanoDeAcaoID)
	if err != nil {
		return Item{}, Plan{}, err
	}
	return it, plan, nil
}

func (s *Service) DeleteItem(ctx context.Context, itemID string) (Plan, error) {
	it, err := s.Store.GetItem(ctx, itemID)
	if err != nil {
		return Plan{}, err
	}
	if err := s.Store.DeleteItem(ctx, itemID); err != nil {
		return Plan{}, err
	}
	return s.GetPlan(ctx, it.PlanoDeAcaoID)
}

func (s *Service) AddCheckin(ctx context.Context, planID, progresso, comentario, registradoPorID string) (Checkin, error) {
	return s.Store.CreateCheckin(ctx, planID, progresso, comentario, registradoPorID, time.Now().UTC())
}

func (s *Service) ListCheckins(ctx context.Context, planID string) ([]Checkin, error) {
	return s.Store.ListCheckins(ctx, planID)
}
