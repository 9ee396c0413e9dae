package actionplan

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type Scope struct {
	Mode      string
	ViewerID  string
	MemberIDs []string
}

const (
	ScopeAll         = "all"
	ScopeGestor      = "gestor"
	ScopeColaborador = "colaborador"
)

const planColumns = `
    p.id, p.feedback_id, p.objetivo, p.prazo_final, p.responsavel, p.criado_em,
    f.colaborador_id, f.gestor_id, f.confidencial,
    (SELECT COUNT(1) FROM itens_plano i WHERE i.plano_de_acao_id = p.id) AS total_itens,
    (SELECT COUNT(1) FROM itens_plano i WHERE i.plano_de_acao_id = p.id AND i.concluido) AS itens_concluidos,
    (SELECT COUNT(1) FROM checkins c WHERE c.plano_de_acao_id = p.id) AS checkin_count`

func scanPlan(row pgx.Row) (Plan, error) {
	var p Plan
	err := row.Scan(
		&p.ID, &p.FeedbackID, &p.Objetivo, &p.PrazoFinal, &p.Responsavel, &p.CriadoEm,
		&p.ColaboradorID, &p.GestorID, &p.Confidencial,
		&p.TotalItens, &p.ItensConcluidos, &p.CheckinCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Plan{}, ErrPlanNotFound
	}
	if err != nil {
		return Plan{}, err
	}
	return p, nil
}

func (s *Store) CreatePlan(ctx context.Context, in CreatePlanInput) (string, error) {
	id := uuid.NewString()
	_, err := s.DB.Exec(ctx, `
    INSERT INTO planos_acao (id, feedback_id, objetivo, prazo_final, responsavel)
    VALUES ($1,$2,$3,$4,$5)
  `, id, in.FeedbackID, in.Objetivo, in.PrazoFinal, in.Responsavel)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetPlan(ctx context.Context, id string) (Plan, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+planColumns+`
    FROM planos_acao p
    JOIN feedbacks f ON f.id = p.feedback_id
    WHERE p.id = $1
  `, id)
	return scanPlan(row)
}

func (s *Store) ListPlans(ctx context.Context, scope Scope, q ListQuery) ([]Plan, error) {
	members := scope.MemberIDs
	if members == nil {
		members = []string{}
	}
	rows, err := s.DB.Query(ctx, `
    SELECT `+planColumns+`
    FROM planos_acao p
    JOIN feedbacks f ON f.id = p.feedback_id
    WHERE ($1 = '' OR p.feedback_id = $1::uuid)
      AND ($2 = '' OR p.responsavel = $2)
      AND (
        $3 = 'all'
        OR ($3 = 'colaborador' AND f.colaborador_id = $4::uuid)
        OR ($3 = 'gestor' AND (f.gestor_id = $4::uuid OR f.colaborador_id = ANY($5::uuid[])))
      )
      AND (
        $3 = 'all'
        OR NOT f.confidencial
        OR f.colaborador_id = $4::uuid
        OR f.gestor_id = $4::uuid
      )
    ORDER BY p.prazo_final
  `, q.FeedbackID, q.Responsavel, scope.Mode, scope.ViewerID, members)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Plan, 0, 16)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePlan(ctx context.Context, id string, in UpdatePlanInput) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE planos_acao
    SET objetivo = COALESCE($2, objetivo),
        prazo_final = COALESCE($3, prazo_final),
        responsavel = COALESCE($4, responsavel)
    WHERE id = $1
  `, id, in.Objetivo, in.PrazoFinal, in.Responsavel)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// DeletePlan removes the plan; items and check-ins follow via foreign keys.
func (s *Store) DeletePlan(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM planos_acao WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.PlanoDeAcaoID, &it.Descricao, &it.PrazoItem, &it.Concluido)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	if err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *Store) CreateItem(ctx context.Context, planID, descricao string, prazoItem *time.Time) (Item, error) {
	id := uuid.NewString()
	_, err := s.DB.Exec(ctx, `
    INSERT INTO itens_plano (id, plano_de_acao_id, descricao, prazo_item)
    VALUES ($1,$2,$3,$4)
  `, id, planID, descricao, prazoItem)
	if err != nil {
		return Item{}, err
	}
	return s.GetItem(ctx, id)
}

func (s *Store) GetItem(ctx context.Context, id string) (Item, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, plano_de_acao_id, descricao, prazo_item, concluido
    FROM itens_plano
    WHERE id = $1
  `, id)
	return scanItem(row)
}

func (s *Store) ListItems(ctx context.Context, planID string) ([]Item, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, plano_de_acao_id, descricao, prazo_item, concluido
    FROM itens_plano
    WHERE plano_de_acao_id = $1
    ORDER BY criado_em
  `, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Item, 0, 8)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) UpdateItem(ctx context.Context, id string, in UpdateItemInput) (Item, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE itens_plano
    SET descricao = COALESCE($2, descricao),
        prazo_item = COALESCE($3, prazo_item),
        concluido = COALESCE($4, concluido)
    WHERE id = $1
  `, id, in.Descricao, in.PrazoItem, in.Concluido)
	if err != nil {
		return Item{}, err
	}
	if tag.RowsAffected() == 0 {
		return Item{}, ErrItemNotFound
	}
	return s.GetItem(ctx, id)
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM itens_plano WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *Store) CreateCheckin(ctx context.Context, planID, progresso, comentario, registradoPorID string, when time.Time) (Checkin, error) {
	id := uuid.NewString()
	_, err := s.DB.Exec(ctx, `
    INSERT INTO checkins (id, plano_de_acao_id, data_checkin, progresso, comentario, registrado_por_id)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, id, planID, when, progresso, comentario, registradoPorID)
	if err != nil {
		return Checkin{}, err
	}

	row := s.DB.QueryRow(ctx, `
    SELECT c.id, c.plano_de_acao_id, c.data_checkin, c.progresso, c.comentario,
           c.registrado_por_id, u.nome
    FROM checkins c
    JOIN usuarios u ON u.id = c.registrado_por_id
    WHERE c.id = $1
  `, id)
	var ck Checkin
	if err := row.Scan(&ck.ID, &ck.PlanoDeAcaoID, &ck.DataCheckin, &ck.Progresso, &ck.Comentario, &ck.RegistradoPorID, &ck.RegistradoPorNome); err != nil {
		return Checkin{}, err
	}
	return ck, nil
}

// ListCheckins returns the plan's audit trail, most recent first.
func (s *Store) ListCheckins(ctx context.Context, planID string) ([]Checkin, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT c.id, c.plano_de_acao_id, c.data_checkin, c.progresso, c.comentario,
           c.registrado_por_id, u.nome
    FROM checkins c
    JOIN usuarios u ON u.id = c.registrado_por_id
    WHERE c.plano_de_acao_id = $1
    ORDER BY c.data_checkin DESC
  `, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Checkin, 0, 8)
	for rows.Next() {
		var ck Checkin
		if err := rows.Scan(&ck.ID, &ck.PlanoDeAcaoID, &ck.DataCheckin, &ck.Progresso, &ck.Comentario, &ck.RegistradoPorID, &ck.RegistradoPorNome); err != nil {
			return nil, err
		}
		out = append(out, ck)
	}
	return out, rows.Err()
}
