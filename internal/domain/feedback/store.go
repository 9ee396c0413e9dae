package feedback

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/google/uuid"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Scope restricts a listing to what the viewer may see. MemberIDs is only
// consulted in gestor mode and holds the manager's direct reports plus the
// manager themselves.
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

const feedbackColumns = `
    f.id, f.colaborador_id, c.nome, f.gestor_id, g.nome,
    f.data_feedback, f.tipo_feedback, f.contexto, f.impacto, f.expectativa,
    f.pontos_fortes, f.pontos_melhoria, f.data_proximo_feedback,
    f.confidencial, f.ciencia_colaborador, f.data_ciencia, f.criado_em,
    EXISTS (
      SELECT 1 FROM feedbacks n
      WHERE n.colaborador_id = f.colaborador_id AND n.data_feedback > f.data_feedback
    ) AS has_newer,
    EXISTS (
      SELECT 1 FROM planos_acao p WHERE p.feedback_id = f.id
    ) AS has_plan`

func scanFeedback(row pgx.Row) (Feedback, error) {
	var f Feedback
	err := row.Scan(
		&f.ID, &f.ColaboradorID, &f.ColaboradorNome, &f.GestorID, &f.GestorNome,
		&f.DataFeedback, &f.TipoFeedback, &f.Contexto, &f.Impacto, &f.Expectativa,
		&f.PontosFortes, &f.PontosMelhoria, &f.DataProximoFeedback,
		&f.Confidencial, &f.CienciaColaborador, &f.DataCiencia, &f.CriadoEm,
		&f.HasNewer, &f.HasPlan,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Feedback{}, ErrNotFound
	}
	if err != nil {
		return Feedback{}, err
	}
	if f.PontosFortes == nil {
		f.PontosFortes = []string{}
	}
	if f.PontosMelhoria == nil {
		f.PontosMelhoria = []string{}
	}
	return f, nil
}

func (s *Store) Create(ctx context.Context, in CreateInput, now time.Time) (string, error) {
	id := uuid.NewString()
	_, err := s.DB.Exec(ctx, `
    INSERT INTO feedbacks (
      id, colaborador_id, gestor_id, data_feedback, tipo_feedback,
      contexto, impacto, expectativa, pontos_fortes, pontos_melhoria,
      data_proximo_feedback, confidencial
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
  `, id, in.ColaboradorID, in.GestorID, now, in.TipoFeedback,
		in.Contexto, in.Impacto, in.Expectativa, in.PontosFortes, in.PontosMelhoria,
		in.DataProximoFeedback, in.Confidencial)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (Feedback, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+feedbackColumns+`
    FROM feedbacks f
    JOIN usuarios c ON c.id = f.colaborador_id
    JOIN usuarios g ON g.id = f.gestor_id
    WHERE f.id = $1
  `, id)
	return scanFeedback(row)
}

func (s *Store) List(ctx context.Context, scope Scope, q ListQuery) ([]Feedback, error) {
	members := scope.MemberIDs
	if members == nil {
		members = []string{}
	}
	rows, err := s.DB.Query(ctx, `
    SELECT `+feedbackColumns+`
    FROM feedbacks f
    JOIN usuarios c ON c.id = f.colaborador_id
    JOIN usuarios g ON g.id = f.gestor_id
    WHERE ($1 = '' OR f.colaborador_id = $1::uuid)
      AND ($2 = '' OR f.gestor_id = $2::uuid)
      AND ($3 = '' OR c.time_id = $3::uuid)
      AND ($4 = '' OR f.tipo_feedback = $4)
      AND ($5::timestamptz IS NULL OR f.data_feedback >= $5)
      AND ($6::timestamptz IS NULL OR f.data_feedback <= $6)
      AND (
        $7 = 'all'
        OR ($7 = 'colaborador' AND f.colaborador_id = $8::uuid)
        OR ($7 = 'gestor' AND (f.gestor_id = $8::uuid OR f.colaborador_id = ANY($9::uuid[])))
      )
      AND (
        $7 = 'all'
        OR NOT f.confidencial
        OR f.colaborador_id = $8::uuid
        OR f.gestor_id = $8::uuid
      )
      AND ($10::boolean IS NULL OR EXISTS (
        SELECT 1 FROM planos_acao p WHERE p.feedback_id = f.id
      ) = $10)
    ORDER BY f.data_feedback DESC
  `, q.ColaboradorID, q.GestorID, q.TimeID, q.Tipo, q.DataInicio, q.DataFim,
		scope.Mode, scope.ViewerID, members, q.ComPlano)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Feedback, 0, 32)
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, id string, in UpdateInput) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE feedbacks
    SET tipo_feedback = COALESCE($2, tipo_feedback),
        contexto = COALESCE($3, contexto),
        impacto = COALESCE($4, impacto),
        expectativa = COALESCE($5, expectativa),
        pontos_fortes = COALESCE($6, pontos_fortes),
        pontos_melhoria = COALESCE($7, pontos_melhoria),
        data_proximo_feedback = COALESCE($8, data_proximo_feedback),
        confidencial = COALESCE($9, confidencial)
    WHERE id = $1
  `, id, in.TipoFeedback, in.Contexto, in.Impacto, in.Expectativa,
		in.PontosFortes, in.PontosMelhoria, in.DataProximoFeedback, in.Confidencial)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Acknowledge flips the one-way flag. A second call is a no-op and leaves
// the original timestamp untouched.
func (s *Store) Acknowledge(ctx context.Context, id string, when time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE feedbacks
    SET ciencia_colaborador = TRUE, data_ciencia = $2
    WHERE id = $1 AND ciencia_colaborador = FALSE
  `, id, when)
	return err
}

// Delete removes the feedback; plans, items and check-ins go with it via
// foreign keys, so the cascade is a single atomic statement.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM feedbacks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
