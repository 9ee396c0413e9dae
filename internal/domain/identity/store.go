package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrTeamNotFound = errors.New("team not found")
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const userColumns = `id, nome, email, papel, time_id, gestor_direto_id, ativo, criado_em`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.Papel, &u.TimeID, &u.GestorDiretoID, &u.Ativo, &u.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id = $1`, userID))
}

// CredentialsByEmail returns the user plus the stored password hash.
func (s *Store) CredentialsByEmail(ctx context.Context, email string) (User, string, error) {
	var u User
	var hash string
	err := s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`, password_hash
    FROM usuarios
    WHERE lower(email) = lower($1)
  `, email).Scan(&u.ID, &u.Nome, &u.Email, &u.Papel, &u.TimeID, &u.GestorDiretoID, &u.Ativo, &u.CriadoEm, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, "", ErrUserNotFound
	}
	if err != nil {
		return User{}, "", err
	}
	return u, hash, nil
}

func (s *Store) ListUsers(ctx context.Context, filter UserFilter) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+userColumns+`
    FROM usuarios
    WHERE ($1 = '' OR papel = $1)
      AND ($2 = '' OR time_id = $2::uuid)
      AND ($3::boolean IS NULL OR ativo = $3)
    ORDER BY nome
  `, filter.Papel, filter.TimeID, filter.Ativo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// DirectReportIDs returns the ids of the users managed by the given manager.
func (s *Store) DirectReportIDs(ctx context.Context, gestorID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `SELECT id FROM usuarios WHERE gestor_direto_id = $1`, gestorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UserEmail resolves the address used for notification email mirroring.
// A missing user yields an empty address, not an error.
func (s *Store) UserEmail(ctx context.Context, userID string) (string, error) {
	var email string
	err := s.DB.QueryRow(ctx, `SELECT email FROM usuarios WHERE id = $1 AND ativo`, userID).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return email, nil
}

func (s *Store) GetTeam(ctx context.Context, teamID string) (Team, error) {
	var t Team
	err := s.DB.QueryRow(ctx, `
    SELECT id, nome, empresa, frequencia_padrao_feedback_dias, descricao, criado_em
    FROM times
    WHERE id = $1
  `, teamID).Scan(&t.ID, &t.Nome, &t.Empresa, &t.FrequenciaPadraoDias, &t.Descricao, &t.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Team{}, ErrTeamNotFound
	}
	if err != nil {
		return Team{}, err
	}
	return t, nil
}

func (s *Store) ListTeams(ctx context.Context) ([]Team, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, nome, empresa, frequencia_padrao_feedback_dias, descricao, criado_em
    FROM times
    ORDER BY nome
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Team, 0, 8)
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.Nome, &t.Empresa, &t.FrequenciaPadraoDias, &t.Descricao, &t.CriadoEm); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TeamCadenceDays returns the feedback cadence configured for the user's
// team, or 0 when the user has no team.
func (s *Store) TeamCadenceDays(ctx context.Context, userID string) (int, error) {
	var days *int
	err := s.DB.QueryRow(ctx, `
    SELECT t.frequencia_padrao_feedback_dias
    FROM usuarios u
    JOIN times t ON t.id = u.time_id
    WHERE u.id = $1
  `, userID).Scan(&days)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if days == nil {
		return 0, nil
	}
	return *days, nil
}
