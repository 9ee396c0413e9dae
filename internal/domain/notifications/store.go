package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("notification not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, userID, tipo, titulo, mensagem string, origemID *string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notificacoes (id, usuario_id, tipo, titulo, mensagem, origem_id)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, uuid.NewString(), userID, tipo, titulo, mensagem, origemID)
	return err
}

// CreateSwept inserts a sweep-generated notification keyed on the UTC
// reference day. A duplicate for the same user, type, origin, and day is
// silently skipped; the return value reports whether a row landed.
func (s *Store) CreateSwept(ctx context.Context, userID, tipo, titulo, mensagem, origemID string, dia time.Time) (bool, error) {
	// The conflict target must repeat the partial index predicate or
	// Postgres refuses to infer the arbiter index.
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO notificacoes (id, usuario_id, tipo, titulo, mensagem, origem_id, dia_referencia)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    ON CONFLICT (usuario_id, tipo, origem_id, dia_referencia)
      WHERE origem_id IS NOT NULL AND dia_referencia IS NOT NULL
      DO NOTHING
  `, uuid.NewString(), userID, tipo, titulo, mensagem, origemID, dia)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) List(ctx context.Context, userID string, onlyUnread bool, limit int) ([]Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.DB.Query(ctx, `
    SELECT id, usuario_id, tipo, titulo, mensagem, origem_id, lida, criado_em
    FROM notificacoes
    WHERE usuario_id = $1
      AND (NOT $2 OR NOT lida)
    ORDER BY criado_em DESC
    LIMIT $3
  `, userID, onlyUnread, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Notification, 0, limit)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UsuarioID, &n.Tipo, &n.Titulo, &n.Mensagem, &n.OrigemID, &n.Lida, &n.CriadoEm); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM notificacoes WHERE usuario_id = $1 AND NOT lida
  `, userID).Scan(&count)
	return count, err
}

// MarkRead only touches the caller's own notifications.
func (s *Store) MarkRead(ctx context.Context, userID, notificationID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notificacoes SET lida = TRUE WHERE id = $1 AND usuario_id = $2
  `, notificationID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if scanErr := s.DB.QueryRow(ctx, `
      SELECT EXISTS (SELECT 1 FROM notificacoes WHERE id = $1 AND usuario_id = $2)
    `, notificationID, userID).Scan(&exists); scanErr != nil {
			return scanErr
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}

func (s *Store) MarkAllRead(ctx context.Context, userID string) (int, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notificacoes SET lida = TRUE WHERE usuario_id = $1 AND NOT lida
  `, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
