package db

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"feedbackhub/internal/domain/auth"
	"feedbackhub/internal/platform/config"
)

// Seed is idempotent: existing users and teams are left untouched, so it
// is safe to run on every boot.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	var teamID *string
	if cfg.SeedDemoData {
		id, err := ensureDemoTeams(ctx, pool, cfg.DefaultFeedbackCadence)
		if err != nil {
			return err
		}
		teamID = id
	}

	if _, err := ensureUser(ctx, pool, "Administrador", cfg.SeedAdminEmail, cfg.SeedAdminPassword, auth.RoleAdmin, nil, nil); err != nil {
		return err
	}

	gestorID, err := ensureUser(ctx, pool, "Gestor", cfg.SeedGestorEmail, cfg.SeedGestorPassword, auth.RoleGestor, teamID, nil)
	if err != nil {
		return err
	}

	if _, err := ensureUser(ctx, pool, "Colaborador", cfg.SeedColabEmail, cfg.SeedColabPassword, auth.RoleColaborador, teamID, gestorID); err != nil {
		return err
	}

	return nil
}

func ensureDemoTeams(ctx context.Context, pool *pgxpool.Pool, cadenceDays int) (*string, error) {
	var firstID *string
	for _, nome := range []string{"Desenvolvimento", "Comercial", "Suporte"} {
		var id string
		err := pool.QueryRow(ctx, `SELECT id FROM times WHERE nome = $1`, nome).Scan(&id)
		if err != nil {
			id = uuid.NewString()
			if _, err := pool.Exec(ctx, `
        INSERT INTO times (id, nome, empresa, frequencia_padrao_feedback_dias)
        VALUES ($1,$2,$3,$4)
      `, id, nome, "Demo", cadenceDays); err != nil {
				return nil, err
			}
		}
		if firstID == nil {
			teamID := id
			firstID = &teamID
		}
	}
	return firstID, nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, nome, email, password, papel string, timeID, gestorID *string) (*string, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, nil
	}

	var id string
	err := pool.QueryRow(ctx, `SELECT id FROM usuarios WHERE email = $1`, email).Scan(&id)
	if err == nil {
		return &id, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	id = uuid.NewString()
	if _, err := pool.Exec(ctx, `
    INSERT INTO usuarios (id, nome, email, password_hash, papel, time_id, gestor_direto_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, id, nome, email, hash, papel, timeID, gestorID); err != nil {
		return nil, err
	}
	return &id, nil
}
