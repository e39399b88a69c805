package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository writes session audit rows to Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a Repository to the connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RecordLogin stores a login event.
func (r *Repository) RecordLogin(ctx context.Context, userID uuid.UUID, sessionID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO auth_sessions (id, user_id, session_id, started_at)
		VALUES ($1,$2,$3,now())`,
		uuid.New(), userID, sessionID)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

// RecordLogout closes the audit row for a session.
func (r *Repository) RecordLogout(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE auth_sessions SET ended_at = now() WHERE session_id = $1 AND ended_at IS NULL`,
		sessionID)
	if err != nil {
		return fmt.Errorf("record logout: %w", err)
	}
	return nil
}
