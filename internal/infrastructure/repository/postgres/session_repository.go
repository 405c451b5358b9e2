// Package postgres persists per-session conversation history for the
// HTTP front end. History is caller-owned state: the core only ever
// receives it pre-formatted.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
)

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS support_sessions (
	session_id TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`); err != nil {
		return fmt.Errorf("create support_sessions: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS support_turns (
	id BIGSERIAL PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES support_sessions(session_id),
	user_text TEXT NOT NULL,
	assistant_text TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`); err != nil {
		return fmt.Errorf("create support_turns: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
CREATE INDEX IF NOT EXISTS idx_support_turns_session ON support_turns (session_id, id)`); err != nil {
		return fmt.Errorf("create turns index: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *SessionRepository) EnsureSession(ctx context.Context, sessionID string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO support_sessions (session_id, created_at, updated_at)
VALUES ($1, $2, $2)
ON CONFLICT (session_id) DO NOTHING
`, sessionID, now)
	if err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}
	return nil
}

func (r *SessionRepository) AppendTurn(ctx context.Context, sessionID string, turn domain.ConversationTurn) error {
	createdAt := turn.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO support_turns (session_id, user_text, assistant_text, created_at)
VALUES ($1, $2, $3, $4)
`, sessionID, turn.User, turn.Assistant, createdAt)
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `
UPDATE support_sessions SET updated_at = $2 WHERE session_id = $1
`, sessionID, time.Now().UTC()); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// RecentTurns returns the newest limit turns in chronological order.
func (r *SessionRepository) RecentTurns(ctx context.Context, sessionID string, limit int) (domain.History, error) {
	if limit <= 0 {
		limit = domain.HistoryTurnLimit
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT user_text, assistant_text, created_at
FROM support_turns
WHERE session_id = $1
ORDER BY id DESC
LIMIT $2
`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent turns: %w", err)
	}
	defer rows.Close()

	var newestFirst domain.History
	for rows.Next() {
		var turn domain.ConversationTurn
		if err := rows.Scan(&turn.User, &turn.Assistant, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		newestFirst = append(newestFirst, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	history := make(domain.History, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		history = append(history, newestFirst[i])
	}
	return history, nil
}
