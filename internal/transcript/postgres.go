package transcript

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists transcripts in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chat_turns (
			id TEXT PRIMARY KEY,
			seq BIGSERIAL,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_turns_user_created ON chat_turns (user_id, created_at, seq);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init transcript schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, userID, role, content string) (Turn, error) {
	turn := Turn{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO chat_turns (id, user_id, role, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		turn.ID,
		turn.UserID,
		turn.Role,
		turn.Content,
		turn.CreatedAt,
	)
	if err != nil {
		return Turn{}, fmt.Errorf("append turn: %w", err)
	}
	return turn, nil
}

func (s *PostgresStore) PriorTurns(ctx context.Context, userID string, limit int) ([]Turn, error) {
	// seq breaks created_at ties in insertion order.
	query := `SELECT id, user_id, role, content, created_at
		 FROM chat_turns
		 WHERE user_id=$1 AND role IN ('user','assistant')
		 ORDER BY created_at ASC, seq ASC`
	args := []any{userID}
	if limit > 0 {
		query = `SELECT id, user_id, role, content, created_at FROM (
			SELECT id, seq, user_id, role, content, created_at
			 FROM chat_turns
			 WHERE user_id=$1 AND role IN ('user','assistant')
			 ORDER BY created_at DESC, seq DESC LIMIT $2
		) recent ORDER BY created_at ASC, seq ASC`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query prior turns: %w", err)
	}
	defer rows.Close()

	turns := make([]Turn, 0, 16)
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.UserID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn row: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turn rows: %w", err)
	}
	return turns, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
