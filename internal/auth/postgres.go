package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists accounts and tokens in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initAuthSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func initAuthSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			salt TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS auth_tokens (
			token TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init auth schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Register(ctx context.Context, username, email, password string) (User, error) {
	username = Normalize(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return User{}, ErrInvalidCredentials
	}

	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username=$1)`, username,
	).Scan(&exists); err != nil {
		return User{}, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return User{}, ErrUserExists
	}

	salt, err := newSalt()
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		Salt:         salt,
		PasswordHash: hashPassword(salt, password),
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, salt, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Salt, u.CreatedAt,
	)
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) Authenticate(ctx context.Context, username, password string) (User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, salt, created_at
		 FROM users WHERE username=$1`,
		Normalize(username),
	)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt, &u.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("lookup user: %w", err)
	}
	if !passwordMatches(u.Salt, u.PasswordHash, password) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *PostgresStore) IssueToken(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO auth_tokens (token, user_id, created_at) VALUES ($1,$2,$3)`,
		token, userID, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert token: %w", err)
	}
	return token, nil
}

func (s *PostgresStore) ResolveToken(ctx context.Context, token string) (string, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT user_id FROM auth_tokens WHERE token=$1`, strings.TrimSpace(token),
	)
	var userID string
	if err := row.Scan(&userID); err != nil {
		if err == pgx.ErrNoRows {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("lookup token: %w", err)
	}
	return userID, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
