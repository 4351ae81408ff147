package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserExists         = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or unknown token")
)

// User is an account that owns records and a transcript.
type User struct {
	ID           string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store manages accounts and bearer tokens.
type Store interface {
	// Register creates an account for the normalized username.
	Register(ctx context.Context, username, email, password string) (User, error)

	// Authenticate checks credentials and returns the matching user.
	Authenticate(ctx context.Context, username, password string) (User, error)

	// IssueToken mints a bearer token for the user.
	IssueToken(ctx context.Context, userID string) (string, error)

	// ResolveToken maps a bearer token to its user ID.
	ResolveToken(ctx context.Context, token string) (string, error)

	Close() error
}

func newSalt() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func hashPassword(salt, password string) string {
	sum := sha256.Sum256([]byte(salt + ":" + password))
	return hex.EncodeToString(sum[:])
}

func passwordMatches(salt, hash, password string) bool {
	candidate := hashPassword(salt, password)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) == 1
}
