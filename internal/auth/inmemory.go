package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is an in-process account store for local/dev use.
type InMemoryStore struct {
	mu         sync.RWMutex
	byUsername map[string]User
	byToken    map[string]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byUsername: make(map[string]User),
		byToken:    make(map[string]string),
	}
}

func (s *InMemoryStore) Register(_ context.Context, username, email, password string) (User, error) {
	username = Normalize(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return User{}, ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUsername[username]; ok {
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
	s.byUsername[username] = u
	return u, nil
}

func (s *InMemoryStore) Authenticate(_ context.Context, username, password string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byUsername[Normalize(username)]
	if !ok || !passwordMatches(u.Salt, u.PasswordHash, password) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *InMemoryStore) IssueToken(_ context.Context, userID string) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[token] = userID
	return token, nil
}

func (s *InMemoryStore) ResolveToken(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byToken[strings.TrimSpace(token)]
	if !ok {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func (s *InMemoryStore) Close() error { return nil }
