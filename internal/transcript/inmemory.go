package transcript

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a simple in-process transcript store for local/dev use.
type InMemoryStore struct {
	mu     sync.RWMutex
	turns  map[string][]Turn
	lastAt map[string]time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		turns:  make(map[string][]Turn),
		lastAt: make(map[string]time.Time),
	}
}

func (s *InMemoryStore) Append(_ context.Context, userID, role, content string) (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := time.Now().UTC()
	if last, ok := s.lastAt[userID]; ok && at.Before(last) {
		at = last
	}
	s.lastAt[userID] = at

	turn := Turn{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: at,
	}
	s.turns[userID] = append(s.turns[userID], turn)
	return turn, nil
}

func (s *InMemoryStore) PriorTurns(_ context.Context, userID string, limit int) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.turns[userID]
	filtered := make([]Turn, 0, len(all))
	for _, t := range all {
		if t.Role == RoleUser || t.Role == RoleAssistant {
			filtered = append(filtered, t)
		}
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}
	out := make([]Turn, len(filtered))
	copy(out, filtered)
	return out, nil
}

func (s *InMemoryStore) Close() error { return nil }
