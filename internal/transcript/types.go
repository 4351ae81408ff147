package transcript

import (
	"context"
	"time"
)

// Roles a persisted turn may carry. Older deployments wrote context blocks
// into the transcript with role "system"; PriorTurns filters those out so
// stale context is never replayed into a new prompt.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Turn is one persisted message in a user's conversation history.
type Turn struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is an append-only per-user transcript.
type Store interface {
	// Append persists one turn, assigning its ID and timestamp. Timestamps
	// are non-decreasing per user.
	Append(ctx context.Context, userID, role, content string) (Turn, error)

	// PriorTurns returns the user's history in chronological order,
	// restricted to user and assistant roles. A positive limit returns only
	// the most recent turns; limit <= 0 returns the full transcript.
	PriorTurns(ctx context.Context, userID string, limit int) ([]Turn, error)

	Close() error
}
