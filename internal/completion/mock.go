package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/MatheusCastilhos/guardiao-backend/internal/assistant"
)

// MockClient provides deterministic local replies when no HF token is set.
type MockClient struct{}

func NewMockClient() *MockClient { return &MockClient{} }

func (c *MockClient) Complete(ctx context.Context, messages []assistant.Message, _ float64, _ int) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	last := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == assistant.RoleUser {
			last = strings.TrimSpace(messages[i].Content)
			break
		}
	}
	if last == "" {
		return "Estou aqui para ajudar.", nil
	}
	return fmt.Sprintf("Entendi: %s", last), nil
}
