package assistant

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged element of the sequence sent to the completion
// endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionClient is the remote model endpoint: one synchronous call per
// turn, no streaming, no automatic retry.
type CompletionClient interface {
	Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error)
}
