package assistant

const (
	contextHeader = "--- INÍCIO: CONTEXTO DO USUÁRIO ---"
	contextFooter = "--- FIM: CONTEXTO DO USUÁRIO ---"
)

// Assemble builds the exact ordered sequence sent to the completion
// endpoint: system prompt, prior turns in chronological order, the context
// block (when non-empty) as a system message, then the new user message.
// The context sits after history, not at the front, so fresh facts take
// recency priority over the static prompt and over any stale system entries
// a transcript may carry. Pure function: no I/O, identical inputs yield an
// identical sequence.
func Assemble(systemPrompt string, prior []Message, contextBlock, userMessage string) []Message {
	messages := make([]Message, 0, len(prior)+3)
	messages = append(messages, Message{Role: RoleSystem, Content: systemPrompt})
	messages = append(messages, prior...)
	if contextBlock != "" {
		messages = append(messages, Message{
			Role:    RoleSystem,
			Content: contextHeader + "\n" + contextBlock + "\n" + contextFooter,
		})
	}
	messages = append(messages, Message{Role: RoleUser, Content: userMessage})
	return messages
}
