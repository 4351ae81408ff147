package assistant

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MatheusCastilhos/guardiao-backend/internal/transcript"
)

// EngineConfig holds the settings the engine needs up front. Missing
// required fields fail construction, not the first turn.
type EngineConfig struct {
	SystemPromptPath string
	Temperature      float64
	MaxTokens        int
	HistoryWindow    int
}

// Engine runs one conversational turn. It holds no per-user state: history
// is re-read from the transcript store on every call, and persistence of
// the resulting turn pair is the caller's responsibility.
type Engine struct {
	client       CompletionClient
	transcripts  transcript.Store
	builder      *ContextBuilder
	systemPrompt string
	temperature  float64
	maxTokens    int
	window       int
}

func NewEngine(cfg EngineConfig, client CompletionClient, transcripts transcript.Store, builder *ContextBuilder) (*Engine, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: completion client is required", ErrConfiguration)
	}
	if transcripts == nil {
		return nil, fmt.Errorf("%w: transcript store is required", ErrConfiguration)
	}
	if builder == nil {
		return nil, fmt.Errorf("%w: context builder is required", ErrConfiguration)
	}
	if strings.TrimSpace(cfg.SystemPromptPath) == "" {
		return nil, fmt.Errorf("%w: system prompt path is required", ErrConfiguration)
	}

	raw, err := os.ReadFile(cfg.SystemPromptPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read system prompt %q: %v", ErrConfiguration, cfg.SystemPromptPath, err)
	}
	systemPrompt := strings.TrimSpace(string(raw))
	if systemPrompt == "" {
		return nil, fmt.Errorf("%w: system prompt %q is empty", ErrConfiguration, cfg.SystemPromptPath)
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.3
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 400
	}

	return &Engine{
		client:       client,
		transcripts:  transcripts,
		builder:      builder,
		systemPrompt: systemPrompt,
		temperature:  temperature,
		maxTokens:    maxTokens,
		window:       cfg.HistoryWindow,
	}, nil
}

// HandleTurn answers one user message. It does not persist anything; the
// caller appends the user/assistant pair after a successful turn.
func (e *Engine) HandleTurn(ctx context.Context, userID, userMessage string, now time.Time) (string, error) {
	prior, err := e.transcripts.PriorTurns(ctx, userID, e.window)
	if err != nil {
		return "", fmt.Errorf("%w: read transcript: %v", ErrDataUnavailable, err)
	}

	contextBlock, err := e.builder.BuildContext(ctx, userID, now)
	if err != nil {
		return "", err
	}

	messages := Assemble(e.systemPrompt, turnsToMessages(prior), contextBlock, userMessage)

	answer, err := e.client.Complete(ctx, messages, e.temperature, e.maxTokens)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletion, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%w: model returned empty answer", ErrCompletion)
	}
	return answer, nil
}

func turnsToMessages(turns []transcript.Turn) []Message {
	out := make([]Message, 0, len(turns))
	for _, t := range turns {
		out = append(out, Message{Role: t.Role, Content: t.Content})
	}
	return out
}
