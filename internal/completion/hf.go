package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/MatheusCastilhos/guardiao-backend/internal/assistant"
)

// DefaultBaseURL is the Hugging Face OpenAI-compatible chat router.
const DefaultBaseURL = "https://router.huggingface.co/v1"

const defaultTimeout = 60 * time.Second

// Config controls HF client construction.
type Config struct {
	APIKey  string
	ModelID string
	BaseURL string
	Timeout time.Duration
}

// HFClient calls the Hugging Face inference router through the OpenAI SDK.
// One synchronous chat-completion call per turn; no retries here, a timeout
// or transient failure surfaces to the caller.
type HFClient struct {
	client  openai.Client
	modelID string
	timeout time.Duration
}

func NewHFClient(cfg Config) (*HFClient, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("HF_TOKEN is required")
	}
	modelID := strings.TrimSpace(cfg.ModelID)
	if modelID == "" {
		return nil, errors.New("HF_MODEL_ID is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &HFClient{
		// Retry policy belongs to the caller; the SDK's default retries are
		// disabled so a failed call is reported exactly once.
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0),
		),
		modelID: modelID,
		timeout: timeout,
	}, nil
}

func (c *HFClient) Complete(ctx context.Context, messages []assistant.Message, temperature float64, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.modelID),
		Messages:    toParams(messages),
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: response has no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("chat completion: response content is empty")
	}
	return content, nil
}

func toParams(messages []assistant.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case assistant.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case assistant.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
