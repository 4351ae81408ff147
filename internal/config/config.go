package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains all runtime settings for the Guardião backend.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string
	AllowAnyOrigin   bool

	DatabaseURL string

	HFToken          string
	HFModelID        string
	HFBaseURL        string
	SystemPromptPath string

	ChatTemperature   float64
	ChatMaxTokens     int
	ChatHistoryWindow int
	CompletionTimeout time.Duration
}

// Load reads a local .env when present, then environment variables, applying
// safe defaults. Completion credentials (HF_TOKEN, HF_MODEL_ID) are not
// validated here: the chat engine checks them when first constructed, so
// maintenance and CRUD paths run without them.
func Load() (Config, error) {
	// Single explicit lookup; the environment always wins over the file.
	_ = godotenv.Load()

	cfg := Config{
		BindAddr:          envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:  envOrDefault("APP_METRICS_NAMESPACE", "guardiao"),
		AllowAnyOrigin:    false,
		DatabaseURL:       stringsTrimSpace("DATABASE_URL"),
		HFToken:           stringsTrimSpace("HF_TOKEN"),
		HFModelID:         stringsTrimSpace("HF_MODEL_ID"),
		HFBaseURL:         stringsTrimSpace("HF_BASE_URL"),
		SystemPromptPath:  envOrDefault("SYSTEM_PROMPT_PATH", "prompts/system_prompt.txt"),
		ChatTemperature:   0.3,
		ChatMaxTokens:     400,
		ChatHistoryWindow: 0,
		ShutdownTimeout:   15 * time.Second,
		CompletionTimeout: 60 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.CompletionTimeout, err = durationFromEnv("CHAT_COMPLETION_TIMEOUT", cfg.CompletionTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ChatTemperature, err = floatFromEnv("CHAT_TEMPERATURE", cfg.ChatTemperature)
	if err != nil {
		return Config{}, err
	}
	cfg.ChatMaxTokens, err = intFromEnv("CHAT_MAX_TOKENS", cfg.ChatMaxTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.ChatHistoryWindow, err = intFromEnv("CHAT_HISTORY_WINDOW", cfg.ChatHistoryWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.ChatTemperature < 0 || cfg.ChatTemperature > 2 {
		return Config{}, fmt.Errorf("CHAT_TEMPERATURE must be between 0 and 2")
	}
	if cfg.ChatMaxTokens <= 0 {
		return Config{}, fmt.Errorf("CHAT_MAX_TOKENS must be positive")
	}
	if cfg.ChatHistoryWindow < 0 {
		return Config{}, fmt.Errorf("CHAT_HISTORY_WINDOW must be >= 0")
	}
	if cfg.CompletionTimeout < time.Second {
		return Config{}, fmt.Errorf("CHAT_COMPLETION_TIMEOUT must be at least 1s")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
