package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MatheusCastilhos/guardiao-backend/internal/assistant"
)

func TestNewHFClientRequiresTokenAndModel(t *testing.T) {
	if _, err := NewHFClient(Config{ModelID: "some-model"}); err == nil {
		t.Fatalf("NewHFClient without token should fail")
	}
	if _, err := NewHFClient(Config{APIKey: "hf_xxx"}); err == nil {
		t.Fatalf("NewHFClient without model should fail")
	}
}

func TestHFClientCompleteRoundTrip(t *testing.T) {
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" Olá, Maria! "}}]}`))
	}))
	defer ts.Close()

	client, err := NewHFClient(Config{
		APIKey:  "hf_test",
		ModelID: "meta-llama/Llama-3.1-8B-Instruct",
		BaseURL: ts.URL,
	})
	if err != nil {
		t.Fatalf("NewHFClient() error = %v", err)
	}

	messages := []assistant.Message{
		{Role: assistant.RoleSystem, Content: "prompt"},
		{Role: assistant.RoleUser, Content: "oi"},
	}
	answer, err := client.Complete(context.Background(), messages, 0.3, 400)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if answer != "Olá, Maria!" {
		t.Fatalf("answer = %q, want trimmed content", answer)
	}

	if gotBody.Model != "meta-llama/Llama-3.1-8B-Instruct" {
		t.Fatalf("request model = %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Fatalf("request messages = %+v", gotBody.Messages)
	}
	if gotBody.Temperature != 0.3 || gotBody.MaxTokens != 400 {
		t.Fatalf("sampling params = (%v, %v)", gotBody.Temperature, gotBody.MaxTokens)
	}
}

func TestHFClientCompleteErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client, err := NewHFClient(Config{APIKey: "hf_test", ModelID: "m", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewHFClient() error = %v", err)
	}

	_, err = client.Complete(context.Background(), []assistant.Message{{Role: assistant.RoleUser, Content: "oi"}}, 0.3, 400)
	if err == nil {
		t.Fatalf("Complete() should surface upstream error status")
	}
}

func TestHFClientCompleteNoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	client, err := NewHFClient(Config{APIKey: "hf_test", ModelID: "m", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewHFClient() error = %v", err)
	}

	_, err = client.Complete(context.Background(), []assistant.Message{{Role: assistant.RoleUser, Content: "oi"}}, 0.3, 400)
	if err == nil {
		t.Fatalf("Complete() should treat an empty choice list as malformed")
	}
}

func TestMockClientEchoesLastUserMessage(t *testing.T) {
	mock := NewMockClient()
	answer, err := mock.Complete(context.Background(), []assistant.Message{
		{Role: assistant.RoleSystem, Content: "prompt"},
		{Role: assistant.RoleUser, Content: "cadê meus óculos?"},
	}, 0.3, 400)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !strings.Contains(answer, "cadê meus óculos?") {
		t.Fatalf("answer = %q, want echo of user message", answer)
	}
}
