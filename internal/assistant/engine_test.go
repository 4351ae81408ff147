package assistant

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MatheusCastilhos/guardiao-backend/internal/records"
	"github.com/MatheusCastilhos/guardiao-backend/internal/transcript"
)

type fakeClient struct {
	answer string
	err    error

	gotMessages    []Message
	gotTemperature float64
	gotMaxTokens   int
}

func (f *fakeClient) Complete(_ context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	f.gotMessages = messages
	f.gotTemperature = temperature
	f.gotMaxTokens = maxTokens
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func writePromptFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "system_prompt.txt")
	if err := os.WriteFile(path, []byte("Você é o assistente Guardião.\n"), 0o600); err != nil {
		t.Fatalf("write prompt file: %v", err)
	}
	return path
}

func newTestEngine(t *testing.T, client CompletionClient) (*Engine, transcript.Store, *records.Stores) {
	t.Helper()
	transcripts := transcript.NewInMemoryStore()
	stores := records.NewInMemoryStores()
	builder := NewContextBuilder(stores.Reminders, stores.Contacts, stores.Profiles)

	engine, err := NewEngine(EngineConfig{
		SystemPromptPath: writePromptFile(t),
		Temperature:      0.3,
		MaxTokens:        400,
	}, client, transcripts, builder)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine, transcripts, stores
}

func TestHandleTurnAssemblesAndTrims(t *testing.T) {
	client := &fakeClient{answer: "  Seu remédio é às 09:30.  \n"}
	engine, transcripts, stores := newTestEngine(t, client)
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	if _, err := transcripts.Append(ctx, "u1", transcript.RoleUser, "bom dia"); err != nil {
		t.Fatalf("Append error = %v", err)
	}
	if _, err := transcripts.Append(ctx, "u1", transcript.RoleAssistant, "bom dia!"); err != nil {
		t.Fatalf("Append error = %v", err)
	}
	if _, err := stores.Reminders.Create(ctx, records.Reminder{
		UserID: "u1", Title: "Tomar remédio", At: now.Add(30 * time.Minute), Kind: records.ReminderMedication,
	}); err != nil {
		t.Fatalf("Create reminder error = %v", err)
	}

	answer, err := engine.HandleTurn(ctx, "u1", "que horas tomo o remédio?", now)
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if answer != "Seu remédio é às 09:30." {
		t.Fatalf("answer = %q, want trimmed text", answer)
	}

	// system + 2 history + context + user
	if len(client.gotMessages) != 5 {
		t.Fatalf("len(messages) = %d, want 5", len(client.gotMessages))
	}
	if client.gotMessages[0].Role != RoleSystem {
		t.Fatalf("first message role = %q, want system", client.gotMessages[0].Role)
	}
	if last := client.gotMessages[4]; last.Role != RoleUser || last.Content != "que horas tomo o remédio?" {
		t.Fatalf("last message = %+v", last)
	}
	if client.gotTemperature != 0.3 || client.gotMaxTokens != 400 {
		t.Fatalf("sampling params = (%v, %v), want (0.3, 400)", client.gotTemperature, client.gotMaxTokens)
	}
}

func TestHandleTurnSkipsContextWhenEmpty(t *testing.T) {
	client := &fakeClient{answer: "olá!"}
	engine, _, _ := newTestEngine(t, client)

	if _, err := engine.HandleTurn(context.Background(), "u1", "oi", time.Now()); err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if len(client.gotMessages) != 2 {
		t.Fatalf("len(messages) = %d, want 2 (no context injected)", len(client.gotMessages))
	}
}

func TestHandleTurnDoesNotPersist(t *testing.T) {
	client := &fakeClient{answer: "olá!"}
	engine, transcripts, _ := newTestEngine(t, client)
	ctx := context.Background()

	if _, err := engine.HandleTurn(ctx, "u1", "oi", time.Now()); err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}

	turns, err := transcripts.PriorTurns(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("PriorTurns() error = %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("engine persisted %d turns, persistence belongs to the caller", len(turns))
	}
}

func TestHandleTurnCompletionFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("request timeout")}
	engine, _, _ := newTestEngine(t, client)

	_, err := engine.HandleTurn(context.Background(), "u1", "oi", time.Now())
	if !errors.Is(err, ErrCompletion) {
		t.Fatalf("error = %v, want ErrCompletion", err)
	}
}

func TestHandleTurnEmptyAnswerIsCompletionFailure(t *testing.T) {
	client := &fakeClient{answer: "   "}
	engine, _, _ := newTestEngine(t, client)

	_, err := engine.HandleTurn(context.Background(), "u1", "oi", time.Now())
	if !errors.Is(err, ErrCompletion) {
		t.Fatalf("error = %v, want ErrCompletion for blank answer", err)
	}
}

func TestNewEngineMissingPromptFileIsConfigurationError(t *testing.T) {
	transcripts := transcript.NewInMemoryStore()
	stores := records.NewInMemoryStores()
	builder := NewContextBuilder(stores.Reminders, stores.Contacts, stores.Profiles)

	_, err := NewEngine(EngineConfig{
		SystemPromptPath: filepath.Join(t.TempDir(), "missing.txt"),
	}, &fakeClient{}, transcripts, builder)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("error = %v, want ErrConfiguration", err)
	}
}
