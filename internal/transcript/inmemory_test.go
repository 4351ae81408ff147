package transcript

import (
	"context"
	"testing"
)

func TestAppendThenPriorTurnsRoundTrip(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	userTurn, err := s.Append(ctx, "u1", RoleUser, "bom dia")
	if err != nil {
		t.Fatalf("Append(user) error = %v", err)
	}
	assistantTurn, err := s.Append(ctx, "u1", RoleAssistant, "Bom dia! Como posso ajudar?")
	if err != nil {
		t.Fatalf("Append(assistant) error = %v", err)
	}

	turns, err := s.PriorTurns(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("PriorTurns() error = %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("len(turns) = %d, want 2", len(turns))
	}
	if turns[0].ID != userTurn.ID || turns[0].Role != RoleUser {
		t.Fatalf("first turn = %+v, want user turn %q", turns[0], userTurn.ID)
	}
	if turns[1].ID != assistantTurn.ID || turns[1].Role != RoleAssistant {
		t.Fatalf("second turn = %+v, want assistant turn %q", turns[1], assistantTurn.ID)
	}
}

func TestPriorTurnsFiltersSystemRole(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if _, err := s.Append(ctx, "u1", RoleUser, "oi"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := s.Append(ctx, "u1", RoleSystem, "legacy context block"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := s.Append(ctx, "u1", RoleAssistant, "oi!"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	turns, err := s.PriorTurns(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("PriorTurns() error = %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("len(turns) = %d, want 2 (system filtered)", len(turns))
	}
	for _, turn := range turns {
		if turn.Role == RoleSystem {
			t.Fatalf("system turn leaked into prior turns: %+v", turn)
		}
	}
}

func TestPriorTurnsHonorsLimitKeepingMostRecent(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	contents := []string{"a", "b", "c", "d"}
	for _, c := range contents {
		if _, err := s.Append(ctx, "u1", RoleUser, c); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	turns, err := s.PriorTurns(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("PriorTurns() error = %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("len(turns) = %d, want 2", len(turns))
	}
	if turns[0].Content != "c" || turns[1].Content != "d" {
		t.Fatalf("limited turns = [%q, %q], want most recent [c, d]", turns[0].Content, turns[1].Content)
	}
}

func TestTimestampsNonDecreasingPerUser(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	var prev Turn
	for i := 0; i < 20; i++ {
		turn, err := s.Append(ctx, "u1", RoleUser, "msg")
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if i > 0 && turn.CreatedAt.Before(prev.CreatedAt) {
			t.Fatalf("timestamp went backwards: %v before %v", turn.CreatedAt, prev.CreatedAt)
		}
		prev = turn
	}
}

func TestPriorTurnsIsolatedPerUser(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if _, err := s.Append(ctx, "u1", RoleUser, "mine"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := s.Append(ctx, "u2", RoleUser, "theirs"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	turns, err := s.PriorTurns(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("PriorTurns() error = %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "mine" {
		t.Fatalf("turns = %+v, want only u1's turn", turns)
	}
}
