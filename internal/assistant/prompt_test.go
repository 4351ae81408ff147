package assistant

import (
	"reflect"
	"strings"
	"testing"
)

func TestAssembleOrdering(t *testing.T) {
	prior := []Message{
		{Role: RoleUser, Content: "oi"},
		{Role: RoleAssistant, Content: "olá!"},
	}

	got := Assemble("prompt do sistema", prior, "Data/Hora Atual: 10/03/2024 09:00", "que horas tomo o remédio?")

	if len(got) != 5 {
		t.Fatalf("len(messages) = %d, want 5", len(got))
	}
	if got[0].Role != RoleSystem || got[0].Content != "prompt do sistema" {
		t.Fatalf("first message = %+v, want system prompt", got[0])
	}
	if got[1] != prior[0] || got[2] != prior[1] {
		t.Fatalf("history not preserved in order: %+v", got[1:3])
	}
	ctxMsg := got[3]
	if ctxMsg.Role != RoleSystem {
		t.Fatalf("context role = %q, want system", ctxMsg.Role)
	}
	if !strings.Contains(ctxMsg.Content, "Data/Hora Atual: 10/03/2024 09:00") {
		t.Fatalf("context content missing block: %q", ctxMsg.Content)
	}
	if !strings.HasPrefix(ctxMsg.Content, contextHeader) || !strings.HasSuffix(ctxMsg.Content, contextFooter) {
		t.Fatalf("context not wrapped in markers: %q", ctxMsg.Content)
	}
	last := got[len(got)-1]
	if last.Role != RoleUser || last.Content != "que horas tomo o remédio?" {
		t.Fatalf("last message = %+v, want the new user message", last)
	}
}

func TestAssembleSkipsEmptyContext(t *testing.T) {
	got := Assemble("prompt", nil, "", "oi")

	if len(got) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(got))
	}
	if got[0].Role != RoleSystem || got[1].Role != RoleUser {
		t.Fatalf("messages = %+v, want [system, user]", got)
	}
}

func TestAssembleContextImmediatelyBeforeUserMessage(t *testing.T) {
	prior := []Message{
		{Role: RoleUser, Content: "a"},
		{Role: RoleAssistant, Content: "b"},
		{Role: RoleSystem, Content: "stale stored context"},
		{Role: RoleUser, Content: "c"},
	}

	got := Assemble("prompt", prior, "bloco fresco", "pergunta")

	if got[len(got)-1].Role != RoleUser {
		t.Fatalf("last message role = %q, want user", got[len(got)-1].Role)
	}
	ctxMsg := got[len(got)-2]
	if ctxMsg.Role != RoleSystem || !strings.Contains(ctxMsg.Content, "bloco fresco") {
		t.Fatalf("element before user message = %+v, want fresh context", ctxMsg)
	}
}

func TestAssembleIsPure(t *testing.T) {
	prior := []Message{{Role: RoleUser, Content: "oi"}}

	first := Assemble("p", prior, "ctx", "msg")
	second := Assemble("p", prior, "ctx", "msg")

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different sequences:\n%+v\n%+v", first, second)
	}
	if len(prior) != 1 || prior[0].Content != "oi" {
		t.Fatalf("input slice mutated: %+v", prior)
	}
}
