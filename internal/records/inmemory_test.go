package records

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPendingFromSelectsUpcomingNotDone(t *testing.T) {
	stores := NewInMemoryStores()
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	seed := []Reminder{
		{UserID: "u1", Title: "ontem", At: now.Add(-24 * time.Hour)},
		{UserID: "u1", Title: "concluido", At: now.Add(time.Hour), Done: true},
		{UserID: "u1", Title: "daqui a pouco", At: now.Add(30 * time.Minute)},
		{UserID: "u1", Title: "amanha", At: now.Add(24 * time.Hour)},
		{UserID: "u2", Title: "de outro usuario", At: now.Add(time.Hour)},
	}
	for _, r := range seed {
		if _, err := stores.Reminders.Create(ctx, r); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	pending, err := stores.Reminders.PendingFrom(ctx, "u1", now, 5)
	if err != nil {
		t.Fatalf("PendingFrom() error = %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("len(pending) = %d, want 2", len(pending))
	}
	if pending[0].Title != "daqui a pouco" || pending[1].Title != "amanha" {
		t.Fatalf("pending order = [%q, %q], want most imminent first", pending[0].Title, pending[1].Title)
	}
}

func TestPendingFromCapsResults(t *testing.T) {
	stores := NewInMemoryStores()
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 8; i++ {
		r := Reminder{UserID: "u1", Title: "item", At: now.Add(time.Duration(i+1) * time.Hour)}
		if _, err := stores.Reminders.Create(ctx, r); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	pending, err := stores.Reminders.PendingFrom(ctx, "u1", now, 5)
	if err != nil {
		t.Fatalf("PendingFrom() error = %v", err)
	}
	if len(pending) != 5 {
		t.Fatalf("len(pending) = %d, want cap of 5", len(pending))
	}
}

func TestReminderKindDefaultsToOutro(t *testing.T) {
	stores := NewInMemoryStores()
	ctx := context.Background()

	r, err := stores.Reminders.Create(ctx, Reminder{UserID: "u1", Title: "algo", At: time.Now(), Kind: "banho"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if r.Kind != ReminderOther {
		t.Fatalf("Kind = %q, want %q", r.Kind, ReminderOther)
	}
}

func TestEmergencyContactsFilter(t *testing.T) {
	stores := NewInMemoryStores()
	ctx := context.Background()

	seed := []Contact{
		{UserID: "u1", Name: "Ana", Phone: "11999990000", Emergency: true},
		{UserID: "u1", Name: "Bruno", Phone: "11888880000"},
		{UserID: "u2", Name: "Carla", Phone: "11777770000", Emergency: true},
	}
	for _, c := range seed {
		if _, err := stores.Contacts.Create(ctx, c); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	emerg, err := stores.Contacts.Emergency(ctx, "u1")
	if err != nil {
		t.Fatalf("Emergency() error = %v", err)
	}
	if len(emerg) != 1 || emerg[0].Name != "Ana" {
		t.Fatalf("emergency contacts = %+v, want only Ana", emerg)
	}
}

func TestOwnershipScopesMutations(t *testing.T) {
	stores := NewInMemoryStores()
	ctx := context.Background()

	r, err := stores.Reminders.Create(ctx, Reminder{UserID: "u1", Title: "meu", At: time.Now()})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := stores.Reminders.Delete(ctx, "u2", r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete by non-owner error = %v, want ErrNotFound", err)
	}
	if err := stores.Reminders.MarkDone(ctx, "u2", r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("MarkDone by non-owner error = %v, want ErrNotFound", err)
	}
	if err := stores.Reminders.Delete(ctx, "u1", r.ID); err != nil {
		t.Fatalf("Delete by owner error = %v", err)
	}
}

func TestProfilePutIsUpsert(t *testing.T) {
	stores := NewInMemoryStores()
	ctx := context.Background()

	birth := time.Date(1950, 5, 12, 0, 0, 0, 0, time.UTC)
	if _, err := stores.Profiles.Put(ctx, Profile{UserID: "u1", FullName: "Maria"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, err := stores.Profiles.Put(ctx, Profile{UserID: "u1", FullName: "Maria Silva", BirthDate: &birth}); err != nil {
		t.Fatalf("Put() update error = %v", err)
	}

	p, err := stores.Profiles.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.FullName != "Maria Silva" || p.BirthDate == nil || !p.BirthDate.Equal(birth) {
		t.Fatalf("profile after upsert = %+v", p)
	}
}

func TestDiaryListNewestFirst(t *testing.T) {
	stores := NewInMemoryStores()
	ctx := context.Background()
	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	for i, text := range []string{"primeira", "segunda", "terceira"} {
		e := DiaryEntry{UserID: "u1", Text: text, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if _, err := stores.Diary.Create(ctx, e); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	entries, err := stores.Diary.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(entries) != 3 || entries[0].Text != "terceira" {
		t.Fatalf("entries = %+v, want newest first", entries)
	}
}
