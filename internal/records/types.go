package records

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("record not found")

type ReminderKind string

const (
	ReminderMedication  ReminderKind = "medicamento"
	ReminderMeal        ReminderKind = "refeicao"
	ReminderAppointment ReminderKind = "consulta"
	ReminderOther       ReminderKind = "outro"
)

// NormalizeKind maps unknown values to "outro", the original default.
func NormalizeKind(k ReminderKind) ReminderKind {
	switch k {
	case ReminderMedication, ReminderMeal, ReminderAppointment, ReminderOther:
		return k
	default:
		return ReminderOther
	}
}

// Reminder is a scheduled item (lembrete) owned by a user.
type Reminder struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Title       string       `json:"titulo"`
	Description string       `json:"descricao,omitempty"`
	At          time.Time    `json:"data_hora"`
	Done        bool         `json:"concluido"`
	Kind        ReminderKind `json:"tipo"`
	CreatedAt   time.Time    `json:"criado_em"`
}

// Contact is a phone contact (contato), optionally flagged for emergencies.
type Contact struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"nome"`
	Phone     string    `json:"telefone"`
	Emergency bool      `json:"is_emergencia"`
	CreatedAt time.Time `json:"criado_em"`
}

// Profile holds the patient record tied one-to-one to a user.
type Profile struct {
	UserID    string     `json:"user_id"`
	FullName  string     `json:"nome_completo"`
	BirthDate *time.Time `json:"data_nascimento,omitempty"`
	CreatedAt time.Time  `json:"criado_em"`
}

// DiaryEntry is a free-text diary note (entrada de diário).
type DiaryEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"texto"`
	CreatedAt time.Time `json:"data_criacao"`
}

type ReminderStore interface {
	Create(ctx context.Context, r Reminder) (Reminder, error)
	Get(ctx context.Context, userID, id string) (Reminder, error)
	ListByUser(ctx context.Context, userID string) ([]Reminder, error)

	// PendingFrom returns the user's not-done reminders scheduled at or after
	// `from`, most imminent first, capped at `limit`.
	PendingFrom(ctx context.Context, userID string, from time.Time, limit int) ([]Reminder, error)

	Update(ctx context.Context, r Reminder) error
	MarkDone(ctx context.Context, userID, id string) error
	Delete(ctx context.Context, userID, id string) error
}

type ContactStore interface {
	Create(ctx context.Context, c Contact) (Contact, error)
	Get(ctx context.Context, userID, id string) (Contact, error)
	ListByUser(ctx context.Context, userID string) ([]Contact, error)
	Emergency(ctx context.Context, userID string) ([]Contact, error)
	Update(ctx context.Context, c Contact) error
	Delete(ctx context.Context, userID, id string) error
}

type ProfileStore interface {
	Get(ctx context.Context, userID string) (Profile, error)
	Put(ctx context.Context, p Profile) (Profile, error)
}

type DiaryStore interface {
	Create(ctx context.Context, e DiaryEntry) (DiaryEntry, error)
	ListByUser(ctx context.Context, userID string) ([]DiaryEntry, error)
	Delete(ctx context.Context, userID, id string) error
}

// Stores bundles the per-entity stores behind one lifecycle.
type Stores struct {
	Reminders ReminderStore
	Contacts  ContactStore
	Profiles  ProfileStore
	Diary     DiaryStore

	close func() error
}

func (s *Stores) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}
