package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MatheusCastilhos/guardiao-backend/internal/records"
)

// DefaultPendingLimit caps how many upcoming reminders enter the context block.
const DefaultPendingLimit = 5

const (
	dateTimeLayout = "02/01/2006 15:04"
	shortLayout    = "02/01 15:04"
	dateLayout     = "02/01/2006"
)

// ContextBuilder derives the per-turn retrieval context from the user's
// records. Selection policy: not-done reminders scheduled at or after the
// caller-supplied instant, most imminent first, capped at PendingLimit; all
// emergency contacts; the patient profile when one exists.
type ContextBuilder struct {
	reminders    records.ReminderStore
	contacts     records.ContactStore
	profiles     records.ProfileStore
	pendingLimit int
}

func NewContextBuilder(reminders records.ReminderStore, contacts records.ContactStore, profiles records.ProfileStore) *ContextBuilder {
	return &ContextBuilder{
		reminders:    reminders,
		contacts:     contacts,
		profiles:     profiles,
		pendingLimit: DefaultPendingLimit,
	}
}

// BuildContext renders the context block for one turn. `now` is supplied by
// the caller, never read from a wall clock here, so output is deterministic
// for a fixed store state. Returns "" when the user has no pending
// reminders, no emergency contacts and no profile; callers must then skip
// injection entirely instead of sending a header-only block.
func (b *ContextBuilder) BuildContext(ctx context.Context, userID string, now time.Time) (string, error) {
	pending, err := b.reminders.PendingFrom(ctx, userID, now, b.pendingLimit)
	if err != nil {
		return "", fmt.Errorf("%w: fetch pending reminders: %v", ErrDataUnavailable, err)
	}

	emergency, err := b.contacts.Emergency(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%w: fetch emergency contacts: %v", ErrDataUnavailable, err)
	}

	profile, err := b.profiles.Get(ctx, userID)
	hasProfile := err == nil
	if err != nil && !errors.Is(err, records.ErrNotFound) {
		return "", fmt.Errorf("%w: fetch profile: %v", ErrDataUnavailable, err)
	}

	if len(pending) == 0 && len(emergency) == 0 && !hasProfile {
		return "", nil
	}

	parts := []string{
		fmt.Sprintf("Data/Hora Atual: %s", now.Format(dateTimeLayout)),
	}

	if len(pending) > 0 {
		parts = append(parts, "\nLEMBRETES PENDENTES:")
		for _, r := range pending {
			parts = append(parts, fmt.Sprintf(
				"- Título: %s, Data/Hora: %s (%s)",
				r.Title, r.At.Format(shortLayout), r.Kind,
			))
		}
	}

	if len(emergency) > 0 {
		parts = append(parts, "\nCONTATOS DE EMERGÊNCIA:")
		for _, c := range emergency {
			parts = append(parts, fmt.Sprintf("- Nome: %s, Telefone: %s", c.Name, c.Phone))
		}
	}

	if hasProfile {
		parts = append(parts, "\nDADOS DO PACIENTE:")
		parts = append(parts, profileLine(profile, now))
	}

	return strings.Join(parts, "\n"), nil
}

func profileLine(p records.Profile, now time.Time) string {
	line := fmt.Sprintf("- Nome: %s", p.FullName)
	if p.BirthDate == nil {
		return line
	}
	line += fmt.Sprintf(", Data de nascimento: %s", p.BirthDate.Format(dateLayout))
	line += fmt.Sprintf(" (idade aproximada: %d anos)", ageAt(*p.BirthDate, now))
	return line
}

func ageAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}
