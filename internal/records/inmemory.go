package records

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NewInMemoryStores builds in-process record stores for local/dev use.
func NewInMemoryStores() *Stores {
	shared := &inMemory{
		reminders: make(map[string][]Reminder),
		contacts:  make(map[string][]Contact),
		profiles:  make(map[string]Profile),
		diary:     make(map[string][]DiaryEntry),
	}
	return &Stores{
		Reminders: (*inMemoryReminders)(shared),
		Contacts:  (*inMemoryContacts)(shared),
		Profiles:  (*inMemoryProfiles)(shared),
		Diary:     (*inMemoryDiary)(shared),
	}
}

type inMemory struct {
	mu        sync.RWMutex
	reminders map[string][]Reminder
	contacts  map[string][]Contact
	profiles  map[string]Profile
	diary     map[string][]DiaryEntry
}

type inMemoryReminders inMemory

func (s *inMemoryReminders) Create(_ context.Context, r Reminder) (Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.Kind = NormalizeKind(r.Kind)
	s.reminders[r.UserID] = append(s.reminders[r.UserID], r)
	return r, nil
}

func (s *inMemoryReminders) Get(_ context.Context, userID, id string) (Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reminders[userID] {
		if r.ID == id {
			return r, nil
		}
	}
	return Reminder{}, ErrNotFound
}

func (s *inMemoryReminders) ListByUser(_ context.Context, userID string) ([]Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Reminder, len(s.reminders[userID]))
	copy(out, s.reminders[userID])
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}

func (s *inMemoryReminders) PendingFrom(_ context.Context, userID string, from time.Time, limit int) ([]Reminder, error) {
	if limit <= 0 {
		limit = 5
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Reminder, 0, limit)
	for _, r := range s.reminders[userID] {
		if r.Done || r.At.Before(from) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *inMemoryReminders) Update(_ context.Context, r Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	arr := s.reminders[r.UserID]
	for i := range arr {
		if arr[i].ID == r.ID {
			r.CreatedAt = arr[i].CreatedAt
			r.Kind = NormalizeKind(r.Kind)
			arr[i] = r
			return nil
		}
	}
	return ErrNotFound
}

func (s *inMemoryReminders) MarkDone(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	arr := s.reminders[userID]
	for i := range arr {
		if arr[i].ID == id {
			arr[i].Done = true
			return nil
		}
	}
	return ErrNotFound
}

func (s *inMemoryReminders) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	arr := s.reminders[userID]
	for i := range arr {
		if arr[i].ID == id {
			s.reminders[userID] = append(arr[:i], arr[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type inMemoryContacts inMemory

func (s *inMemoryContacts) Create(_ context.Context, c Contact) (Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.contacts[c.UserID] = append(s.contacts[c.UserID], c)
	return c, nil
}

func (s *inMemoryContacts) Get(_ context.Context, userID, id string) (Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contacts[userID] {
		if c.ID == id {
			return c, nil
		}
	}
	return Contact{}, ErrNotFound
}

func (s *inMemoryContacts) ListByUser(_ context.Context, userID string) ([]Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Contact, len(s.contacts[userID]))
	copy(out, s.contacts[userID])
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *inMemoryContacts) Emergency(_ context.Context, userID string) ([]Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Contact, 0, 4)
	for _, c := range s.contacts[userID] {
		if c.Emergency {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *inMemoryContacts) Update(_ context.Context, c Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	arr := s.contacts[c.UserID]
	for i := range arr {
		if arr[i].ID == c.ID {
			c.CreatedAt = arr[i].CreatedAt
			arr[i] = c
			return nil
		}
	}
	return ErrNotFound
}

func (s *inMemoryContacts) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	arr := s.contacts[userID]
	for i := range arr {
		if arr[i].ID == id {
			s.contacts[userID] = append(arr[:i], arr[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type inMemoryProfiles inMemory

func (s *inMemoryProfiles) Get(_ context.Context, userID string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (s *inMemoryProfiles) Put(_ context.Context, p Profile) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.profiles[p.UserID]; ok {
		p.CreatedAt = prev.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.profiles[p.UserID] = p
	return p, nil
}

type inMemoryDiary inMemory

func (s *inMemoryDiary) Create(_ context.Context, e DiaryEntry) (DiaryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.diary[e.UserID] = append(s.diary[e.UserID], e)
	return e, nil
}

func (s *inMemoryDiary) ListByUser(_ context.Context, userID string) ([]DiaryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DiaryEntry, len(s.diary[userID]))
	copy(out, s.diary[userID])
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *inMemoryDiary) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	arr := s.diary[userID]
	for i := range arr {
		if arr[i].ID == id {
			s.diary[userID] = append(arr[:i], arr[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
