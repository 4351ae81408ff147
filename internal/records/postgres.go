package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStores backs all record stores with one PostgreSQL pool.
type PostgresStores struct {
	pool *pgxpool.Pool
}

func NewPostgresStores(ctx context.Context, databaseURL string) (*Stores, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initRecordSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	ps := &PostgresStores{pool: pool}
	return &Stores{
		Reminders: (*postgresReminders)(ps),
		Contacts:  (*postgresContacts)(ps),
		Profiles:  (*postgresProfiles)(ps),
		Diary:     (*postgresDiary)(ps),
		close: func() error {
			pool.Close()
			return nil
		},
	}, nil
}

func initRecordSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reminders (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			at TIMESTAMPTZ NOT NULL,
			done BOOLEAN NOT NULL DEFAULT FALSE,
			kind TEXT NOT NULL DEFAULT 'outro',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_user_at ON reminders (user_id, at);`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			emergency BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_user ON contacts (user_id);`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			birth_date DATE NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS diary_entries (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_diary_entries_user_created ON diary_entries (user_id, created_at DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init record schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

type postgresReminders PostgresStores

func (s *postgresReminders) Create(ctx context.Context, r Reminder) (Reminder, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.Kind = NormalizeKind(r.Kind)

	_, err := s.pool.Exec(ctx,
		`INSERT INTO reminders (id, user_id, title, description, at, done, kind, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		r.ID, r.UserID, r.Title, r.Description, r.At, r.Done, string(r.Kind), r.CreatedAt,
	)
	if err != nil {
		return Reminder{}, fmt.Errorf("create reminder: %w", err)
	}
	return r, nil
}

func (s *postgresReminders) Get(ctx context.Context, userID, id string) (Reminder, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, title, description, at, done, kind, created_at
		 FROM reminders WHERE id=$1 AND user_id=$2`,
		id, userID,
	)
	r, err := scanReminder(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return Reminder{}, ErrNotFound
		}
		return Reminder{}, fmt.Errorf("get reminder: %w", err)
	}
	return r, nil
}

func (s *postgresReminders) ListByUser(ctx context.Context, userID string) ([]Reminder, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, title, description, at, done, kind, created_at
		 FROM reminders WHERE user_id=$1 ORDER BY at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()
	return collectReminders(rows)
}

func (s *postgresReminders) PendingFrom(ctx context.Context, userID string, from time.Time, limit int) ([]Reminder, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, title, description, at, done, kind, created_at
		 FROM reminders WHERE user_id=$1 AND done=FALSE AND at>=$2
		 ORDER BY at ASC LIMIT $3`,
		userID, from, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending reminders: %w", err)
	}
	defer rows.Close()
	return collectReminders(rows)
}

func (s *postgresReminders) Update(ctx context.Context, r Reminder) error {
	r.Kind = NormalizeKind(r.Kind)
	tag, err := s.pool.Exec(ctx,
		`UPDATE reminders SET title=$3, description=$4, at=$5, done=$6, kind=$7
		 WHERE id=$1 AND user_id=$2`,
		r.ID, r.UserID, r.Title, r.Description, r.At, r.Done, string(r.Kind),
	)
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *postgresReminders) MarkDone(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE reminders SET done=TRUE WHERE id=$1 AND user_id=$2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("mark reminder done: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *postgresReminders) Delete(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM reminders WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanReminder(row pgx.Row) (Reminder, error) {
	var (
		r    Reminder
		kind string
	)
	if err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.At, &r.Done, &kind, &r.CreatedAt); err != nil {
		return Reminder{}, err
	}
	r.Kind = ReminderKind(kind)
	return r, nil
}

func collectReminders(rows pgx.Rows) ([]Reminder, error) {
	out := make([]Reminder, 0, 8)
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminder rows: %w", err)
	}
	return out, nil
}

type postgresContacts PostgresStores

func (s *postgresContacts) Create(ctx context.Context, c Contact) (Contact, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO contacts (id, user_id, name, phone, emergency, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.UserID, c.Name, c.Phone, c.Emergency, c.CreatedAt,
	)
	if err != nil {
		return Contact{}, fmt.Errorf("create contact: %w", err)
	}
	return c, nil
}

func (s *postgresContacts) Get(ctx context.Context, userID, id string) (Contact, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, name, phone, emergency, created_at
		 FROM contacts WHERE id=$1 AND user_id=$2`,
		id, userID,
	)
	var c Contact
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Emergency, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return Contact{}, ErrNotFound
		}
		return Contact{}, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

func (s *postgresContacts) ListByUser(ctx context.Context, userID string) ([]Contact, error) {
	return s.list(ctx,
		`SELECT id, user_id, name, phone, emergency, created_at
		 FROM contacts WHERE user_id=$1 ORDER BY name ASC`,
		userID,
	)
}

func (s *postgresContacts) Emergency(ctx context.Context, userID string) ([]Contact, error) {
	return s.list(ctx,
		`SELECT id, user_id, name, phone, emergency, created_at
		 FROM contacts WHERE user_id=$1 AND emergency=TRUE ORDER BY name ASC`,
		userID,
	)
}

func (s *postgresContacts) list(ctx context.Context, query, userID string) ([]Contact, error) {
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := make([]Contact, 0, 8)
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Emergency, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact rows: %w", err)
	}
	return out, nil
}

func (s *postgresContacts) Update(ctx context.Context, c Contact) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE contacts SET name=$3, phone=$4, emergency=$5 WHERE id=$1 AND user_id=$2`,
		c.ID, c.UserID, c.Name, c.Phone, c.Emergency,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *postgresContacts) Delete(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM contacts WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type postgresProfiles PostgresStores

func (s *postgresProfiles) Get(ctx context.Context, userID string) (Profile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT user_id, full_name, birth_date, created_at FROM profiles WHERE user_id=$1`,
		userID,
	)
	var p Profile
	if err := row.Scan(&p.UserID, &p.FullName, &p.BirthDate, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *postgresProfiles) Put(ctx context.Context, p Profile) (Profile, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, full_name, birth_date, created_at)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (user_id) DO UPDATE SET
			full_name=EXCLUDED.full_name,
			birth_date=EXCLUDED.birth_date`,
		p.UserID, p.FullName, p.BirthDate, p.CreatedAt,
	)
	if err != nil {
		return Profile{}, fmt.Errorf("put profile: %w", err)
	}
	return p, nil
}

type postgresDiary PostgresStores

func (s *postgresDiary) Create(ctx context.Context, e DiaryEntry) (DiaryEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO diary_entries (id, user_id, text, created_at) VALUES ($1,$2,$3,$4)`,
		e.ID, e.UserID, e.Text, e.CreatedAt,
	)
	if err != nil {
		return DiaryEntry{}, fmt.Errorf("create diary entry: %w", err)
	}
	return e, nil
}

func (s *postgresDiary) ListByUser(ctx context.Context, userID string) ([]DiaryEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, text, created_at
		 FROM diary_entries WHERE user_id=$1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}
	defer rows.Close()

	out := make([]DiaryEntry, 0, 8)
	for rows.Next() {
		var e DiaryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Text, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan diary row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diary rows: %w", err)
	}
	return out, nil
}

func (s *postgresDiary) Delete(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM diary_entries WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete diary entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
