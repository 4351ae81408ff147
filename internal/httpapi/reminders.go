package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MatheusCastilhos/guardiao-backend/internal/records"
)

type reminderRequest struct {
	Title       string               `json:"titulo"`
	Description string               `json:"descricao"`
	At          time.Time            `json:"data_hora"`
	Kind        records.ReminderKind `json:"tipo"`
	Done        *bool                `json:"concluido"`
}

func (req *reminderRequest) validate() (string, bool) {
	if strings.TrimSpace(req.Title) == "" {
		return "titulo is required", false
	}
	if req.At.IsZero() {
		return "data_hora is required", false
	}
	return "", true
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := s.records.Reminders.ListByUser(r.Context(), userIDFrom(r))
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("reminders").Inc()
		respondRecordError(w, err)
		return
	}
	if reminders == nil {
		reminders = []records.Reminder{}
	}
	respondJSON(w, http.StatusOK, reminders)
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "expected a JSON reminder")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondError(w, http.StatusBadRequest, "invalid_reminder", msg)
		return
	}

	created, err := s.records.Reminders.Create(r.Context(), records.Reminder{
		UserID:      userIDFrom(r),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		At:          req.At,
		Kind:        records.NormalizeKind(req.Kind),
	})
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("reminders").Inc()
		respondRecordError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetReminder(w http.ResponseWriter, r *http.Request) {
	reminder, err := s.records.Reminders.Get(r.Context(), userIDFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		respondRecordError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reminder)
}

func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "expected a JSON reminder")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondError(w, http.StatusBadRequest, "invalid_reminder", msg)
		return
	}

	userID := userIDFrom(r)
	current, err := s.records.Reminders.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondRecordError(w, err)
		return
	}

	current.Title = strings.TrimSpace(req.Title)
	current.Description = strings.TrimSpace(req.Description)
	current.At = req.At
	current.Kind = records.NormalizeKind(req.Kind)
	if req.Done != nil {
		current.Done = *req.Done
	}

	if err := s.records.Reminders.Update(r.Context(), current); err != nil {
		s.metrics.StoreErrors.WithLabelValues("reminders").Inc()
		respondRecordError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, current)
}

func (s *Server) handleMarkReminderDone(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	id := chi.URLParam(r, "id")
	if err := s.records.Reminders.MarkDone(r.Context(), userID, id); err != nil {
		respondRecordError(w, err)
		return
	}
	reminder, err := s.records.Reminders.Get(r.Context(), userID, id)
	if err != nil {
		respondRecordError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reminder)
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := s.records.Reminders.Delete(r.Context(), userIDFrom(r), chi.URLParam(r, "id")); err != nil {
		respondRecordError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
