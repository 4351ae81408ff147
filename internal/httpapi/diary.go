package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MatheusCastilhos/guardiao-backend/internal/records"
)

type diaryRequest struct {
	Text string `json:"texto"`
}

func (s *Server) handleListDiary(w http.ResponseWriter, r *http.Request) {
	entries, err := s.records.Diary.ListByUser(r.Context(), userIDFrom(r))
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("diary").Inc()
		respondRecordError(w, err)
		return
	}
	if entries == nil {
		entries = []records.DiaryEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateDiaryEntry(w http.ResponseWriter, r *http.Request) {
	var req diaryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "expected a JSON diary entry")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "invalid_entry", "texto is required")
		return
	}

	created, err := s.records.Diary.Create(r.Context(), records.DiaryEntry{
		UserID: userIDFrom(r),
		Text:   strings.TrimSpace(req.Text),
	})
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("diary").Inc()
		respondRecordError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteDiaryEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.records.Diary.Delete(r.Context(), userIDFrom(r), chi.URLParam(r, "id")); err != nil {
		respondRecordError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
