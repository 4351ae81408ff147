package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MatheusCastilhos/guardiao-backend/internal/records"
)

type profileRequest struct {
	FullName  string `json:"nome_completo"`
	BirthDate string `json:"data_nascimento"`
}

const birthDateLayout = "2006-01-02"

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.records.Profiles.Get(r.Context(), userIDFrom(r))
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "no profile registered yet")
			return
		}
		s.metrics.StoreErrors.WithLabelValues("profiles").Inc()
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "expected a JSON profile")
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		respondError(w, http.StatusBadRequest, "invalid_profile", "nome_completo is required")
		return
	}

	profile := records.Profile{
		UserID:   userIDFrom(r),
		FullName: strings.TrimSpace(req.FullName),
	}
	if raw := strings.TrimSpace(req.BirthDate); raw != "" {
		birth, err := time.Parse(birthDateLayout, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_profile", "data_nascimento must be YYYY-MM-DD")
			return
		}
		if birth.After(time.Now()) {
			respondError(w, http.StatusBadRequest, "invalid_profile", "data_nascimento must be in the past")
			return
		}
		profile.BirthDate = &birth
	}

	saved, err := s.records.Profiles.Put(r.Context(), profile)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("profiles").Inc()
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, saved)
}
