package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MatheusCastilhos/guardiao-backend/internal/records"
)

type contactRequest struct {
	Name      string `json:"nome"`
	Phone     string `json:"telefone"`
	Emergency bool   `json:"is_emergencia"`
}

func (req *contactRequest) validate() (string, bool) {
	if strings.TrimSpace(req.Name) == "" {
		return "nome is required", false
	}
	if strings.TrimSpace(req.Phone) == "" {
		return "telefone is required", false
	}
	return "", true
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	// ?emergencia=true narrows the list to emergency contacts only.
	var (
		contacts []records.Contact
		err      error
	)
	if r.URL.Query().Get("emergencia") == "true" {
		contacts, err = s.records.Contacts.Emergency(r.Context(), userIDFrom(r))
	} else {
		contacts, err = s.records.Contacts.ListByUser(r.Context(), userIDFrom(r))
	}
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("contacts").Inc()
		respondRecordError(w, err)
		return
	}
	if contacts == nil {
		contacts = []records.Contact{}
	}
	respondJSON(w, http.StatusOK, contacts)
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "expected a JSON contact")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondError(w, http.StatusBadRequest, "invalid_contact", msg)
		return
	}

	created, err := s.records.Contacts.Create(r.Context(), records.Contact{
		UserID:    userIDFrom(r),
		Name:      strings.TrimSpace(req.Name),
		Phone:     strings.TrimSpace(req.Phone),
		Emergency: req.Emergency,
	})
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("contacts").Inc()
		respondRecordError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "expected a JSON contact")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondError(w, http.StatusBadRequest, "invalid_contact", msg)
		return
	}

	userID := userIDFrom(r)
	current, err := s.records.Contacts.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondRecordError(w, err)
		return
	}

	current.Name = strings.TrimSpace(req.Name)
	current.Phone = strings.TrimSpace(req.Phone)
	current.Emergency = req.Emergency

	if err := s.records.Contacts.Update(r.Context(), current); err != nil {
		s.metrics.StoreErrors.WithLabelValues("contacts").Inc()
		respondRecordError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, current)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := s.records.Contacts.Delete(r.Context(), userIDFrom(r), chi.URLParam(r, "id")); err != nil {
		respondRecordError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
