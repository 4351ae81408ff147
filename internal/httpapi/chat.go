package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MatheusCastilhos/guardiao-backend/internal/assistant"
	"github.com/MatheusCastilhos/guardiao-backend/internal/transcript"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Resposta string `json:"resposta"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "expected JSON body with a message field")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "empty_message", "message must not be empty")
		return
	}

	answer, err := s.runTurn(r.Context(), userIDFrom(r), req.Message)
	if err != nil {
		status, code := statusForTurnError(err)
		respondError(w, status, code, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, chatResponse{Resposta: answer})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	turns, err := s.transcripts.PriorTurns(r.Context(), userIDFrom(r), limit)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("transcript").Inc()
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if turns == nil {
		turns = []transcript.Turn{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"turns": turns})
}

// runTurn produces the assistant answer for one user message and records
// both sides of the exchange. The engine itself never writes the transcript;
// the pair is appended here only after the completion succeeded, so a failed
// turn leaves no trace in the history.
func (s *Server) runTurn(ctx context.Context, userID, message string) (string, error) {
	engine, err := s.chatEngine()
	if err != nil {
		s.metrics.ChatTurns.WithLabelValues(outcomeFor(err)).Inc()
		return "", err
	}

	start := time.Now()
	answer, err := engine.HandleTurn(ctx, userID, message, time.Now())
	s.metrics.ObserveTurnLatency(time.Since(start))
	if err != nil {
		s.metrics.ChatTurns.WithLabelValues(outcomeFor(err)).Inc()
		return "", err
	}

	if _, err := s.transcripts.Append(ctx, userID, transcript.RoleUser, message); err != nil {
		s.metrics.StoreErrors.WithLabelValues("transcript").Inc()
		s.metrics.ChatTurns.WithLabelValues("persistence_error").Inc()
		return "", fmt.Errorf("%w: append user turn: %v", assistant.ErrPersistence, err)
	}
	if _, err := s.transcripts.Append(ctx, userID, transcript.RoleAssistant, answer); err != nil {
		s.metrics.StoreErrors.WithLabelValues("transcript").Inc()
		s.metrics.ChatTurns.WithLabelValues("persistence_error").Inc()
		return "", fmt.Errorf("%w: append assistant turn: %v", assistant.ErrPersistence, err)
	}

	s.metrics.ChatTurns.WithLabelValues("ok").Inc()
	return answer, nil
}

func statusForTurnError(err error) (int, string) {
	switch {
	case errors.Is(err, assistant.ErrConfiguration):
		return http.StatusServiceUnavailable, "configuration_error"
	case errors.Is(err, assistant.ErrDataUnavailable):
		return http.StatusBadGateway, "data_unavailable"
	case errors.Is(err, assistant.ErrCompletion):
		return http.StatusBadGateway, "completion_error"
	case errors.Is(err, assistant.ErrPersistence):
		return http.StatusInternalServerError, "persistence_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func outcomeFor(err error) string {
	_, code := statusForTurnError(err)
	return code
}
