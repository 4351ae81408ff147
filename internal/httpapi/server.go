package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/MatheusCastilhos/guardiao-backend/internal/assistant"
	"github.com/MatheusCastilhos/guardiao-backend/internal/auth"
	"github.com/MatheusCastilhos/guardiao-backend/internal/completion"
	"github.com/MatheusCastilhos/guardiao-backend/internal/config"
	"github.com/MatheusCastilhos/guardiao-backend/internal/observability"
	"github.com/MatheusCastilhos/guardiao-backend/internal/records"
	"github.com/MatheusCastilhos/guardiao-backend/internal/transcript"
)

type Server struct {
	cfg         config.Config
	authStore   auth.Store
	records     *records.Stores
	transcripts transcript.Store
	metrics     *observability.Metrics
	upgrader    websocket.Upgrader

	// The chat engine is built on first use, not at process start, so
	// administrative and CRUD paths never require completion credentials.
	// A construction failure is cached: the configuration is process-level
	// and will not change without a restart.
	engineOnce sync.Once
	engine     *assistant.Engine
	engineErr  error
	newEngine  func() (*assistant.Engine, error)
}

func New(cfg config.Config, authStore auth.Store, recordStores *records.Stores, transcripts transcript.Store, metrics *observability.Metrics) *Server {
	s := &Server{
		cfg:         cfg,
		authStore:   authStore,
		records:     recordStores,
		transcripts: transcripts,
		metrics:     metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same
				// origin unless explicitly opened up. Non-browser clients
				// often omit Origin; allow them.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
	s.newEngine = s.buildEngine
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", observability.MetricsHandler())

	r.Post("/v1/auth/register", s.handleRegister)
	r.Post("/v1/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Post("/v1/chat", s.handleChat)
		r.Get("/v1/chat/history", s.handleChatHistory)
		r.Get("/v1/chat/ws", s.handleChatWS)

		r.Route("/v1/reminders", func(r chi.Router) {
			r.Get("/", s.handleListReminders)
			r.Post("/", s.handleCreateReminder)
			r.Get("/{id}", s.handleGetReminder)
			r.Put("/{id}", s.handleUpdateReminder)
			r.Post("/{id}/done", s.handleMarkReminderDone)
			r.Delete("/{id}", s.handleDeleteReminder)
		})

		r.Route("/v1/contacts", func(r chi.Router) {
			r.Get("/", s.handleListContacts)
			r.Post("/", s.handleCreateContact)
			r.Put("/{id}", s.handleUpdateContact)
			r.Delete("/{id}", s.handleDeleteContact)
		})

		r.Route("/v1/diary", func(r chi.Router) {
			r.Get("/", s.handleListDiary)
			r.Post("/", s.handleCreateDiaryEntry)
			r.Delete("/{id}", s.handleDeleteDiaryEntry)
		})

		r.Get("/v1/profile", s.handleGetProfile)
		r.Put("/v1/profile", s.handlePutProfile)
	})

	return r
}

func (s *Server) buildEngine() (*assistant.Engine, error) {
	client, err := completion.NewHFClient(completion.Config{
		APIKey:  s.cfg.HFToken,
		ModelID: s.cfg.HFModelID,
		BaseURL: s.cfg.HFBaseURL,
		Timeout: s.cfg.CompletionTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", assistant.ErrConfiguration, err)
	}

	builder := assistant.NewContextBuilder(s.records.Reminders, s.records.Contacts, s.records.Profiles)
	return assistant.NewEngine(assistant.EngineConfig{
		SystemPromptPath: s.cfg.SystemPromptPath,
		Temperature:      s.cfg.ChatTemperature,
		MaxTokens:        s.cfg.ChatMaxTokens,
		HistoryWindow:    s.cfg.ChatHistoryWindow,
	}, client, s.transcripts, builder)
}

func (s *Server) chatEngine() (*assistant.Engine, error) {
	s.engineOnce.Do(func() {
		s.engine, s.engineErr = s.newEngine()
	})
	return s.engine, s.engineErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"store_mode": s.storeMode(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ready",
		"store_mode": s.storeMode(),
	})
}

func (s *Server) storeMode() string {
	if strings.TrimSpace(s.cfg.DatabaseURL) == "" {
		return "in-memory"
	}
	return "postgres"
}

type ctxKey string

const ctxKeyUserID ctxKey = "user_id"

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "missing_token", "Authorization header is required")
			return
		}
		userID, err := s.authStore.ResolveToken(r.Context(), token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid_token", "token is invalid or expired")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyUserID, userID)))
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	for _, scheme := range []string{"Bearer ", "Token "} {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}

func userIDFrom(r *http.Request) string {
	userID, _ := r.Context().Value(ctxKeyUserID).(string)
	return userID
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func respondRecordError(w http.ResponseWriter, err error) {
	if errors.Is(err, records.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "record not found")
		return
	}
	respondError(w, http.StatusInternalServerError, "store_error", err.Error())
}
