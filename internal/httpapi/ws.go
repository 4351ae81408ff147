package httpapi

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPongTimeout  = 90 * time.Second
	wsPingInterval = 30 * time.Second
)

type wsInbound struct {
	Message string `json:"message"`
}

type wsOutbound struct {
	Resposta string `json:"resposta,omitempty"`
	Error    string `json:"error,omitempty"`
	Code     string `json:"code,omitempty"`
}

// handleChatWS serves the same turn loop as POST /v1/chat over a websocket:
// one JSON message in, one JSON answer out, repeated until the client hangs
// up. Turns on a single connection are handled sequentially so the
// transcript keeps the request order.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
			case <-done:
				return
			}
		}
	}()

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("chat ws: read for user %s: %v", userID, err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsPongTimeout))

		if strings.TrimSpace(in.Message) == "" {
			if !s.writeWS(conn, wsOutbound{Error: "message must not be empty", Code: "empty_message"}) {
				return
			}
			continue
		}

		answer, err := s.runTurn(r.Context(), userID, in.Message)
		if err != nil {
			_, code := statusForTurnError(err)
			if !s.writeWS(conn, wsOutbound{Error: err.Error(), Code: code}) {
				return
			}
			continue
		}
		if !s.writeWS(conn, wsOutbound{Resposta: answer}) {
			return
		}
	}
}

func (s *Server) writeWS(conn *websocket.Conn, out wsOutbound) bool {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(out); err != nil {
		return false
	}
	return true
}
