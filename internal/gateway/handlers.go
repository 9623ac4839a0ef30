package gateway

import (
	"encoding/json"
	"net/http"

	"goodfoods/internal/agent"

	"github.com/google/uuid"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// handleChat streams one conversational turn as SSE. An omitted session_id
// gets a fresh one, echoed in every event so the client can continue the
// conversation.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	sse := NewSSEWriter(w)

	s.runner.Run(r.Context(), req.SessionID, req.Message, func(ev agent.Event) {
		switch ev.Type {
		case agent.EventToolCall:
			sse.Send("tool_call", envelope(req.SessionID, ev.Data))
		case agent.EventToolResult:
			sse.Send("tool_result", envelope(req.SessionID, ev.Data))
		case agent.EventDone:
			sse.Send("done", map[string]any{
				"session_id": req.SessionID,
				"reply":      ev.Data,
			})
		}
	})
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	s.runner.Reset(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func envelope(sessionID string, data any) map[string]any {
	out := map[string]any{"session_id": sessionID}
	if m, ok := data.(map[string]string); ok {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
