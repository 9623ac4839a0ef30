package agent

import (
	"sync"

	"github.com/openai/openai-go/v3"
)

// SessionStore holds per-session conversation transcripts in memory.
// Transcripts live only for the process lifetime; there is no durable
// history.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string][]openai.ChatCompletionMessageParamUnion
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string][]openai.ChatCompletionMessageParamUnion)}
}

// History returns a copy of the session's transcript.
func (s *SessionStore) History(sessionID string) []openai.ChatCompletionMessageParamUnion {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.sessions[sessionID]
	out := make([]openai.ChatCompletionMessageParamUnion, len(history))
	copy(out, history)
	return out
}

func (s *SessionStore) Append(sessionID string, messages ...openai.ChatCompletionMessageParamUnion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], messages...)
}

func (s *SessionStore) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
