// Package memory keeps session history in process memory, the fallback
// session store when Postgres is not configured.
package memory

import (
	"context"
	"sync"

	"github.com/mbaranov/ops-support-assistant/internal/core/domain"
)

type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.History
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.History)}
}

func (s *SessionStore) EnsureSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		s.sessions[sessionID] = domain.History{}
	}
	return nil
}

func (s *SessionStore) AppendTurn(_ context.Context, sessionID string, turn domain.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], turn)
	return nil
}

func (s *SessionStore) RecentTurns(_ context.Context, sessionID string, limit int) (domain.History, error) {
	if limit <= 0 {
		limit = domain.HistoryTurnLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.sessions[sessionID]
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make(domain.History, len(history))
	copy(out, history)
	return out, nil
}
