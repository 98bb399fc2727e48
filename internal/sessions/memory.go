package sessions

import (
	"context"
	"sync"

	"github.com/speedx-ps/subscriber-hub/internal/models"
)

// MemoryStore хранит сессии в памяти процесса. Используется в тестах.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewMemoryStore создаёт пустое in-memory хранилище сессий.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]models.Session)}
}

// Get возвращает сохранённую сессию пользователя или ErrNoSession.
func (s *MemoryStore) Get(_ context.Context, username string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[username]
	if !ok {
		return nil, ErrNoSession
	}
	return &session, nil
}

// Set сохраняет сессию пользователя, перезаписывая существующую.
func (s *MemoryStore) Set(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Username] = session
	return nil
}

// Delete удаляет сохранённую сессию пользователя.
func (s *MemoryStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, username)
	return nil
}
