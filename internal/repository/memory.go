package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/entity"
)

type memorySession struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
}

// NewMemorySessionRepository keeps sessions in process memory. Sessions are
// stored and returned as copies.
func NewMemorySessionRepository() SessionRepository {
	return &memorySession{
		sessions: make(map[string]entity.Session),
	}
}

func (that *memorySession) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[session.ID] = copySession(*session)

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	cp := copySession(session)

	return &cp, nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[id]; !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

// copySession detaches the winning line pointer.
func copySession(session entity.Session) entity.Session {
	if session.Game.WinningLine != nil {
		line := *session.Game.WinningLine
		session.Game.WinningLine = &line
	}

	return session
}
