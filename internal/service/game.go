package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/entity"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/tictactoe"
)

type SessionService interface {
	CreateSession(ctx context.Context, mode string) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	UpdateSession(ctx context.Context, session *entity.Session) error
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
}

type sessionService struct {
	sessionRepo sessionRepo
	now         func() time.Time
}

func NewSessionService(sessionRepo sessionRepo) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

func (that *sessionService) CreateSession(ctx context.Context, mode string) (*entity.Session, error) {
	if err := entity.ValidateMode(mode); err != nil {
		return nil, err
	}

	session := &entity.Session{
		ID:   uuid.NewString(),
		Mode: mode,
	}
	restartGame(session)

	if err := that.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func (that *sessionService) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve session from storage: %w", err)
	}

	return session, nil
}

func (that *sessionService) UpdateSession(ctx context.Context, session *entity.Session) error {
	session.UpdatedAt = that.now().UTC()

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

// restartGame replaces the session's game with a fresh one under a new game
// id. Advisor answers issued for the previous id are dropped.
func restartGame(session *entity.Session) {
	session.GameID = uuid.NewString()
	session.Game = tictactoe.Reset()
	session.Loading = false
}
