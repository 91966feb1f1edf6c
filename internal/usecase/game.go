package usecase

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/entity"
)

type GameUseCase interface {
	CreateSession(ctx context.Context, mode string) (*entity.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)

	NewGame(ctx context.Context, sessionID string) (*entity.Session, error)
	ResetStatistics(ctx context.Context, sessionID string) (*entity.Session, error)

	PlayCell(ctx context.Context, sessionID string, cell int) (*entity.Session, error)
}

type sessionService interface {
	CreateSession(ctx context.Context, mode string) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
}

type gamePlayService interface {
	PlayCell(ctx context.Context, sessionID string, cell int) (*entity.Session, error)
	NewGame(ctx context.Context, sessionID string) (*entity.Session, error)
	ResetStatistics(ctx context.Context, sessionID string) (*entity.Session, error)
}

type gameUseCase struct {
	sessionService  sessionService
	gamePlayService gamePlayService
}

func NewGameUseCase(sessionService sessionService, gamePlayService gamePlayService) GameUseCase {
	return &gameUseCase{
		sessionService:  sessionService,
		gamePlayService: gamePlayService,
	}
}

func (that *gameUseCase) CreateSession(ctx context.Context, mode string) (*entity.Session, error) {
	if mode == "" {
		mode = entity.ModeComputer
	}

	session, err := that.sessionService.CreateSession(ctx, mode)
	if err != nil {
		return nil, fmt.Errorf("could not create session: %w", err)
	}

	return session, nil
}

func (that *gameUseCase) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := that.sessionService.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *gameUseCase) NewGame(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := that.gamePlayService.NewGame(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to start new game: %w", err)
	}

	return session, nil
}

func (that *gameUseCase) ResetStatistics(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := that.gamePlayService.ResetStatistics(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to reset statistics: %w", err)
	}

	return session, nil
}

// PlayCell - the session is returned alongside a rejection so callers can
// still render the current board.
func (that *gameUseCase) PlayCell(ctx context.Context, sessionID string, cell int) (*entity.Session, error) {
	session, err := that.gamePlayService.PlayCell(ctx, sessionID, cell)
	if err != nil {
		return session, fmt.Errorf("failed to make turn: %w", err)
	}

	return session, nil
}
