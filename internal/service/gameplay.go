package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/entity"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/tictactoe"
)

const (
	defaultPendingTimeout = 2 * defaultAdvisorTimeout

	storageAttempts = 2
)

type GamePlayService interface {
	PlayCell(ctx context.Context, sessionID string, cell int) (*entity.Session, error)
	NewGame(ctx context.Context, sessionID string) (*entity.Session, error)
	ResetStatistics(ctx context.Context, sessionID string) (*entity.Session, error)
}

type gamePlayService struct {
	logger *slog.Logger

	sessionService SessionService
	gateway        AdvisorGateway

	locks *sessionLocks

	// a loading flag older than this belongs to an abandoned computer turn
	pendingTimeout time.Duration
	now            func() time.Time
}

func NewGamePlayService(
	logger *slog.Logger,
	sessionService SessionService,
	gateway AdvisorGateway,
	pendingTimeout time.Duration,
) GamePlayService {
	if logger == nil {
		logger = slog.Default()
	}

	if pendingTimeout <= 0 {
		pendingTimeout = defaultPendingTimeout
	}

	return &gamePlayService{
		logger:         logger,
		sessionService: sessionService,
		gateway:        gateway,
		locks:          newSessionLocks(),
		pendingTimeout: pendingTimeout,
		now:            time.Now,
	}
}

// PlayCell applies the active player's move on cell. Against the computer it
// then asks the advisor for the reply and applies it too, unless the game was
// restarted while the advisor was thinking. A computer turn left pending past
// the pending timeout is replayed instead and cell is ignored.
func (that *gamePlayService) PlayCell(ctx context.Context, sessionID string, cell int) (*entity.Session, error) {
	session, err := that.playHumanMove(ctx, sessionID, cell)
	if err != nil {
		return session, err
	}

	if !session.Loading {
		return session, nil
	}

	// the reply must land even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	reply, advisorErr := that.gateway.RequestOpponentMove(ctx, session.Game.Board, session.ComputerMark())

	return that.playComputerMove(ctx, sessionID, session.GameID, reply, advisorErr)
}

func (that *gamePlayService) playHumanMove(ctx context.Context, sessionID string, cell int) (*entity.Session, error) {
	unlock := that.locks.lock(sessionID)
	defer unlock()

	session, err := that.sessionService.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.Loading {
		if that.now().Sub(session.UpdatedAt) < that.pendingTimeout {
			return session, apperror.ErrAdvisorPending
		}

		that.logger.Warn("resuming abandoned computer turn",
			"method", "playHumanMove", "session", sessionID, "since", session.UpdatedAt)

		if err = that.save(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to resume computer turn: %w", err)
		}

		return session, nil
	}

	next, err := tictactoe.ApplyMove(session.Game, cell, session.Game.ActivePlayer)
	if err != nil {
		return session, err
	}

	applyGame(session, next)

	if session.IsAgainstComputer() && next.IsInProgress() {
		session.Loading = true
	}

	if err = that.save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save move: %w", err)
	}

	return session, nil
}

func (that *gamePlayService) playComputerMove(ctx context.Context, sessionID, gameID string, cell int, advisorErr error) (*entity.Session, error) {
	log := that.logger.With("method", "playComputerMove", "session", sessionID)

	unlock := that.locks.lock(sessionID)
	defer unlock()

	session, err := that.load(ctx, sessionID)
	if err != nil {
		// loading stays set; the next PlayCell replays the turn once it is stale
		log.Error("failed to reload session for computer move", "error", err)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.GameID != gameID {
		log.Info("discarding advisor move for a replaced game", "stale_game", gameID, "game", session.GameID)
		return session, nil
	}

	session.Loading = false

	if advisorErr != nil {
		log.Error("computer could not move", "error", advisorErr)

		if err = that.save(ctx, session); err != nil {
			log.Error("failed to clear loading flag", "error", err)
		}

		return session, fmt.Errorf("computer turn failed: %w", advisorErr)
	}

	next, err := tictactoe.ApplyMove(session.Game, cell, session.ComputerMark())
	if err != nil {
		log.Error("computer move rejected by engine", "cell", cell, "error", err)

		if saveErr := that.save(ctx, session); saveErr != nil {
			log.Error("failed to clear loading flag", "error", saveErr)
		}

		return session, fmt.Errorf("computer turn failed: %w", err)
	}

	applyGame(session, next)

	if err = that.save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save computer move: %w", err)
	}

	return session, nil
}

func (that *gamePlayService) NewGame(ctx context.Context, sessionID string) (*entity.Session, error) {
	return that.restart(ctx, sessionID, false)
}

// ResetStatistics - zeroes the statistics and starts a new game.
func (that *gamePlayService) ResetStatistics(ctx context.Context, sessionID string) (*entity.Session, error) {
	return that.restart(ctx, sessionID, true)
}

func (that *gamePlayService) restart(ctx context.Context, sessionID string, clearStatistics bool) (*entity.Session, error) {
	unlock := that.locks.lock(sessionID)
	defer unlock()

	session, err := that.sessionService.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	restartGame(session)
	if clearStatistics {
		session.Statistics = entity.Statistics{}
	}

	if err = that.sessionService.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to restart game: %w", err)
	}

	return session, nil
}

// load and save retry once so a single storage blip does not strand a turn.
func (that *gamePlayService) load(ctx context.Context, sessionID string) (*entity.Session, error) {
	var err error
	for range storageAttempts {
		var session *entity.Session
		if session, err = that.sessionService.GetSession(ctx, sessionID); err == nil {
			return session, nil
		}
	}

	return nil, err
}

func (that *gamePlayService) save(ctx context.Context, session *entity.Session) error {
	var err error
	for range storageAttempts {
		if err = that.sessionService.UpdateSession(ctx, session); err == nil {
			return nil
		}
	}

	return err
}

// applyGame stores next and counts it once if it just finished.
func applyGame(session *entity.Session, next entity.GameState) {
	session.Game = next
	if next.IsFinished() {
		session.Statistics.Record(tictactoe.CheckTermination(next.Board))
	}
}

// sessionLocks serializes mutations per session inside this process.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{
		locks: make(map[string]*sessionLock),
	}
}

func (that *sessionLocks) lock(id string) func() {
	that.mu.Lock()
	l, ok := that.locks[id]
	if !ok {
		l = &sessionLock{}
		that.locks[id] = l
	}
	l.refs++
	that.mu.Unlock()

	l.Lock()

	return func() {
		l.Unlock()

		that.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(that.locks, id)
		}
		that.mu.Unlock()
	}
}
