package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/entity"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/tictactoe"
)

const defaultAdvisorTimeout = 3 * time.Second

const tracerName = "github.com/rocketscienceinc/tictactoe-advisor/internal/service"

// Advisor - anything that can suggest a cell for mark on board.
type Advisor interface {
	SuggestMove(ctx context.Context, board entity.Board, mark string) (int, error)
}

type AdvisorGateway interface {
	RequestOpponentMove(ctx context.Context, board entity.Board, mark string) (int, error)
}

type advisorGateway struct {
	logger *slog.Logger

	advisor Advisor
	random  RandomSource
	timeout time.Duration
}

func NewAdvisorGateway(logger *slog.Logger, advisor Advisor, random RandomSource, timeout time.Duration) AdvisorGateway {
	if logger == nil {
		logger = slog.Default()
	}

	if random == nil {
		random = NewRandomSource()
	}

	if timeout <= 0 {
		timeout = defaultAdvisorTimeout
	}

	return &advisorGateway{
		logger:  logger,
		advisor: advisor,
		random:  random,
		timeout: timeout,
	}
}

// RequestOpponentMove asks the advisor for mark's move on board. Any advisor
// failure falls back to a uniformly random empty cell; only a full board is
// reported as an error (apperror.ErrNoLegalMove). The board is not modified.
func (that *advisorGateway) RequestOpponentMove(ctx context.Context, board entity.Board, mark string) (int, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "advisor.RequestOpponentMove", trace.WithAttributes(
		attribute.String("advisor.mark", mark),
	))
	defer span.End()

	log := that.logger.With("method", "RequestOpponentMove")

	cell, err := that.askAdvisor(ctx, board, mark)
	if err == nil {
		span.SetAttributes(attribute.Int("advisor.move", cell), attribute.Bool("advisor.fallback", false))
		return cell, nil
	}

	log.Warn("advisor failed, falling back to random move", "error", err)
	span.RecordError(err)
	span.SetAttributes(attribute.Bool("advisor.fallback", true))

	free := tictactoe.EmptyCells(board)
	if len(free) == 0 {
		span.SetStatus(codes.Error, "no legal move")
		return 0, apperror.ErrNoLegalMove
	}

	cell = free[that.random.IntN(len(free))]
	span.SetAttributes(attribute.Int("advisor.move", cell))

	return cell, nil
}

func (that *advisorGateway) askAdvisor(ctx context.Context, board entity.Board, mark string) (int, error) {
	if that.advisor == nil {
		return 0, fmt.Errorf("%w: no advisor configured", apperror.ErrAdvisorTransport)
	}

	ctx, cancel := context.WithTimeout(ctx, that.timeout)
	defer cancel()

	cell, err := that.advisor.SuggestMove(ctx, board, mark)
	if err != nil {
		return 0, err
	}

	if cell < 0 || cell >= len(board) {
		return 0, fmt.Errorf("%w: cell %d out of range", apperror.ErrAdvisorInvalid, cell)
	}

	if board[cell] != entity.EmptyCell {
		return 0, fmt.Errorf("%w: cell %d is occupied", apperror.ErrAdvisorInvalid, cell)
	}

	return cell, nil
}
