package rest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/entity"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/transport/advisor"
)

type AdvisorHandler interface {
	SuggestMove(w http.ResponseWriter, r *http.Request)
}

type botService interface {
	SuggestMove(board entity.Board, mark, difficulty string) (int, error)
}

type advisorHandler struct {
	logger     *slog.Logger
	bot        botService
	difficulty string
}

// NewAdvisorHandler serves the move-advisor protocol with the local bot, so a
// second instance can act as the advisor of the first. A "difficulty" query
// parameter overrides the configured one.
func NewAdvisorHandler(logger *slog.Logger, bot botService, difficulty string) AdvisorHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &advisorHandler{
		logger:     logger,
		bot:        bot,
		difficulty: difficulty,
	}
}

func (that *advisorHandler) SuggestMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "SuggestMove")

	_, span := tracer().Start(r.Context(), "rest.SuggestMove")
	defer span.End()

	var req advisor.MoveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&req); err != nil {
		err = fmt.Errorf("%w: malformed body: %w", errBadRequest, err)
		span.SetStatus(codes.Error, err.Error())
		writeError(w, log, err)
		return
	}

	if err := validate.Struct(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(w, log, err)
		return
	}

	var board entity.Board
	copy(board[:], req.Board)

	mark := req.Marker
	if mark == "" {
		mark = entity.PlayerO
	}

	difficulty := r.URL.Query().Get("difficulty")
	if difficulty == "" {
		difficulty = that.difficulty
	}

	move, err := that.bot.SuggestMove(board, mark, difficulty)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(w, log, err)
		return
	}

	span.SetAttributes(
		attribute.String("advisor.difficulty", difficulty),
		attribute.Int("advisor.move", move),
	)
	writeJSON(w, http.StatusOK, advisor.MoveResponse{Move: move})
}
