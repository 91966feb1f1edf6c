package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/entity"
)

const tracerName = "github.com/rocketscienceinc/tictactoe-advisor/transport/rest"

// tracer is looked up per request so a provider installed after start-up is used.
func tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

type SessionHandlers interface {
	CreateSession(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
	NewGame(w http.ResponseWriter, r *http.Request)
	ResetStatistics(w http.ResponseWriter, r *http.Request)
	PlayCell(w http.ResponseWriter, r *http.Request)
}

type gameUseCase interface {
	CreateSession(ctx context.Context, mode string) (*entity.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	NewGame(ctx context.Context, sessionID string) (*entity.Session, error)
	ResetStatistics(ctx context.Context, sessionID string) (*entity.Session, error)
	PlayCell(ctx context.Context, sessionID string, cell int) (*entity.Session, error)
}

type createSessionRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=local computer"`
}

// sessionResponse - what a client needs to render the board.
type sessionResponse struct {
	ID          string              `json:"id"`
	Mode        string              `json:"mode"`
	GameID      string              `json:"game_id"`
	Board       entity.Board        `json:"board"`
	Active      string              `json:"active_player"`
	Phase       string              `json:"phase"`
	Winner      string              `json:"winner,omitempty"`
	WinningLine *entity.WinningLine `json:"winning_line,omitempty"`
	Statistics  entity.Statistics   `json:"statistics"`
	Loading     bool                `json:"loading"`
}

func newSessionResponse(session *entity.Session) sessionResponse {
	return sessionResponse{
		ID:          session.ID,
		Mode:        session.Mode,
		GameID:      session.GameID,
		Board:       session.Game.Board,
		Active:      session.Game.ActivePlayer,
		Phase:       session.Game.Phase,
		Winner:      session.Game.Winner,
		WinningLine: session.Game.WinningLine,
		Statistics:  session.Statistics,
		Loading:     session.Loading,
	}
}

type sessionHandlers struct {
	logger  *slog.Logger
	useCase gameUseCase
}

func NewSessionHandlers(logger *slog.Logger, useCase gameUseCase) SessionHandlers {
	if logger == nil {
		logger = slog.Default()
	}

	return &sessionHandlers{
		logger:  logger,
		useCase: useCase,
	}
}

func (that *sessionHandlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "CreateSession")

	ctx, span := tracer().Start(r.Context(), "rest.CreateSession")
	defer span.End()

	var req createSessionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		that.fail(w, log, span, fmt.Errorf("%w: malformed body: %w", errBadRequest, err))
		return
	}

	if err := validate.Struct(req); err != nil {
		that.fail(w, log, span, err)
		return
	}

	session, err := that.useCase.CreateSession(ctx, req.Mode)
	if err != nil {
		that.fail(w, log, span, err)
		return
	}

	span.SetAttributes(attribute.String("session.id", session.ID))
	writeJSON(w, http.StatusCreated, newSessionResponse(session))
}

func (that *sessionHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	that.serve(w, r, "GetSession", that.useCase.GetSession)
}

func (that *sessionHandlers) NewGame(w http.ResponseWriter, r *http.Request) {
	that.serve(w, r, "NewGame", that.useCase.NewGame)
}

func (that *sessionHandlers) ResetStatistics(w http.ResponseWriter, r *http.Request) {
	that.serve(w, r, "ResetStatistics", that.useCase.ResetStatistics)
}

func (that *sessionHandlers) PlayCell(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "PlayCell")

	sessionID := chi.URLParam(r, "id")

	ctx, span := tracer().Start(r.Context(), "rest.PlayCell", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	cell, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		that.fail(w, log, span, fmt.Errorf("%w: cell index must be an integer", errBadRequest))
		return
	}
	span.SetAttributes(attribute.Int("cell", cell))

	session, err := that.useCase.PlayCell(ctx, sessionID, cell)
	if err != nil {
		that.fail(w, log, span, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

// serve handles the routes that only need the session id.
func (that *sessionHandlers) serve(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	action func(ctx context.Context, sessionID string) (*entity.Session, error),
) {
	log := that.logger.With("method", name)

	sessionID := chi.URLParam(r, "id")

	ctx, span := tracer().Start(r.Context(), "rest."+name, trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	session, err := action(ctx, sessionID)
	if err != nil {
		that.fail(w, log, span, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (that *sessionHandlers) fail(w http.ResponseWriter, log *slog.Logger, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	writeError(w, log, err)
}
