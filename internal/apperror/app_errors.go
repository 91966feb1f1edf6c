package apperror

import "errors"

var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidCell  = errors.New("invalid cell index")

	ErrAdvisorTransport = errors.New("advisor request failed")
	ErrAdvisorInvalid   = errors.New("advisor returned an invalid move")
	ErrAdvisorPending   = errors.New("advisor move is still pending")
	ErrNoLegalMove      = errors.New("no legal move available")

	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownMode     = errors.New("unknown game mode")
)
