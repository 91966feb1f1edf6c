package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/apperror"
)

const (
	PhaseInProgress = "in_progress"
	PhaseWon        = "won"
	PhaseDrawn      = "drawn"

	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""

	BoardSize = 9
)

// WinCombos - rows top-to-bottom, columns left-to-right, then both diagonals.
// The order is significant: the first complete combo is the reported line.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board - row-major 3x3 board, EmptyCell for a free cell.
type Board [BoardSize]string

// WinningLine - the three cells that decided the game and who owns them.
type WinningLine struct {
	Indices [3]int `json:"indices"`
	Player  string `json:"player"`
}

// GameState is treated as a value: the engine never mutates a state it was
// given, it returns a new one.
type GameState struct {
	Board        Board        `json:"board"`
	ActivePlayer string       `json:"active_player"`
	Phase        string       `json:"phase"`
	Winner       string       `json:"winner,omitempty"`
	WinningLine  *WinningLine `json:"winning_line,omitempty"`
}

func (that GameState) IsInProgress() bool {
	return that.Phase == PhaseInProgress
}

func (that GameState) IsFinished() bool {
	return that.Phase == PhaseWon || that.Phase == PhaseDrawn
}

// ConfirmInProgress - returns an error if the state no longer accepts moves.
func (that GameState) ConfirmInProgress() error {
	switch that.Phase {
	case PhaseInProgress:
		return nil
	case PhaseWon, PhaseDrawn:
		return apperror.ErrGameFinished
	default:
		return fmt.Errorf("unknown game phase: %q", that.Phase)
	}
}

func IsMarker(mark string) bool {
	return mark == PlayerX || mark == PlayerO
}

// Opponent - returns the other marker.
func Opponent(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
