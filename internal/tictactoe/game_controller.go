package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/entity"
)

// Reset - returns a fresh game: empty board, X to move.
func Reset() entity.GameState {
	return entity.GameState{
		Board:        entity.Board{},
		ActivePlayer: entity.PlayerX,
		Phase:        entity.PhaseInProgress,
	}
}

// ApplyMove places mark on cell and returns the resulting state. On error the
// given state is returned untouched together with an error wrapping
// apperror.ErrIllegalMove.
func ApplyMove(state entity.GameState, cell int, mark string) (entity.GameState, error) {
	if err := validateMove(state, cell, mark); err != nil {
		return state, fmt.Errorf("%w: %w", apperror.ErrIllegalMove, err)
	}

	next := state
	next.Board[cell] = mark

	termination := CheckTermination(next.Board)
	switch termination.Result {
	case entity.ResultWon:
		next.Phase = entity.PhaseWon
		next.Winner = termination.Winner
		next.WinningLine = &entity.WinningLine{
			Indices: termination.Line,
			Player:  termination.Winner,
		}
	case entity.ResultDrawn:
		next.Phase = entity.PhaseDrawn
	default:
		next.ActivePlayer = entity.Opponent(mark)
	}

	return next, nil
}

// validateMove - checks if the move is valid.
func validateMove(state entity.GameState, cell int, mark string) error {
	if err := state.ConfirmInProgress(); err != nil {
		return err
	}

	if cell < 0 || cell >= len(state.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if state.Board[cell] != entity.EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	if state.ActivePlayer != mark {
		return apperror.ErrNotYourTurn
	}

	return nil
}

// CheckTermination scans WinCombos in order; the first complete line wins.
func CheckTermination(board entity.Board) entity.Termination {
	for _, combo := range entity.WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return entity.Termination{
				Result: entity.ResultWon,
				Winner: a,
				Line:   combo,
			}
		}
	}

	// the game will continue until all the squares are full
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return entity.Termination{Result: entity.ResultNone}
		}
	}

	return entity.Termination{Result: entity.ResultDrawn}
}

// EmptyCells - indices of free cells in ascending order.
func EmptyCells(board entity.Board) []int {
	cells := make([]int, 0, len(board))
	for i, cell := range board {
		if cell == entity.EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}
