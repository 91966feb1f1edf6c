package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/entity"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/tictactoe"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

var (
	corners = []int{0, 2, 6, 8}
	sides   = []int{1, 3, 5, 7}
)

// RandomSource - the only source of randomness for move selection, so tests
// can seed it.
type RandomSource interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int {
	return rand.IntN(n) //nolint: gosec // it's ok
}

// NewRandomSource - goroutine-safe source backed by the math/rand/v2 global generator.
func NewRandomSource() RandomSource {
	return globalRandom{}
}

type BotService interface {
	SuggestMove(board entity.Board, mark, difficulty string) (int, error)
}

type botService struct {
	random RandomSource
}

func NewBotService(random RandomSource) BotService {
	if random == nil {
		random = NewRandomSource()
	}

	return &botService{
		random: random,
	}
}

// SuggestMove picks a cell for mark. Unknown difficulties play hard.
func (that *botService) SuggestMove(board entity.Board, mark, difficulty string) (int, error) {
	if len(tictactoe.EmptyCells(board)) == 0 {
		return 0, apperror.ErrNoLegalMove
	}

	switch difficulty {
	case DifficultyEasy:
		return that.easyMove(board), nil
	case DifficultyMedium:
		return that.mediumMove(board, mark), nil
	default:
		return that.hardMove(board, mark), nil
	}
}

// easyMove - completely random move.
func (that *botService) easyMove(board entity.Board) int {
	return that.pick(tictactoe.EmptyCells(board))
}

// mediumMove - win if it can, block if it must, otherwise random.
func (that *botService) mediumMove(board entity.Board, mark string) int {
	if cell, ok := findWinningMove(board, mark); ok {
		return cell
	}

	if cell, ok := findWinningMove(board, entity.Opponent(mark)); ok {
		return cell
	}

	return that.easyMove(board)
}

// hardMove - win, block, center, a corner, then a side.
func (that *botService) hardMove(board entity.Board, mark string) int {
	if cell, ok := findWinningMove(board, mark); ok {
		return cell
	}

	if cell, ok := findWinningMove(board, entity.Opponent(mark)); ok {
		return cell
	}

	if board[4] == entity.EmptyCell {
		return 4
	}

	if free := freeAmong(board, corners); len(free) > 0 {
		return that.pick(free)
	}

	return that.pick(freeAmong(board, sides))
}

func (that *botService) pick(cells []int) int {
	return cells[that.random.IntN(len(cells))]
}

// findWinningMove - a free cell completing two marks already in a line.
func findWinningMove(board entity.Board, mark string) (int, bool) {
	for _, combo := range entity.WinCombos {
		owned, free := 0, -1
		for _, cell := range combo {
			switch board[cell] {
			case mark:
				owned++
			case entity.EmptyCell:
				free = cell
			}
		}

		if owned == 2 && free != -1 {
			return free, true
		}
	}

	return -1, false
}

func freeAmong(board entity.Board, cells []int) []int {
	free := make([]int, 0, len(cells))
	for _, cell := range cells {
		if board[cell] == entity.EmptyCell {
			free = append(free, cell)
		}
	}

	return free
}

type botAdvisor struct {
	bot        BotService
	difficulty string
}

// NewBotAdvisor lets the bot stand in for a remote advisor.
func NewBotAdvisor(bot BotService, difficulty string) Advisor {
	return &botAdvisor{
		bot:        bot,
		difficulty: difficulty,
	}
}

func (that *botAdvisor) SuggestMove(ctx context.Context, board entity.Board, mark string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", apperror.ErrAdvisorTransport, err)
	}

	return that.bot.SuggestMove(board, mark, that.difficulty)
}
