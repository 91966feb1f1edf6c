package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/apperror"
)

const (
	ModeLocal    = "local"
	ModeComputer = "computer"
)

// Session owns one game and the statistics accumulated across its games.
type Session struct {
	ID         string     `json:"id"`
	Mode       string     `json:"mode"`
	GameID     string     `json:"game_id"`
	Game       GameState  `json:"game"`
	Statistics Statistics `json:"statistics"`
	Loading    bool       `json:"loading"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (that *Session) IsAgainstComputer() bool {
	return that.Mode == ModeComputer
}

// ComputerMark - the human always opens with X against the computer.
func (that *Session) ComputerMark() string {
	return PlayerO
}

func ValidateMode(mode string) error {
	switch mode {
	case ModeLocal, ModeComputer:
		return nil
	default:
		return fmt.Errorf("%w: %q", apperror.ErrUnknownMode, mode)
	}
}
