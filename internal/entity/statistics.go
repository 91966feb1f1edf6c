package entity

const (
	ResultNone  = ""
	ResultWon   = "won"
	ResultDrawn = "drawn"
)

// Termination - outcome of a termination check on a board.
type Termination struct {
	Result string
	Winner string
	Line   [3]int
}

func (that Termination) IsTerminal() bool {
	return that.Result == ResultWon || that.Result == ResultDrawn
}

type Statistics struct {
	XWins      int `json:"x_wins"`
	OWins      int `json:"o_wins"`
	Draws      int `json:"draws"`
	TotalGames int `json:"total_games"`
}

// Record - counts a finished game. Non-terminal results are ignored.
func (that *Statistics) Record(termination Termination) {
	switch termination.Result {
	case ResultWon:
		if termination.Winner == PlayerX {
			that.XWins++
		} else {
			that.OWins++
		}
	case ResultDrawn:
		that.Draws++
	default:
		return
	}

	that.TotalGames++
}
