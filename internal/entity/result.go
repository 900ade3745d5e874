package entity

import (
	"fmt"
	"time"
)

const (
	OutcomeDraw = "Draw"

	resultTimeLayout = "2006-01-02 15:04:05"
)

// GameResult is the record handed to the history sink when a game reaches a
// terminal status. It is produced exactly once per game.
type GameResult struct {
	StartedAt time.Time `json:"started_at"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Outcome   string    `json:"outcome"`
}

// WonOutcome renders the outcome text for a winning mark.
func WonOutcome(mark Mark) string {
	return fmt.Sprintf("Player %s won", mark)
}

// String renders the one-line history format:
// Game at 2006-01-02 15:04:05 | Board: 6x7 | Result: Player X won
func (that *GameResult) String() string {
	return fmt.Sprintf("Game at %s | Board: %dx%d | Result: %s",
		that.StartedAt.Format(resultTimeLayout), that.Rows, that.Cols, that.Outcome)
}
