package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
)

const (
	StatusWaiting = "waiting"
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusDraw    = "draw"
)

const (
	PublicType  = "public"
	PrivateType = "private"
)

type Game struct {
	ID        string      `json:"id"`
	Board     *Board      `json:"board"`
	Turn      Mark        `json:"player_turn,omitempty"`
	Winner    Mark        `json:"winner,omitempty"`
	Status    string      `json:"status"`
	Players   []*Player   `json:"players,omitempty"`
	Type      string      `json:"type,omitempty"`
	StartedAt time.Time   `json:"started_at"`
	Result    *GameResult `json:"result,omitempty"`
}

// NewGame creates a game in the waiting state. The board dimensions are
// validated here and never again.
func NewGame(id, gameType string, rows, cols int) (*Game, error) {
	board, err := NewBoard(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return &Game{
		ID:        id,
		Board:     board,
		Turn:      PlayerX,
		Status:    StatusWaiting,
		Type:      gameType,
		StartedAt: time.Now(),
	}, nil
}

// Start moves the game from waiting to ongoing. X always moves first.
func (that *Game) Start() {
	that.Status = StatusOngoing
	that.Turn = PlayerX
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

// IsFinished reports whether the game reached a terminal status. No moves
// are accepted afterwards.
func (that *Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	default:
		return nil
	}
}

func (that *Game) IsPublic() bool {
	return that.Type == PublicType
}
