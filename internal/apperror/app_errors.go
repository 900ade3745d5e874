package apperror

import "errors"

var (
	ErrInvalidDimension = errors.New("board dimensions must be at least 4x4")
	ErrInvalidColumn    = errors.New("invalid column index")
	ErrColumnFull       = errors.New("column is full")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNoActiveGames    = errors.New("no active games")
)
