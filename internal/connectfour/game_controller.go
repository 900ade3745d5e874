package connectfour

import (
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// MakeTurn drops the player's mark into the column and returns the row the
// piece landed in. ErrColumnFull is an ordinary negative result: nothing
// changes and the same player keeps the turn.
func MakeTurn(gameInstance *entity.Game, mark entity.Mark, column int) (int, error) {
	if err := gameInstance.ConfirmOngoingState(); err != nil {
		return 0, err
	}

	if column < 0 || column >= gameInstance.Board.Cols {
		return 0, fmt.Errorf("%w: %d", apperror.ErrInvalidColumn, column)
	}

	if gameInstance.Turn != mark {
		return 0, apperror.ErrNotYourTurn
	}

	row, err := gameInstance.Board.Drop(column, mark)
	if err != nil {
		return 0, err
	}

	updateGameStatus(gameInstance, mark)

	return row, nil
}

// updateGameStatus - checks the game status after a placement and records
// the result on a terminal transition.
func updateGameStatus(gameInstance *entity.Game, mark entity.Mark) {
	switch {
	case hasWon(gameInstance.Board, mark):
		gameInstance.Status = entity.StatusWon
		gameInstance.Winner = mark
		gameInstance.Result = newResult(gameInstance, entity.WonOutcome(mark))
	case gameInstance.Board.IsFull():
		gameInstance.Status = entity.StatusDraw
		gameInstance.Result = newResult(gameInstance, entity.OutcomeDraw)
	default:
		gameInstance.Turn = toggleMark(mark)
	}
}

func newResult(gameInstance *entity.Game, outcome string) *entity.GameResult {
	return &entity.GameResult{
		StartedAt: gameInstance.StartedAt,
		Rows:      gameInstance.Board.Rows,
		Cols:      gameInstance.Board.Cols,
		Outcome:   outcome,
	}
}

func toggleMark(currentMark entity.Mark) entity.Mark {
	if currentMark == entity.PlayerX {
		return entity.PlayerO
	}
	return entity.PlayerX
}

// hasWon rescans the whole board for four of the player's marks in a row.
// Cheap at this board scale, so no incremental bookkeeping around the last
// placed piece.
func hasWon(board *entity.Board, mark entity.Mark) bool {
	rows, cols := board.Rows, board.Cols

	// horizontal
	for r := 0; r < rows; r++ {
		for c := 0; c <= cols-4; c++ {
			if board.Cells[r][c] == mark && board.Cells[r][c+1] == mark &&
				board.Cells[r][c+2] == mark && board.Cells[r][c+3] == mark {
				return true
			}
		}
	}

	// vertical
	for r := 0; r <= rows-4; r++ {
		for c := 0; c < cols; c++ {
			if board.Cells[r][c] == mark && board.Cells[r+1][c] == mark &&
				board.Cells[r+2][c] == mark && board.Cells[r+3][c] == mark {
				return true
			}
		}
	}

	// diagonal down-right
	for r := 0; r <= rows-4; r++ {
		for c := 0; c <= cols-4; c++ {
			if board.Cells[r][c] == mark && board.Cells[r+1][c+1] == mark &&
				board.Cells[r+2][c+2] == mark && board.Cells[r+3][c+3] == mark {
				return true
			}
		}
	}

	// diagonal down-left
	for r := 0; r <= rows-4; r++ {
		for c := 3; c < cols; c++ {
			if board.Cells[r][c] == mark && board.Cells[r+1][c-1] == mark &&
				board.Cells[r+2][c-2] == mark && board.Cells[r+3][c-3] == mark {
				return true
			}
		}
	}

	return false
}
