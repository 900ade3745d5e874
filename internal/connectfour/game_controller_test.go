package connectfour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

func startedGame(t *testing.T, rows, cols int) *entity.Game {
	t.Helper()

	game, err := entity.NewGame("000", entity.PrivateType, rows, cols)
	require.NoError(t, err)
	game.Start()

	return game
}

// playMoves feeds columns to alternating players, X first, expecting every
// drop to succeed.
func playMoves(t *testing.T, game *entity.Game, columns []int) {
	t.Helper()

	for _, column := range columns {
		_, err := MakeTurn(game, game.Turn, column)
		require.NoError(t, err)
	}
}

func TestMakeTurn(t *testing.T) {
	t.Run("Placement lands in the bottom row and flips the turn", func(t *testing.T) {
		// Given: a fresh 6x7 game
		game := startedGame(t, 6, 7)

		// When: X drops into column 3
		row, err := MakeTurn(game, entity.PlayerX, 3)

		// Then: the piece lands at the bottom and it's O's turn
		require.NoError(t, err)
		assert.Equal(t, 5, row)
		assert.Equal(t, entity.PlayerX, game.Board.CellAt(5, 3))
		assert.Equal(t, entity.PlayerO, game.Turn)
		assert.Equal(t, entity.StatusOngoing, game.Status)
	})

	t.Run("Full column keeps the acting player's turn", func(t *testing.T) {
		// Given: a 4x4 game with column 1 saturated
		game := startedGame(t, 4, 4)
		playMoves(t, game, []int{1, 1, 1, 1})

		turnBefore := game.Turn

		// When: the current player drops into the full column
		_, err := MakeTurn(game, game.Turn, 1)

		// Then: ErrColumnFull is returned and the turn does not change
		require.ErrorIs(t, err, apperror.ErrColumnFull)
		assert.Equal(t, turnBefore, game.Turn)
		assert.Equal(t, entity.StatusOngoing, game.Status)
	})

	t.Run("Error on playing out of turn", func(t *testing.T) {
		// Given: a fresh game where X moves first
		game := startedGame(t, 6, 7)

		// When: O tries to move before X
		_, err := MakeTurn(game, entity.PlayerO, 0)

		// Then: ErrNotYourTurn should be returned
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Error on out-of-range column", func(t *testing.T) {
		game := startedGame(t, 6, 7)

		_, err := MakeTurn(game, entity.PlayerX, 7)
		require.ErrorIs(t, err, apperror.ErrInvalidColumn)

		_, err = MakeTurn(game, entity.PlayerX, -1)
		require.ErrorIs(t, err, apperror.ErrInvalidColumn)
	})

	t.Run("Error on waiting game", func(t *testing.T) {
		// Given: a game that has not been started
		game, err := entity.NewGame("000", entity.PrivateType, 6, 7)
		require.NoError(t, err)

		// When: X tries to move
		_, err = MakeTurn(game, entity.PlayerX, 0)

		// Then: ErrGameIsNotStarted should be returned
		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Error on finished game", func(t *testing.T) {
		// Given: a game X already won with a vertical run in column 0
		game := startedGame(t, 6, 7)
		playMoves(t, game, []int{0, 1, 0, 1, 0, 1, 0})
		require.Equal(t, entity.StatusWon, game.Status)

		// When: another move is attempted
		_, err := MakeTurn(game, entity.PlayerO, 2)

		// Then: ErrGameFinished should be returned
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestMakeTurn_WinDetection(t *testing.T) {
	t.Run("Horizontal win on the bottom row", func(t *testing.T) {
		// Given: the 6x7 scenario X,O alternating at columns 0,0,1,1,2,2
		game := startedGame(t, 6, 7)
		playMoves(t, game, []int{0, 0, 1, 1, 2, 2})
		require.Equal(t, entity.StatusOngoing, game.Status)

		// When: X completes the bottom-row run at column 3
		row, err := MakeTurn(game, entity.PlayerX, 3)

		// Then: X wins via the horizontal alignment and a result is recorded
		require.NoError(t, err)
		assert.Equal(t, 5, row)
		assert.Equal(t, entity.StatusWon, game.Status)
		assert.Equal(t, entity.PlayerX, game.Winner)

		require.NotNil(t, game.Result)
		assert.Equal(t, entity.WonOutcome(entity.PlayerX), game.Result.Outcome)
		assert.Equal(t, 6, game.Result.Rows)
		assert.Equal(t, 7, game.Result.Cols)
		assert.Equal(t, game.StartedAt, game.Result.StartedAt)
	})

	t.Run("Vertical win", func(t *testing.T) {
		// Given: X stacking column 0 while O fills column 1
		game := startedGame(t, 4, 4)
		playMoves(t, game, []int{0, 1, 0, 1, 0, 1})
		require.Equal(t, entity.StatusOngoing, game.Status)

		// When: X places the fourth piece in column 0
		_, err := MakeTurn(game, entity.PlayerX, 0)

		// Then: X wins and not a move earlier
		require.NoError(t, err)
		assert.Equal(t, entity.StatusWon, game.Status)
		assert.Equal(t, entity.PlayerX, game.Winner)
	})

	t.Run("Diagonal down-right win", func(t *testing.T) {
		// Given: a staircase giving X the cells (3,3), (2,2), (1,1)
		game := startedGame(t, 4, 4)
		playMoves(t, game, []int{3, 2, 2, 1, 0, 1, 1, 0, 0, 3})
		require.Equal(t, entity.StatusOngoing, game.Status)

		// When: X tops off column 0 at row 0
		_, err := MakeTurn(game, entity.PlayerX, 0)

		// Then: the down-right diagonal anchored at (0,0) wins
		require.NoError(t, err)
		assert.Equal(t, entity.StatusWon, game.Status)
		assert.Equal(t, entity.PlayerX, game.Winner)
	})

	t.Run("Diagonal down-left win", func(t *testing.T) {
		// Given: the mirrored staircase giving X (3,0), (2,1), (1,2)
		game := startedGame(t, 4, 4)
		playMoves(t, game, []int{0, 1, 1, 2, 3, 2, 2, 3, 3, 0})
		require.Equal(t, entity.StatusOngoing, game.Status)

		// When: X tops off column 3 at row 0
		_, err := MakeTurn(game, entity.PlayerX, 3)

		// Then: the down-left diagonal anchored at (0,3) wins
		require.NoError(t, err)
		assert.Equal(t, entity.StatusWon, game.Status)
		assert.Equal(t, entity.PlayerX, game.Winner)
	})
}

func TestMakeTurn_Draw(t *testing.T) {
	// Given: a 4x4 fill order that produces no four-in-a-row
	game := startedGame(t, 4, 4)
	columns := []int{1, 0, 1, 0, 3, 2, 3, 2, 0, 1, 0, 1, 2, 3, 2, 3}

	// When: playing all but the final move
	playMoves(t, game, columns[:len(columns)-1])
	require.Equal(t, entity.StatusOngoing, game.Status)

	// Then: the last placement fills the board and ends in a draw
	_, err := MakeTurn(game, game.Turn, columns[len(columns)-1])
	require.NoError(t, err)

	assert.Equal(t, entity.StatusDraw, game.Status)
	assert.Equal(t, entity.EmptyCell, game.Winner)
	assert.True(t, game.Board.IsFull())

	require.NotNil(t, game.Result)
	assert.Equal(t, entity.OutcomeDraw, game.Result.Outcome)
}

func TestMakeTurn_TurnAlternation(t *testing.T) {
	// Given: a fresh game
	game := startedGame(t, 6, 7)

	// Then: the acting player alternates after every successful placement
	expected := []entity.Mark{entity.PlayerX, entity.PlayerO, entity.PlayerX, entity.PlayerO}
	for _, mark := range expected {
		require.Equal(t, mark, game.Turn)

		_, err := MakeTurn(game, mark, 4)
		require.NoError(t, err)
	}
}

func TestHasWon_AnchorBounds(t *testing.T) {
	// Given: a minimum 4x4 board with a single horizontal run in the top row
	board, err := entity.NewBoard(4, 4)
	require.NoError(t, err)

	for col := 0; col < 4; col++ {
		board.Cells[0][col] = entity.PlayerX
	}

	// Then: the scan finds the run anchored at the only valid column
	assert.True(t, hasWon(board, entity.PlayerX))
	assert.False(t, hasWon(board, entity.PlayerO))
}
