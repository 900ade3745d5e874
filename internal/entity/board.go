package entity

import (
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
)

// Mark is the content of a single board cell. A cell is either empty or
// holds one of the two player marks.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// MinBoardSize is the smallest dimension that still admits a four-in-a-row.
const MinBoardSize = 4

// Board is a rows x cols grid. Row 0 is the top, row rows-1 is the bottom;
// pieces fall toward the bottom. Dimensions never change after creation.
type Board struct {
	Rows  int      `json:"rows"`
	Cols  int      `json:"cols"`
	Cells [][]Mark `json:"cells"`
}

func NewBoard(rows, cols int) (*Board, error) {
	if rows < MinBoardSize || cols < MinBoardSize {
		return nil, fmt.Errorf("%w: got %dx%d", apperror.ErrInvalidDimension, rows, cols)
	}

	cells := make([][]Mark, rows)
	for i := range cells {
		cells[i] = make([]Mark, cols)
	}

	return &Board{Rows: rows, Cols: cols, Cells: cells}, nil
}

// Drop places mark into the lowest empty cell of the column and returns the
// row it landed in. A full column returns ErrColumnFull and leaves the board
// untouched. The column index must already be validated by the caller.
func (that *Board) Drop(column int, mark Mark) (int, error) {
	for row := that.Rows - 1; row >= 0; row-- {
		if that.Cells[row][column] == EmptyCell {
			that.Cells[row][column] = mark
			return row, nil
		}
	}

	return 0, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
}

// IsFull reports whether no column admits a further drop. Pieces stack from
// the bottom, so checking the top row is enough.
func (that *Board) IsFull() bool {
	for col := 0; col < that.Cols; col++ {
		if that.Cells[0][col] == EmptyCell {
			return false
		}
	}

	return true
}

func (that *Board) CellAt(row, col int) Mark {
	return that.Cells[row][col]
}
