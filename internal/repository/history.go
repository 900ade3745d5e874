package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// HistoryRepository is the append-only sink for finished games plus the
// reader/eraser used by the outer layer. The game core only ever appends.
type HistoryRepository interface {
	Append(ctx context.Context, result *entity.GameResult) error
	List(ctx context.Context) ([]*entity.GameResult, error)
	Clear(ctx context.Context) error
}

type historyRepository struct {
	conn *sql.DB
}

func NewHistoryRepository(conn *sql.DB) HistoryRepository {
	return &historyRepository{
		conn: conn,
	}
}

func (that *historyRepository) Append(ctx context.Context, result *entity.GameResult) error {
	query := `INSERT INTO game_history (started_at, board_rows, board_cols, outcome) VALUES (?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query, result.StartedAt, result.Rows, result.Cols, result.Outcome)
	if err != nil {
		return fmt.Errorf("can't save game result: %w", err)
	}

	return nil
}

func (that *historyRepository) List(ctx context.Context) ([]*entity.GameResult, error) {
	query := `SELECT started_at, board_rows, board_cols, outcome FROM game_history ORDER BY started_at`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("can't read game history: %w", err)
	}
	defer rows.Close()

	var results []*entity.GameResult

	for rows.Next() {
		var result entity.GameResult
		if err = rows.Scan(&result.StartedAt, &result.Rows, &result.Cols, &result.Outcome); err != nil {
			return nil, fmt.Errorf("can't scan game result: %w", err)
		}
		results = append(results, &result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read game history: %w", err)
	}

	return results, nil
}

func (that *historyRepository) Clear(ctx context.Context) error {
	query := `DELETE FROM game_history`

	if _, err := that.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("can't clear game history: %w", err)
	}

	return nil
}
