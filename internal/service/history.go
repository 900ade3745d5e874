package service

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

type HistoryService interface {
	RecordResult(ctx context.Context, result *entity.GameResult) error
	ListResults(ctx context.Context) ([]*entity.GameResult, error)
	ClearResults(ctx context.Context) error
}

type historyRepo interface {
	Append(ctx context.Context, result *entity.GameResult) error
	List(ctx context.Context) ([]*entity.GameResult, error)
	Clear(ctx context.Context) error
}

type historyService struct {
	historyRepo historyRepo
}

func NewHistoryService(historyRepo historyRepo) HistoryService {
	return &historyService{
		historyRepo: historyRepo,
	}
}

func (that *historyService) RecordResult(ctx context.Context, result *entity.GameResult) error {
	if err := that.historyRepo.Append(ctx, result); err != nil {
		return fmt.Errorf("failed to record game result: %w", err)
	}

	return nil
}

func (that *historyService) ListResults(ctx context.Context) ([]*entity.GameResult, error) {
	results, err := that.historyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list game results: %w", err)
	}

	return results, nil
}

func (that *historyService) ClearResults(ctx context.Context) error {
	if err := that.historyRepo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear game results: %w", err)
	}

	return nil
}
