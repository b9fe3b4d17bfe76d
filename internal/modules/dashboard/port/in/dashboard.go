package in

import (
	"context"

	"cxassist/internal/modules/dashboard/domain"
	"cxassist/internal/modules/dashboard/dto"
)

type Usecase interface {
	NewBoard(view domain.View) *domain.Board
	Weeks(ctx context.Context) ([]string, error)
	Results(ctx context.Context, week, agentID string) ([]domain.Row, error)
	Load(ctx context.Context, input dto.LoadInput) (dto.BoardOutput, error)
}
