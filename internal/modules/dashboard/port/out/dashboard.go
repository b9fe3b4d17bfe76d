package out

import (
	"context"

	"cxassist/internal/modules/dashboard/domain"
)

type ResultsSource interface {
	ListWeeks(ctx context.Context) ([]string, error)
	ListResults(ctx context.Context, week, agentID string) ([]domain.Row, error)
}
