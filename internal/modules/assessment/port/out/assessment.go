package out

import (
	"context"

	"cxassist/internal/modules/assessment/domain"
)

type Backend interface {
	ListWeeks(ctx context.Context) ([]string, error)
	ListScenarios(ctx context.Context, week string) ([]domain.Scenario, error)
	Submit(ctx context.Context, sub domain.Submission) (domain.Result, error)
}

type ReportWriter interface {
	Write(ctx context.Context, report domain.Report) (string, error)
}

// DraftStore reads and writes reply drafts keyed by scenario id.
type DraftStore interface {
	Load(ctx context.Context, path string) (map[int]string, error)
	Save(ctx context.Context, path string, scenarios []domain.Scenario, drafts map[int]string) error
}
