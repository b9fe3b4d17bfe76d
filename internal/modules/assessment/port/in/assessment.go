package in

import (
	"context"

	"cxassist/internal/modules/assessment/domain"
	"cxassist/internal/modules/assessment/dto"
)

type Usecase interface {
	NewMachine(agentID string) *domain.Machine
	Weeks(ctx context.Context) ([]string, error)
	Scenarios(ctx context.Context, week string) ([]domain.Scenario, error)
	SubmitOne(ctx context.Context, sub domain.Submission) (domain.Result, error)
	Run(ctx context.Context, input dto.RunInput) (dto.RunOutput, error)
	LoadDrafts(ctx context.Context, path string) (map[int]string, error)
	WriteDraftTemplate(ctx context.Context, week, path string) ([]dto.ScenarioOutput, error)
	WriteReport(ctx context.Context, m *domain.Machine, reviewer string) (string, error)
}
