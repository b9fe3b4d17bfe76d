package in

import (
	"context"

	"cxassist/internal/modules/assessment/domain"
	assessmentdto "cxassist/internal/modules/assessment/dto"
	assessmentin "cxassist/internal/modules/assessment/port/in"
)

type CLIHandler struct {
	usecase assessmentin.Usecase
}

func NewCLIHandler(usecase assessmentin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) NewMachine(agentID string) *domain.Machine {
	return h.usecase.NewMachine(agentID)
}

func (h CLIHandler) Weeks(ctx context.Context) ([]string, error) {
	return h.usecase.Weeks(ctx)
}

func (h CLIHandler) Scenarios(ctx context.Context, week string) ([]domain.Scenario, error) {
	return h.usecase.Scenarios(ctx, week)
}

func (h CLIHandler) SubmitOne(ctx context.Context, sub domain.Submission) (domain.Result, error) {
	return h.usecase.SubmitOne(ctx, sub)
}

func (h CLIHandler) ScenarioTemplate(ctx context.Context, week, path string) ([]assessmentdto.ScenarioOutput, error) {
	return h.usecase.WriteDraftTemplate(ctx, week, path)
}

func (h CLIHandler) Submit(ctx context.Context, agentID, week, draftsPath, reviewer string, report bool) (assessmentdto.RunOutput, error) {
	drafts, err := h.usecase.LoadDrafts(ctx, draftsPath)
	if err != nil {
		return assessmentdto.RunOutput{}, err
	}
	return h.usecase.Run(ctx, assessmentdto.RunInput{
		AgentID:     agentID,
		Week:        week,
		Drafts:      drafts,
		WriteReport: report,
		Reviewer:    reviewer,
	})
}

func (h CLIHandler) WriteReport(ctx context.Context, m *domain.Machine, reviewer string) (string, error) {
	return h.usecase.WriteReport(ctx, m, reviewer)
}
