package usecase

import (
	"context"
	"fmt"

	"cxassist/internal/modules/assessment/domain"
	assessmentdto "cxassist/internal/modules/assessment/dto"
	assessmentin "cxassist/internal/modules/assessment/port/in"
	"cxassist/internal/modules/assessment/service"
	apperrors "cxassist/internal/platform/errors"
)

type Interactor struct {
	svc *service.AssessmentService
}

func NewInteractor(svc *service.AssessmentService) assessmentin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) NewMachine(agentID string) *domain.Machine {
	return domain.NewMachine(agentID)
}

func (i *Interactor) Weeks(ctx context.Context) ([]string, error) {
	return i.svc.Weeks(ctx)
}

func (i *Interactor) Scenarios(ctx context.Context, week string) ([]domain.Scenario, error) {
	return i.svc.Scenarios(ctx, week)
}

func (i *Interactor) SubmitOne(ctx context.Context, sub domain.Submission) (domain.Result, error) {
	return i.svc.Submit(ctx, sub)
}

// Run performs a complete assessment: load, fill drafts, submit every
// scenario in order and optionally write the report.
func (i *Interactor) Run(ctx context.Context, input assessmentdto.RunInput) (assessmentdto.RunOutput, error) {
	if input.AgentID == "" {
		return assessmentdto.RunOutput{}, fmt.Errorf("agent is required: %w", apperrors.ErrInvalidInput)
	}
	m := domain.NewMachine(input.AgentID)
	if err := i.svc.Load(ctx, m, input.Week); err != nil {
		return assessmentdto.RunOutput{}, err
	}
	for id, text := range input.Drafts {
		if err := m.SetDraft(id, text); err != nil {
			return assessmentdto.RunOutput{}, err
		}
	}
	step, err := m.BeginSubmit()
	if err != nil {
		return assessmentdto.RunOutput{}, err
	}
	if _, err := i.svc.Drive(ctx, m, step); err != nil {
		return assessmentdto.RunOutput{}, err
	}

	out := assessmentdto.RunOutput{
		AgentID: m.AgentID(),
		Week:    m.Week(),
		Results: ResultOutputs(m.Scenarios(), m.Results()),
		Average: domain.AverageScore(m.Results()),
	}
	if input.WriteReport {
		path, err := i.svc.WriteReport(ctx, m, input.Reviewer)
		if err != nil {
			return out, err
		}
		out.ReportPath = path
	}
	return out, nil
}

func (i *Interactor) LoadDrafts(ctx context.Context, path string) (map[int]string, error) {
	return i.svc.LoadDrafts(ctx, path)
}

// WriteDraftTemplate saves an empty drafts file for week's scenarios.
func (i *Interactor) WriteDraftTemplate(ctx context.Context, week, path string) ([]assessmentdto.ScenarioOutput, error) {
	scenarios, err := i.svc.Scenarios(ctx, week)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := i.svc.SaveDrafts(ctx, path, scenarios, nil); err != nil {
			return nil, err
		}
	}
	return ScenarioOutputs(scenarios), nil
}

func (i *Interactor) WriteReport(ctx context.Context, m *domain.Machine, reviewer string) (string, error) {
	return i.svc.WriteReport(ctx, m, reviewer)
}

func ScenarioOutputs(scenarios []domain.Scenario) []assessmentdto.ScenarioOutput {
	out := make([]assessmentdto.ScenarioOutput, 0, len(scenarios))
	for _, sc := range scenarios {
		out = append(out, assessmentdto.ScenarioOutput{
			ID:            sc.ID,
			Title:         sc.Title,
			ClientMessage: sc.ClientMessage,
			ImagePath:     sc.ImagePath,
		})
	}
	return out
}

func ResultOutputs(scenarios []domain.Scenario, results []domain.Result) []assessmentdto.ResultOutput {
	titles := make(map[int]string, len(scenarios))
	for _, sc := range scenarios {
		titles[sc.ID] = sc.Title
	}
	out := make([]assessmentdto.ResultOutput, 0, len(results))
	for _, r := range results {
		out = append(out, assessmentdto.ResultOutput{
			ScenarioID:       r.ScenarioID,
			ScenarioTitle:    titles[r.ScenarioID],
			AgentReply:       r.AgentReply,
			Score:            r.Score,
			GoodPoints:       r.Feedback.GoodPoints,
			NeedsImprovement: r.Feedback.NeedsImprovement,
		})
	}
	return out
}
