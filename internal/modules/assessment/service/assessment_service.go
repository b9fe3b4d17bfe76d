package service

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"cxassist/internal/modules/assessment/domain"
	assessmentout "cxassist/internal/modules/assessment/port/out"
	"cxassist/internal/platform/clock"
	apperrors "cxassist/internal/platform/errors"
)

type AssessmentService struct {
	backend assessmentout.Backend
	reports assessmentout.ReportWriter
	drafts  assessmentout.DraftStore
	clock   clock.Clock
	logger  *zap.Logger
}

func NewAssessmentService(
	backend assessmentout.Backend,
	reports assessmentout.ReportWriter,
	drafts assessmentout.DraftStore,
	clk clock.Clock,
	logger *zap.Logger,
) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{backend: backend, reports: reports, drafts: drafts, clock: clk, logger: logger}
}

func (s *AssessmentService) Weeks(ctx context.Context) ([]string, error) {
	weeks, err := s.backend.ListWeeks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	return weeks, nil
}

func (s *AssessmentService) Scenarios(ctx context.Context, week string) ([]domain.Scenario, error) {
	if week == "" {
		return nil, apperrors.ErrNoWeekSelected
	}
	scenarios, err := s.backend.ListScenarios(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("list scenarios for %s: %w", week, err)
	}
	return scenarios, nil
}

func (s *AssessmentService) Submit(ctx context.Context, sub domain.Submission) (domain.Result, error) {
	result, err := s.backend.Submit(ctx, sub)
	if err != nil {
		s.logger.Warn("scenario submission failed",
			zap.String("agent", sub.AgentID),
			zap.String("week", sub.Week),
			zap.Int("scenario", sub.ScenarioID),
			zap.Error(err),
		)
		return domain.Result{}, fmt.Errorf("submit scenario %d: %w", sub.ScenarioID, err)
	}
	s.logger.Info("scenario scored",
		zap.String("agent", sub.AgentID),
		zap.Int("scenario", sub.ScenarioID),
		zap.Int("score", result.Score),
	)
	return result, nil
}

// Load fetches weeks, selects week (or the first one) and loads its scenarios
// into m.
func (s *AssessmentService) Load(ctx context.Context, m *domain.Machine, week string) error {
	weeks, err := s.Weeks(ctx)
	if err != nil {
		return err
	}
	gen, pending := m.WeeksLoaded(weeks)
	if week != "" && week != m.Week() {
		if !slices.Contains(weeks, week) {
			return fmt.Errorf("week %q: %w", week, apperrors.ErrNotFound)
		}
		if gen, err = m.SelectWeek(week); err != nil {
			return err
		}
		pending = true
	}
	if !pending {
		return apperrors.ErrNoWeekSelected
	}
	scenarios, err := s.Scenarios(ctx, m.Week())
	m.ScenariosLoaded(gen, scenarios, err)
	return err
}

// Drive issues the requests of step one at a time until the machine leaves
// Submitting.
func (s *AssessmentService) Drive(ctx context.Context, m *domain.Machine, step domain.Step) (domain.Step, error) {
	for step.Next != nil {
		gen := m.Generation()
		result, err := s.Submit(ctx, *step.Next)
		step, _ = m.Advance(gen, result, err)
	}
	return step, step.Err
}

func (s *AssessmentService) Report(m *domain.Machine, reviewer string) (domain.Report, error) {
	if !m.Submitted() {
		return domain.Report{}, fmt.Errorf("report before full submission: %w", apperrors.ErrInvalidTransition)
	}
	return domain.Report{
		AgentID:     m.AgentID(),
		Week:        m.Week(),
		Reviewer:    reviewer,
		SubmittedAt: s.clock.Now(),
		Scenarios:   m.Scenarios(),
		Results:     m.Results(),
	}, nil
}

func (s *AssessmentService) WriteReport(ctx context.Context, m *domain.Machine, reviewer string) (string, error) {
	report, err := s.Report(m, reviewer)
	if err != nil {
		return "", err
	}
	path, err := s.reports.Write(ctx, report)
	if err != nil {
		return "", err
	}
	s.logger.Info("assessment report written", zap.String("path", path))
	return path, nil
}

func (s *AssessmentService) LoadDrafts(ctx context.Context, path string) (map[int]string, error) {
	return s.drafts.Load(ctx, path)
}

func (s *AssessmentService) SaveDrafts(ctx context.Context, path string, scenarios []domain.Scenario, drafts map[int]string) error {
	return s.drafts.Save(ctx, path, scenarios, drafts)
}
