package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cxassist/internal/modules/dashboard/domain"
	dashboardout "cxassist/internal/modules/dashboard/port/out"
	apperrors "cxassist/internal/platform/errors"
)

type DashboardService struct {
	source dashboardout.ResultsSource
	logger *zap.Logger
}

func NewDashboardService(source dashboardout.ResultsSource, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{source: source, logger: logger}
}

func (s *DashboardService) Weeks(ctx context.Context) ([]string, error) {
	weeks, err := s.source.ListWeeks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	return weeks, nil
}

func (s *DashboardService) Results(ctx context.Context, week, agentID string) ([]domain.Row, error) {
	if week == "" {
		return nil, apperrors.ErrNoWeekSelected
	}
	rows, err := s.source.ListResults(ctx, week, agentID)
	if err != nil {
		return nil, fmt.Errorf("list results for %s: %w", week, err)
	}
	s.logger.Debug("results loaded", zap.String("week", week), zap.Int("rows", len(rows)))
	return rows, nil
}
