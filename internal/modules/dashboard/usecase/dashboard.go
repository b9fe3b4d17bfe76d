package usecase

import (
	"context"
	"fmt"
	"slices"

	"cxassist/internal/modules/dashboard/domain"
	dashboarddto "cxassist/internal/modules/dashboard/dto"
	dashboardin "cxassist/internal/modules/dashboard/port/in"
	"cxassist/internal/modules/dashboard/service"
	apperrors "cxassist/internal/platform/errors"
)

type Interactor struct {
	svc *service.DashboardService
}

func NewInteractor(svc *service.DashboardService) dashboardin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) NewBoard(view domain.View) *domain.Board {
	return domain.NewBoard(view)
}

func (i *Interactor) Weeks(ctx context.Context) ([]string, error) {
	return i.svc.Weeks(ctx)
}

func (i *Interactor) Results(ctx context.Context, week, agentID string) ([]domain.Row, error) {
	return i.svc.Results(ctx, week, agentID)
}

// Load runs the two-step fetch: weeks first, then results for the requested
// week or the auto-selected first week.
func (i *Interactor) Load(ctx context.Context, input dashboarddto.LoadInput) (dashboarddto.BoardOutput, error) {
	view, err := domain.ParseView(input.View)
	if err != nil {
		return dashboarddto.BoardOutput{}, err
	}
	board := domain.NewBoard(view)
	weeks, err := i.svc.Weeks(ctx)
	gen, pending := board.WeeksLoaded(weeks, err)
	if err != nil {
		return dashboarddto.BoardOutput{}, err
	}
	if input.Week != "" && input.Week != board.Week() {
		if !slices.Contains(weeks, input.Week) {
			return dashboarddto.BoardOutput{}, fmt.Errorf("week %q: %w", input.Week, apperrors.ErrNotFound)
		}
		if gen, err = board.SelectWeek(input.Week); err != nil {
			return dashboarddto.BoardOutput{}, err
		}
		pending = true
	}
	if !pending {
		return dashboarddto.BoardOutput{}, apperrors.ErrNoWeekSelected
	}
	rows, err := i.svc.Results(ctx, board.Week(), input.AgentID)
	board.ResultsLoaded(gen, rows, err)
	if err != nil {
		return dashboarddto.BoardOutput{}, err
	}
	return BoardOutput(board), nil
}

// BoardOutput snapshots a board for presentation.
func BoardOutput(board *domain.Board) dashboarddto.BoardOutput {
	out := dashboarddto.BoardOutput{
		Week:  board.Week(),
		Weeks: board.Weeks(),
		View:  board.View().String(),
		Empty: board.Empty(),
	}
	if out.Empty {
		out.Message = domain.EmptyMessage
	}
	for _, bar := range board.Aggregate() {
		out.Bars = append(out.Bars, dashboarddto.BarOutput{AgentID: bar.AgentID, Average: bar.Average, Count: bar.Count})
	}
	for _, r := range board.Rows() {
		out.Rows = append(out.Rows, dashboarddto.RowOutput{
			ID:               r.ID,
			AgentID:          r.AgentID,
			ScenarioID:       r.ScenarioID,
			Score:            r.Score,
			GoodPoints:       r.FeedbackGoodPoints,
			NeedsImprovement: r.FeedbackNeedsImprovement,
			Timestamp:        r.Timestamp,
		})
	}
	return out
}
