package in

import (
	"context"

	"cxassist/internal/modules/dashboard/domain"
	dashboarddto "cxassist/internal/modules/dashboard/dto"
	dashboardin "cxassist/internal/modules/dashboard/port/in"
)

type CLIHandler struct {
	usecase dashboardin.Usecase
}

func NewCLIHandler(usecase dashboardin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) NewBoard(view domain.View) *domain.Board {
	return h.usecase.NewBoard(view)
}

func (h CLIHandler) Weeks(ctx context.Context) ([]string, error) {
	return h.usecase.Weeks(ctx)
}

func (h CLIHandler) Results(ctx context.Context, week, agentID string) ([]domain.Row, error) {
	return h.usecase.Results(ctx, week, agentID)
}

func (h CLIHandler) Show(ctx context.Context, week, agentID, view string) (dashboarddto.BoardOutput, error) {
	return h.usecase.Load(ctx, dashboarddto.LoadInput{Week: week, AgentID: agentID, View: view})
}
