package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cxassist/internal/modules/dashboard/domain"
	dashboarddto "cxassist/internal/modules/dashboard/dto"
	"cxassist/internal/modules/dashboard/service"
	"cxassist/internal/modules/dashboard/usecase"
	apperrors "cxassist/internal/platform/errors"
)

type fakeSource struct {
	weeks   []string
	rows    map[string][]domain.Row
	fetched []string
	agents  []string
}

func (s *fakeSource) ListWeeks(context.Context) ([]string, error) { return s.weeks, nil }

func (s *fakeSource) ListResults(_ context.Context, week, agentID string) ([]domain.Row, error) {
	s.fetched = append(s.fetched, week)
	s.agents = append(s.agents, agentID)
	return s.rows[week], nil
}

func newSource() *fakeSource {
	return &fakeSource{
		weeks: []string{"2024-W01", "2024-W02"},
		rows: map[string][]domain.Row{
			"2024-W01": {
				{ID: 1, AgentID: "melody", ScenarioID: 1, Score: 80},
				{ID: 2, AgentID: "arfiah", ScenarioID: 1, Score: 70},
				{ID: 3, AgentID: "melody", ScenarioID: 2, Score: 90},
			},
		},
	}
}

func TestLoadAutoSelectsFirstWeekWithOneFetch(t *testing.T) {
	t.Parallel()
	src := newSource()
	uc := usecase.NewInteractor(service.NewDashboardService(src, nil))

	out, err := uc.Load(context.Background(), dashboarddto.LoadInput{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"2024-W01"}, src.fetched); diff != "" {
		t.Fatalf("fetches mismatch (-want +got):\n%s", diff)
	}
	want := []dashboarddto.BarOutput{
		{AgentID: "melody", Average: 85, Count: 2},
		{AgentID: "arfiah", Average: 70, Count: 1},
	}
	if diff := cmp.Diff(want, out.Bars); diff != "" {
		t.Fatalf("bars mismatch (-want +got):\n%s", diff)
	}
	if out.View != "chart" || len(out.Rows) != 3 || out.Empty {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestLoadExplicitEmptyWeekRendersMessage(t *testing.T) {
	t.Parallel()
	src := newSource()
	uc := usecase.NewInteractor(service.NewDashboardService(src, nil))

	out, err := uc.Load(context.Background(), dashboarddto.LoadInput{Week: "2024-W02", View: "table", AgentID: "melody"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !out.Empty || out.Message != "No assessment results for this week." || out.View != "table" {
		t.Fatalf("unexpected output %+v", out)
	}
	if diff := cmp.Diff([]string{"2024-W02"}, src.fetched); diff != "" {
		t.Fatalf("only the requested week may be fetched (-want +got):\n%s", diff)
	}
	if src.agents[0] != "melody" {
		t.Fatalf("agent filter must be forwarded, got %q", src.agents[0])
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewDashboardService(newSource(), nil))
	if _, err := uc.Load(context.Background(), dashboarddto.LoadInput{Week: "1999-W01"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected unknown week, got %v", err)
	}
	if _, err := uc.Load(context.Background(), dashboarddto.LoadInput{View: "pie"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid view, got %v", err)
	}

	empty := usecase.NewInteractor(service.NewDashboardService(&fakeSource{}, nil))
	if _, err := empty.Load(context.Background(), dashboarddto.LoadInput{}); !errors.Is(err, apperrors.ErrNoWeekSelected) {
		t.Fatalf("expected no week, got %v", err)
	}
}
