package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	assessmentout "cxassist/internal/modules/assessment/adapter/out"
	"cxassist/internal/modules/assessment/domain"
	assessmentdto "cxassist/internal/modules/assessment/dto"
	assessmentin "cxassist/internal/modules/assessment/port/in"
	"cxassist/internal/modules/assessment/service"
	"cxassist/internal/modules/assessment/usecase"
	"cxassist/internal/platform/clock"
	apperrors "cxassist/internal/platform/errors"
)

type fakeBackend struct {
	weeks      []string
	scenarios  map[string][]domain.Scenario
	failOn     int
	submitted  []domain.Submission
	scenarioQs []string
}

func (b *fakeBackend) ListWeeks(context.Context) ([]string, error) {
	return b.weeks, nil
}

func (b *fakeBackend) ListScenarios(_ context.Context, week string) ([]domain.Scenario, error) {
	b.scenarioQs = append(b.scenarioQs, week)
	return b.scenarios[week], nil
}

func (b *fakeBackend) Submit(_ context.Context, sub domain.Submission) (domain.Result, error) {
	b.submitted = append(b.submitted, sub)
	if sub.ScenarioID == b.failOn {
		return domain.Result{}, errors.New("HTTP error! status: 500")
	}
	return domain.Result{
		ScenarioID: sub.ScenarioID,
		AgentReply: sub.AgentReply,
		Score:      70 + sub.ScenarioID*10,
		Feedback:   domain.ResultFeedback{GoodPoints: []string{"empathetic"}, NeedsImprovement: []string{"be concise"}},
	}, nil
}

func newBackend() *fakeBackend {
	return &fakeBackend{
		weeks: []string{"Week 1", "Week 2"},
		scenarios: map[string][]domain.Scenario{
			"Week 1": {{ID: 1, Title: "Refund", ClientMessage: "I want a refund"}, {ID: 2, Title: "Late order", ClientMessage: "Where is it?"}},
			"Week 2": {{ID: 3, Title: "Login", ClientMessage: "Cannot log in"}},
		},
	}
}

func newInteractor(t *testing.T, backend *fakeBackend) (assessmentin.Usecase, string) {
	t.Helper()
	dir := t.TempDir()
	clk := clock.Fixed{At: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	svc := service.NewAssessmentService(
		backend,
		assessmentout.NewMarkdownReportWriter(filepath.Join(dir, "reports")),
		assessmentout.NewYAMLDraftStore(),
		clk,
		nil,
	)
	return usecase.NewInteractor(svc), dir
}

func TestRunSubmitsSequentiallyAndWritesReport(t *testing.T) {
	t.Parallel()
	backend := newBackend()
	uc, dir := newInteractor(t, backend)

	out, err := uc.Run(context.Background(), assessmentdto.RunInput{
		AgentID:     "melody",
		Drafts:      map[int]string{1: "Sorry, refund issued.", 2: "It ships today."},
		WriteReport: true,
		Reviewer:    "qa@ajobthing.com",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Week != "Week 1" || len(out.Results) != 2 || out.Average != 85 {
		t.Fatalf("unexpected output %+v", out)
	}
	var order []int
	for _, s := range backend.submitted {
		order = append(order, s.ScenarioID)
	}
	if diff := cmp.Diff([]int{1, 2}, order); diff != "" {
		t.Fatalf("submission order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Week 1"}, backend.scenarioQs); diff != "" {
		t.Fatalf("expected exactly one scenario fetch (-want +got):\n%s", diff)
	}

	wantPath := filepath.Join(dir, "reports", "week-1", "melody.md")
	if out.ReportPath != wantPath {
		t.Fatalf("unexpected report path %s", out.ReportPath)
	}
	raw, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	for _, want := range []string{"average_score: 85", "reviewer: qa@ajobthing.com", "## Refund (score 80)", "- be concise"} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("report missing %q:\n%s", want, raw)
		}
	}
}

func TestRunFailureOnSecondScenarioReturnsNoResults(t *testing.T) {
	t.Parallel()
	backend := newBackend()
	backend.failOn = 2
	uc, dir := newInteractor(t, backend)

	out, err := uc.Run(context.Background(), assessmentdto.RunInput{
		AgentID:     "melody",
		Week:        "Week 1",
		Drafts:      map[int]string{1: "a", 2: "b"},
		WriteReport: true,
	})
	if err == nil {
		t.Fatalf("expected failure")
	}
	if len(out.Results) != 0 {
		t.Fatalf("partial results must be discarded, got %+v", out.Results)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "reports")); !os.IsNotExist(statErr) {
		t.Fatalf("no report may be written for a failed run")
	}
}

func TestRunWithEmptyDraftSendsNothing(t *testing.T) {
	t.Parallel()
	backend := newBackend()
	uc, _ := newInteractor(t, backend)

	_, err := uc.Run(context.Background(), assessmentdto.RunInput{
		AgentID: "melody",
		Week:    "Week 1",
		Drafts:  map[int]string{2: "only second"},
	})
	var missing apperrors.MissingReplyError
	if !errors.As(err, &missing) || missing.ScenarioID != 1 {
		t.Fatalf("expected missing reply for scenario 1, got %v", err)
	}
	if len(backend.submitted) != 0 {
		t.Fatalf("no request may be sent, got %d", len(backend.submitted))
	}
}

func TestRunRejectsUnknownWeekAndScenario(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t, newBackend())
	ctx := context.Background()

	if _, err := uc.Run(ctx, assessmentdto.RunInput{AgentID: "melody", Week: "Week 9"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected unknown week, got %v", err)
	}
	_, err := uc.Run(ctx, assessmentdto.RunInput{AgentID: "melody", Week: "Week 2", Drafts: map[int]string{1: "x"}})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected unknown scenario, got %v", err)
	}
}

func TestDraftTemplateRoundTripsThroughRun(t *testing.T) {
	t.Parallel()
	backend := newBackend()
	uc, dir := newInteractor(t, backend)
	ctx := context.Background()
	path := filepath.Join(dir, "drafts.yaml")

	scenarios, err := uc.WriteDraftTemplate(ctx, "Week 2", path)
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if len(scenarios) != 1 || scenarios[0].Title != "Login" {
		t.Fatalf("unexpected scenarios %+v", scenarios)
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "# Login") || !strings.Contains(string(raw), "# > Cannot log in") {
		t.Fatalf("template must describe each scenario:\n%s", raw)
	}

	filled := strings.Replace(string(raw), `3: ""`, `3: "Reset your password here."`, 1)
	if err := os.WriteFile(path, []byte(filled), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	drafts, err := uc.LoadDrafts(ctx, path)
	if err != nil {
		t.Fatalf("load drafts: %v", err)
	}
	out, err := uc.Run(ctx, assessmentdto.RunInput{AgentID: "syahir", Week: "Week 2", Drafts: drafts})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].AgentReply != "Reset your password here." {
		t.Fatalf("unexpected results %+v", out.Results)
	}
}

func TestWriteReportRequiresFullSubmission(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t, newBackend())
	m := uc.NewMachine("melody")
	if _, err := uc.WriteReport(context.Background(), m, ""); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}
