package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "cxassist/internal/platform/errors"
)

func TestWeeksLoadedAutoSelectsFirstWeekOnce(t *testing.T) {
	t.Parallel()
	b := NewBoard(Chart)
	gen, ok := b.WeeksLoaded([]string{"2024-W01", "2024-W02"}, nil)
	if !ok || b.Week() != "2024-W01" || !b.Loading() {
		t.Fatalf("expected auto-select of 2024-W01, got %q loading=%v", b.Week(), b.Loading())
	}
	if _, again := b.WeeksLoaded([]string{"2024-W01", "2024-W02"}, nil); again {
		t.Fatalf("a second weeks load must not trigger another fetch")
	}
	if !b.ResultsLoaded(gen, nil, nil) {
		t.Fatalf("results must apply")
	}
	if !b.Empty() {
		t.Fatalf("zero rows must render as empty")
	}
}

func TestWeeksLoadedEmptyOrFailedDoesNotFetch(t *testing.T) {
	t.Parallel()
	b := NewBoard(Chart)
	if b.NoWeeks() {
		t.Fatalf("weeks not loaded yet must not read as empty")
	}
	if _, ok := b.WeeksLoaded(nil, nil); ok {
		t.Fatalf("no weeks means no fetch")
	}
	if !b.NoWeeks() {
		t.Fatalf("an empty week list must be reported")
	}
	if _, ok := b.WeeksLoaded(nil, errors.New("down")); ok || b.Err() == nil {
		t.Fatalf("failed load must record error without fetching")
	}
}

func TestResultsLoadedDropsStaleResponses(t *testing.T) {
	t.Parallel()
	b := NewBoard(Chart)
	first, _ := b.SelectWeek("Week 1")
	second, _ := b.SelectWeek("Week 2")
	if b.ResultsLoaded(first, []Row{{AgentID: "old"}}, nil) {
		t.Fatalf("stale response must be discarded")
	}
	if !b.ResultsLoaded(second, []Row{{AgentID: "melody", Score: 70}}, nil) {
		t.Fatalf("current response must apply")
	}
	if len(b.Rows()) != 1 || b.Rows()[0].AgentID != "melody" {
		t.Fatalf("unexpected rows %+v", b.Rows())
	}
	if _, err := b.SelectWeek(" "); !errors.Is(err, apperrors.ErrNoWeekSelected) {
		t.Fatalf("expected no week error, got %v", err)
	}
}

func TestAggregateAveragesInFirstSeenOrder(t *testing.T) {
	t.Parallel()
	rows := []Row{
		{AgentID: "syahir", Score: 80},
		{AgentID: "melody", Score: 60},
		{AgentID: "syahir", Score: 90},
		{AgentID: "melody", Score: 71},
	}
	want := []AgentScore{
		{AgentID: "syahir", Average: 85, Count: 2},
		{AgentID: "melody", Average: 65.5, Count: 2},
	}
	if diff := cmp.Diff(want, Aggregate(rows)); diff != "" {
		t.Fatalf("aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleKeepsRows(t *testing.T) {
	t.Parallel()
	b := NewBoard(Chart)
	gen, _ := b.SelectWeek("Week 1")
	b.ResultsLoaded(gen, []Row{{AgentID: "melody", Score: 50}}, nil)
	if b.Toggle() != Table || b.Toggle() != Chart {
		t.Fatalf("toggle must alternate views")
	}
	if len(b.Rows()) != 1 || b.Generation() != gen {
		t.Fatalf("toggle must not reload")
	}
}

func TestParseView(t *testing.T) {
	t.Parallel()
	if v, err := ParseView("TABLE"); err != nil || v != Table {
		t.Fatalf("unexpected %v %v", v, err)
	}
	if _, err := ParseView("pie"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
