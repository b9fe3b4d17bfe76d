package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "cxassist/internal/platform/errors"
)

const (
	EmptyMessage   = "No assessment results for this week."
	NoWeeksMessage = "No assessment weeks available."
)

// Row is one scored scenario as stored by the backend.
type Row struct {
	ID                       int
	AgentID                  string
	ScenarioID               int
	Score                    int
	FeedbackGoodPoints       string
	FeedbackNeedsImprovement string
	Timestamp                time.Time
}

type View int

const (
	Chart View = iota
	Table
)

func (v View) String() string {
	if v == Table {
		return "table"
	}
	return "chart"
}

func ParseView(raw string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "chart":
		return Chart, nil
	case "table":
		return Table, nil
	default:
		return Chart, fmt.Errorf("view %q: %w", raw, apperrors.ErrInvalidInput)
	}
}

// AgentScore is one bar of the chart view.
type AgentScore struct {
	AgentID string
	Average float64
	Count   int
}

// Aggregate averages rows per agent, in the order agents first appear.
func Aggregate(rows []Row) []AgentScore {
	index := map[string]int{}
	totals := []int{}
	out := []AgentScore{}
	for _, r := range rows {
		i, ok := index[r.AgentID]
		if !ok {
			i = len(out)
			index[r.AgentID] = i
			out = append(out, AgentScore{AgentID: r.AgentID})
			totals = append(totals, 0)
		}
		totals[i] += r.Score
		out[i].Count++
	}
	for i := range out {
		out[i].Average = float64(totals[i]) / float64(out[i].Count)
	}
	return out
}

// Board holds the dashboard state. Result loads are tagged with the
// generation they were issued under.
type Board struct {
	weeks       []string
	weeksLoaded bool
	week        string
	rows        []Row
	loaded      bool
	loading     bool
	view        View
	generation  uint64
	err         error
}

func NewBoard(view View) *Board {
	return &Board{view: view}
}

func (b *Board) Weeks() []string    { return append([]string(nil), b.weeks...) }
func (b *Board) Week() string       { return b.week }
func (b *Board) Rows() []Row        { return append([]Row(nil), b.rows...) }
func (b *Board) View() View         { return b.view }
func (b *Board) Loading() bool      { return b.loading }
func (b *Board) Generation() uint64 { return b.generation }
func (b *Board) Err() error         { return b.err }

// NoWeeks reports whether the week list loaded and came back empty.
func (b *Board) NoWeeks() bool { return b.weeksLoaded && len(b.weeks) == 0 }

// Empty reports whether the selected week loaded with no rows.
func (b *Board) Empty() bool { return b.loaded && len(b.rows) == 0 }

// WeeksLoaded stores the weeks and auto-selects the first one when nothing is
// selected. ok reports whether a results fetch must be issued.
func (b *Board) WeeksLoaded(weeks []string, loadErr error) (gen uint64, ok bool) {
	if loadErr != nil {
		b.err = loadErr
		return b.generation, false
	}
	b.weeks = append([]string(nil), weeks...)
	b.weeksLoaded = true
	if b.week != "" || len(b.weeks) == 0 {
		return b.generation, false
	}
	gen, err := b.SelectWeek(b.weeks[0])
	return gen, err == nil
}

func (b *Board) SelectWeek(week string) (uint64, error) {
	week = strings.TrimSpace(week)
	if week == "" {
		return b.generation, apperrors.ErrNoWeekSelected
	}
	b.week = week
	b.generation++
	b.loading = true
	b.err = nil
	return b.generation, nil
}

// ResultsLoaded replaces the rows when gen is current. It reports false for a
// stale response.
func (b *Board) ResultsLoaded(gen uint64, rows []Row, loadErr error) bool {
	if gen != b.generation || !b.loading {
		return false
	}
	b.loading = false
	if loadErr != nil {
		b.err = loadErr
		b.rows = nil
		b.loaded = false
		return true
	}
	b.rows = append([]Row(nil), rows...)
	b.loaded = true
	return true
}

// Toggle flips between chart and table without touching the rows.
func (b *Board) Toggle() View {
	if b.view == Chart {
		b.view = Table
	} else {
		b.view = Chart
	}
	return b.view
}

func (b *Board) Aggregate() []AgentScore { return Aggregate(b.rows) }
