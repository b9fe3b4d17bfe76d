package domain

import (
	"fmt"
	"strings"

	apperrors "cxassist/internal/platform/errors"
)

// Machine is the assessment flow for one agent. Every network completion is
// tagged with the generation it was issued under; completions for an older
// generation are ignored.
type Machine struct {
	agentID    string
	state      State
	weeks      []string
	week       string
	scenarios  []Scenario
	drafts     map[int]string
	results    []Result
	cursor     int
	submitted  bool
	generation uint64
	err        error
}

func NewMachine(agentID string) *Machine {
	return &Machine{agentID: agentID, state: SelectingWeek, drafts: map[int]string{}}
}

func (m *Machine) AgentID() string       { return m.agentID }
func (m *Machine) State() State          { return m.state }
func (m *Machine) Week() string          { return m.week }
func (m *Machine) Weeks() []string       { return append([]string(nil), m.weeks...) }
func (m *Machine) Scenarios() []Scenario { return append([]Scenario(nil), m.scenarios...) }
func (m *Machine) Results() []Result     { return append([]Result(nil), m.results...) }
func (m *Machine) Submitted() bool       { return m.submitted }
func (m *Machine) Generation() uint64    { return m.generation }
func (m *Machine) Err() error            { return m.err }
func (m *Machine) Draft(id int) string   { return m.drafts[id] }
func (m *Machine) Progress() (int, int)  { return m.cursor, len(m.scenarios) }

func (m *Machine) Drafts() map[int]string {
	out := make(map[int]string, len(m.drafts))
	for k, v := range m.drafts {
		out[k] = v
	}
	return out
}

// WeeksLoaded stores the week list and auto-selects the first week when none
// is selected yet. ok reports whether a scenario load must now be issued.
func (m *Machine) WeeksLoaded(weeks []string) (gen uint64, ok bool) {
	m.weeks = append([]string(nil), weeks...)
	if m.week != "" || len(m.weeks) == 0 || m.state != SelectingWeek {
		return m.generation, false
	}
	gen, err := m.SelectWeek(m.weeks[0])
	return gen, err == nil
}

// SelectWeek starts loading week's scenarios and resets every draft.
func (m *Machine) SelectWeek(week string) (uint64, error) {
	if m.state == Submitting {
		return m.generation, fmt.Errorf("select week while %s: %w", m.state, apperrors.ErrInvalidTransition)
	}
	week = strings.TrimSpace(week)
	if week == "" {
		return m.generation, apperrors.ErrNoWeekSelected
	}
	m.week = week
	m.state = LoadingScenarios
	m.generation++
	m.scenarios = nil
	m.drafts = map[int]string{}
	m.results = nil
	m.cursor = 0
	m.submitted = false
	m.err = nil
	return m.generation, nil
}

// ScenariosLoaded applies a scenario load result. It reports false when the
// completion is stale.
func (m *Machine) ScenariosLoaded(gen uint64, scenarios []Scenario, loadErr error) bool {
	if gen != m.generation || m.state != LoadingScenarios {
		return false
	}
	if loadErr != nil {
		m.state = SelectingWeek
		m.err = loadErr
		return true
	}
	m.scenarios = append([]Scenario(nil), scenarios...)
	m.drafts = make(map[int]string, len(scenarios))
	for _, sc := range scenarios {
		m.drafts[sc.ID] = ""
	}
	m.state = Answering
	m.err = nil
	return true
}

func (m *Machine) SetDraft(scenarioID int, text string) error {
	if m.state != Answering {
		return fmt.Errorf("edit draft while %s: %w", m.state, apperrors.ErrInvalidTransition)
	}
	if _, ok := m.drafts[scenarioID]; !ok {
		return fmt.Errorf("scenario %d: %w", scenarioID, apperrors.ErrNotFound)
	}
	m.drafts[scenarioID] = text
	return nil
}

// BeginSubmit validates every draft in scenario order and, when all are
// present, returns the first request.
func (m *Machine) BeginSubmit() (Step, error) {
	if m.state != Answering {
		return Step{State: m.state}, fmt.Errorf("submit while %s: %w", m.state, apperrors.ErrInvalidTransition)
	}
	if m.week == "" {
		return Step{State: m.state}, apperrors.ErrNoWeekSelected
	}
	if len(m.scenarios) == 0 {
		return Step{State: m.state}, fmt.Errorf("week %s has no scenarios: %w", m.week, apperrors.ErrInvalidInput)
	}
	for _, sc := range m.scenarios {
		if strings.TrimSpace(m.drafts[sc.ID]) == "" {
			err := apperrors.MissingReplyError{ScenarioID: sc.ID}
			m.err = err
			return Step{State: m.state}, err
		}
	}
	m.state = Submitting
	m.generation++
	m.results = nil
	m.cursor = 0
	m.submitted = false
	m.err = nil
	next := m.submission(0)
	return Step{State: m.state, Next: &next}, nil
}

// Advance applies the outcome of the in-flight request. ok is false for a
// stale completion, which leaves the machine unchanged.
func (m *Machine) Advance(gen uint64, result Result, submitErr error) (step Step, ok bool) {
	if gen != m.generation || m.state != Submitting {
		return Step{State: m.state}, false
	}
	if submitErr != nil {
		m.results = nil
		m.cursor = 0
		m.submitted = false
		m.state = Answering
		m.err = submitErr
		return Step{State: m.state, Err: submitErr}, true
	}
	m.results = append(m.results, result)
	m.cursor++
	if m.cursor < len(m.scenarios) {
		next := m.submission(m.cursor)
		return Step{State: m.state, Next: &next, Results: m.Results()}, true
	}
	m.state = Reviewing
	m.submitted = true
	return Step{State: m.state, Results: m.Results()}, true
}

// Retake returns to answering with the previous drafts intact.
func (m *Machine) Retake() error {
	if m.state != Reviewing {
		return fmt.Errorf("retake while %s: %w", m.state, apperrors.ErrInvalidTransition)
	}
	m.state = Answering
	m.results = nil
	m.cursor = 0
	m.submitted = false
	m.err = nil
	return nil
}

// Abandon drops every pending completion.
func (m *Machine) Abandon() {
	m.generation++
	switch m.state {
	case LoadingScenarios:
		m.state = SelectingWeek
	case Submitting:
		m.state = Answering
		m.results = nil
		m.cursor = 0
	}
}

func (m *Machine) submission(i int) Submission {
	sc := m.scenarios[i]
	return Submission{
		AgentID:    m.agentID,
		ScenarioID: sc.ID,
		AgentReply: m.drafts[sc.ID],
		Week:       m.week,
	}
}
