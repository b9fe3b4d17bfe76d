package domain

import "fmt"

type Scenario struct {
	ID            int
	Title         string
	ClientMessage string
	ImagePath     string
}

type ResultFeedback struct {
	GoodPoints       []string
	NeedsImprovement []string
}

// Result is the backend's score for one scenario reply.
type Result struct {
	ScenarioID int
	AgentReply string
	Score      int
	Feedback   ResultFeedback
}

// Submission is one submit-assessment request.
type Submission struct {
	AgentID    string
	ScenarioID int
	AgentReply string
	Week       string
}

type State int

const (
	SelectingWeek State = iota
	LoadingScenarios
	Answering
	Submitting
	Reviewing
)

func (s State) String() string {
	switch s {
	case SelectingWeek:
		return "selecting-week"
	case LoadingScenarios:
		return "loading-scenarios"
	case Answering:
		return "answering"
	case Submitting:
		return "submitting"
	case Reviewing:
		return "reviewing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Step is the outcome of a transition. Next is the request the caller must
// issue, if any; Results is the accumulated set after the transition.
type Step struct {
	State   State
	Next    *Submission
	Results []Result
	Err     error
}

// AverageScore returns the mean score of results, 0 when empty.
func AverageScore(results []Result) float64 {
	if len(results) == 0 {
		return 0
	}
	total := 0
	for _, r := range results {
		total += r.Score
	}
	return float64(total) / float64(len(results))
}
