package domain

import "time"

const ReportSchemaVersion = 1

// Report is a scored run persisted for later reference.
type Report struct {
	AgentID     string
	Week        string
	Reviewer    string
	SubmittedAt time.Time
	Scenarios   []Scenario
	Results     []Result
}

func (r Report) Average() float64 { return AverageScore(r.Results) }

func (r Report) ScenarioTitle(id int) string {
	for _, sc := range r.Scenarios {
		if sc.ID == id {
			return sc.Title
		}
	}
	return ""
}
