package dto

import "time"

type LoadInput struct {
	Week    string
	AgentID string
	View    string
}

type BarOutput struct {
	AgentID string
	Average float64
	Count   int
}

type RowOutput struct {
	ID               int
	AgentID          string
	ScenarioID       int
	Score            int
	GoodPoints       string
	NeedsImprovement string
	Timestamp        time.Time
}

type BoardOutput struct {
	Week    string
	Weeks   []string
	View    string
	Bars    []BarOutput
	Rows    []RowOutput
	Empty   bool
	Message string
}
