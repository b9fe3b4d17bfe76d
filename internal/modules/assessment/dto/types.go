package dto

type ScenarioOutput struct {
	ID            int
	Title         string
	ClientMessage string
	ImagePath     string
}

type ResultOutput struct {
	ScenarioID       int
	ScenarioTitle    string
	AgentReply       string
	Score            int
	GoodPoints       []string
	NeedsImprovement []string
}

type RunInput struct {
	AgentID     string
	Week        string
	Drafts      map[int]string
	WriteReport bool
	Reviewer    string
}

type RunOutput struct {
	AgentID    string
	Week       string
	Results    []ResultOutput
	Average    float64
	ReportPath string
}
