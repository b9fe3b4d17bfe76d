package out

import (
	"context"
	"math"
	"net/url"

	"cxassist/internal/modules/assessment/domain"
	assessmentout "cxassist/internal/modules/assessment/port/out"
	"cxassist/internal/platform/apiclient"
)

const (
	weeksPath     = "/get_assessment_weeks"
	scenariosPath = "/get_assessment_scenarios"
	submitPath    = "/submit_assessment"
)

type scenarioPayload struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	ClientMessage string `json:"client_message"`
	ImagePath     string `json:"image_path,omitempty"`
}

type submitRequest struct {
	AgentID    string `json:"agent_id"`
	ScenarioID int    `json:"scenario_id"`
	AgentReply string `json:"agent_reply"`
	Week       string `json:"week"`
}

type submitResponse struct {
	Result struct {
		ScenarioID int     `json:"scenario_id"`
		AgentReply string  `json:"agent_reply"`
		Score      float64 `json:"score"`
		Feedback   struct {
			GoodPoints       []string `json:"good_points"`
			NeedsImprovement []string `json:"needs_improvement"`
		} `json:"feedback"`
	} `json:"result"`
}

type HTTPBackend struct {
	client *apiclient.Client
}

func NewHTTPBackend(client *apiclient.Client) assessmentout.Backend {
	return &HTTPBackend{client: client}
}

func (b *HTTPBackend) ListWeeks(ctx context.Context) ([]string, error) {
	var weeks []string
	if err := b.client.GetJSON(ctx, weeksPath, nil, &weeks); err != nil {
		return nil, err
	}
	return weeks, nil
}

func (b *HTTPBackend) ListScenarios(ctx context.Context, week string) ([]domain.Scenario, error) {
	var payload []scenarioPayload
	if err := b.client.GetJSON(ctx, scenariosPath, url.Values{"week": {week}}, &payload); err != nil {
		return nil, err
	}
	out := make([]domain.Scenario, 0, len(payload))
	for _, p := range payload {
		out = append(out, domain.Scenario{
			ID:            p.ID,
			Title:         p.Title,
			ClientMessage: p.ClientMessage,
			ImagePath:     p.ImagePath,
		})
	}
	return out, nil
}

func (b *HTTPBackend) Submit(ctx context.Context, sub domain.Submission) (domain.Result, error) {
	var resp submitResponse
	req := submitRequest{
		AgentID:    sub.AgentID,
		ScenarioID: sub.ScenarioID,
		AgentReply: sub.AgentReply,
		Week:       sub.Week,
	}
	if err := b.client.PostJSON(ctx, submitPath, req, &resp); err != nil {
		return domain.Result{}, err
	}
	r := resp.Result
	if r.ScenarioID == 0 {
		r.ScenarioID = sub.ScenarioID
	}
	if r.AgentReply == "" {
		r.AgentReply = sub.AgentReply
	}
	return domain.Result{
		ScenarioID: r.ScenarioID,
		AgentReply: r.AgentReply,
		Score:      int(math.Round(r.Score)),
		Feedback: domain.ResultFeedback{
			GoodPoints:       r.Feedback.GoodPoints,
			NeedsImprovement: r.Feedback.NeedsImprovement,
		},
	}, nil
}
