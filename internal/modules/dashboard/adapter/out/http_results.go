package out

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"cxassist/internal/modules/dashboard/domain"
	dashboardout "cxassist/internal/modules/dashboard/port/out"
	"cxassist/internal/platform/apiclient"
)

const (
	weeksPath   = "/get_assessment_weeks"
	resultsPath = "/get_assessment_results"
)

// Backends serialise datetimes with or without a zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
}

type rowPayload struct {
	ID                       int             `json:"id"`
	AgentID                  string          `json:"agent_id"`
	ScenarioID               int             `json:"scenario_id"`
	Score                    float64         `json:"score"`
	FeedbackGoodPoints       json.RawMessage `json:"feedback_good_points"`
	FeedbackNeedsImprovement json.RawMessage `json:"feedback_needs_improvement"`
	Timestamp                string          `json:"timestamp"`
}

type HTTPResultsSource struct {
	client *apiclient.Client
}

func NewHTTPResultsSource(client *apiclient.Client) dashboardout.ResultsSource {
	return &HTTPResultsSource{client: client}
}

func (s *HTTPResultsSource) ListWeeks(ctx context.Context) ([]string, error) {
	var weeks []string
	if err := s.client.GetJSON(ctx, weeksPath, nil, &weeks); err != nil {
		return nil, err
	}
	return weeks, nil
}

func (s *HTTPResultsSource) ListResults(ctx context.Context, week, agentID string) ([]domain.Row, error) {
	query := url.Values{"week": {week}}
	if agentID != "" {
		query.Set("agent_id", agentID)
	}
	var payload []rowPayload
	if err := s.client.GetJSON(ctx, resultsPath, query, &payload); err != nil {
		return nil, err
	}
	rows := make([]domain.Row, 0, len(payload))
	for _, p := range payload {
		ts, err := ParseTimestamp(p.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", p.ID, err)
		}
		rows = append(rows, domain.Row{
			ID:                       p.ID,
			AgentID:                  p.AgentID,
			ScenarioID:               p.ScenarioID,
			Score:                    int(math.Round(p.Score)),
			FeedbackGoodPoints:       feedbackText(p.FeedbackGoodPoints),
			FeedbackNeedsImprovement: feedbackText(p.FeedbackNeedsImprovement),
			Timestamp:                ts,
		})
	}
	return rows, nil
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO 8601; zone-less values are UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q", raw)
}

// feedbackText flattens a string or list of strings to one line.
func feedbackText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return string(raw)
}
