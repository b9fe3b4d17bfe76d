package out

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cxassist/internal/platform/apiclient"
)

func TestListResultsDecodesRows(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/get_assessment_results" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("week") != "Week 3" || r.URL.Query().Get("agent_id") != "" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `[
			{"id":1,"agent_id":"melody","scenario_id":2,"score":75,"feedback_good_points":"clear","feedback_needs_improvement":["tone","length"],"timestamp":"2024-01-03T10:20:30.123456"},
			{"id":2,"agent_id":"syahir","scenario_id":2,"score":64.5,"feedback_good_points":null,"feedback_needs_improvement":"","timestamp":"2024-01-03T11:00:00+07:00"}
		]`)
	}))
	t.Cleanup(srv.Close)
	client, err := apiclient.New(srv.URL+"/api", time.Second, nil, apiclient.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	rows, err := NewHTTPResultsSource(client).ListResults(context.Background(), "Week 3", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].FeedbackNeedsImprovement != "tone; length" || rows[0].FeedbackGoodPoints != "clear" {
		t.Fatalf("unexpected feedback %+v", rows[0])
	}
	if want := time.Date(2024, 1, 3, 10, 20, 30, 123456000, time.UTC); !rows[0].Timestamp.Equal(want) {
		t.Fatalf("zone-less timestamp must be UTC, got %s", rows[0].Timestamp)
	}
	if want := time.Date(2024, 1, 3, 4, 0, 0, 0, time.UTC); !rows[1].Timestamp.Equal(want) {
		t.Fatalf("offset timestamp mismatch, got %s", rows[1].Timestamp)
	}
	if rows[1].Score != 65 || rows[1].FeedbackGoodPoints != "" {
		t.Fatalf("unexpected second row %+v", rows[1])
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	t.Parallel()
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Fatalf("expected parse error")
	}
	if ts, err := ParseTimestamp(""); err != nil || !ts.IsZero() {
		t.Fatalf("empty timestamp must be zero, got %v %v", ts, err)
	}
}
