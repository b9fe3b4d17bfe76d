package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cxassist/internal/modules/assessment/domain"
	assessmentout "cxassist/internal/modules/assessment/port/out"
	"cxassist/internal/platform/markdown"
	"cxassist/internal/platform/slug"
)

var resultsBlock = markdown.Block{Name: "results"}

// MarkdownReportWriter keeps one report per agent and week. Rewriting a report
// replaces the managed frontmatter keys and the results block; other keys and
// the rest of the body are preserved.
type MarkdownReportWriter struct {
	dir string
}

func NewMarkdownReportWriter(dir string) assessmentout.ReportWriter {
	return &MarkdownReportWriter{dir: dir}
}

func (w *MarkdownReportWriter) Write(_ context.Context, report domain.Report) (string, error) {
	dir := filepath.Join(w.dir, slug.Make(report.Week, "week"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, slug.Make(report.AgentID, "agent")+".md")

	body := fmt.Sprintf("# Assessment %s: %s\n", report.Week, report.AgentID)
	extra := map[string]any{}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		meta, existing, splitErr := markdown.Split(string(raw))
		if splitErr != nil {
			return "", fmt.Errorf("read existing report: %w", splitErr)
		}
		extra, body = meta, existing
	case !os.IsNotExist(err):
		return "", fmt.Errorf("read existing report: %w", err)
	}
	body = resultsBlock.Replace(body, renderResults(report))

	var reviewer any
	if report.Reviewer != "" {
		reviewer = report.Reviewer
	} else {
		delete(extra, "reviewer")
	}
	fields := []markdown.Field{
		{Key: "schema_version", Value: domain.ReportSchemaVersion},
		{Key: "agent_id", Value: report.AgentID},
		{Key: "week", Value: report.Week},
		{Key: "submitted_at", Value: report.SubmittedAt.UTC().Format(time.RFC3339)},
		{Key: "scenario_count", Value: len(report.Results)},
		{Key: "average_score", Value: report.Average()},
		{Key: "reviewer", Value: reviewer},
	}
	rendered, err := markdown.Render(fields, extra, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func renderResults(report domain.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Average score: %.1f\n", report.Average())
	for _, r := range report.Results {
		title := report.ScenarioTitle(r.ScenarioID)
		if title == "" {
			title = fmt.Sprintf("Scenario %d", r.ScenarioID)
		}
		fmt.Fprintf(&sb, "\n## %s (score %d)\n\n", title, r.Score)
		fmt.Fprintf(&sb, "> %s\n", strings.ReplaceAll(strings.TrimSpace(r.AgentReply), "\n", "\n> "))
		writeList(&sb, "Good points", r.Feedback.GoodPoints)
		writeList(&sb, "Needs improvement", r.Feedback.NeedsImprovement)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n**%s**\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
}
