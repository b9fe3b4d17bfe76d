package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cxassist/internal/bootstrap"
	assistdto "cxassist/internal/modules/assist/dto"
	modedomain "cxassist/internal/modules/mode/domain"
	"cxassist/internal/platform/config"
	"cxassist/internal/platform/logging"
)

// publicAnnotation marks commands that run without the session gate.
const publicAnnotation = "cxassist/public"

var errLoginRequired = errors.New("login required")

func main() {
	root, state := newRootCmd()
	if err := execute(root, state); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// appState holds the app built by the pre-run hook so it can be released
// after Execute returns, whether or not the command failed.
type appState struct {
	app      *bootstrap.App
	released bool
}

func (s *appState) close() error {
	if s.app == nil {
		return nil
	}
	app := s.app
	s.app = nil
	s.released = true
	err := app.Close()
	_ = app.Logger.Sync()
	return err
}

func execute(root *cobra.Command, state *appState) (err error) {
	defer func() {
		if cerr := state.close(); err == nil {
			err = cerr
		}
	}()
	return root.Execute()
}

type globalFlags struct {
	stateDir   string
	configPath string
	apiURL     string
}

func newRootCmd() (*cobra.Command, *appState) {
	flags := &globalFlags{}
	state := &appState{}

	root := &cobra.Command{
		Use:           "cxassist",
		Short:         "Customer experience agent assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if builtin(cmd) {
				return nil
			}
			loaded, err := loadApp(flags, cmd.Name() == "tui")
			if err != nil {
				return err
			}
			state.app = loaded
			if cmd.Annotations[publicAnnotation] == "true" {
				return nil
			}
			return checkGate(cmd.Context(), loaded)
		},
	}
	root.PersistentFlags().StringVar(&flags.stateDir, "state-dir", "", "state directory (default ~/.cxassist)")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default <state-dir>/config.yaml)")
	root.PersistentFlags().StringVar(&flags.apiURL, "api", "", "backend API base URL")

	appRef := func() *bootstrap.App { return state.app }
	root.AddCommand(
		newLoginCmd(appRef),
		newLogoutCmd(appRef),
		newWhoamiCmd(appRef),
		newAgentsCmd(appRef),
		newAssistCmd(appRef),
		newAssessmentCmd(appRef),
		newDashboardCmd(appRef),
		newGuidelineCmd(appRef),
		newHistoryCmd(appRef),
		newDoctorCmd(appRef),
		newTUICmd(appRef),
	)
	return root, state
}

func loadApp(flags *globalFlags, tui bool) (*bootstrap.App, error) {
	cfg, err := config.New(config.Options{
		StateDir:   flags.stateDir,
		ConfigPath: flags.configPath,
		APIBaseURL: flags.apiURL,
	})
	if err != nil {
		return nil, err
	}
	sink := logging.SinkStderr
	if tui {
		sink = logging.SinkFile
	}
	logger, err := logging.New(cfg.LogLevel, sink, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logger)
}

func checkGate(ctx context.Context, app *bootstrap.App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	gate, err := app.SessionCLI.Check(ctx)
	if err != nil {
		return err
	}
	if !gate.Allowed {
		app.Logger.Info("gate rejected command", zap.Bool("cleared", gate.Cleared))
		return errLoginRequired
	}
	return nil
}

// builtin reports cobra's own help and completion commands.
func builtin(cmd *cobra.Command) bool {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return true
	}
	return cmd.HasParent() && cmd.Parent().Name() == "completion"
}

func public(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[publicAnnotation] = "true"
	return cmd
}

func requireAgent(app *bootstrap.App, agentID string) error {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return fmt.Errorf("--agent is required")
	}
	for _, a := range app.Roster {
		if a.ID == agentID {
			return nil
		}
	}
	return fmt.Errorf("unknown agent %q", agentID)
}

func newLoginCmd(app func() *bootstrap.App) *cobra.Command {
	return public(&cobra.Command{
		Use:   "login <email>",
		Short: "Store the operator identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app().SessionCLI.Login(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", out.Email)
			return nil
		},
	})
}

func newLogoutCmd(app func() *bootstrap.App) *cobra.Command {
	return public(&cobra.Command{
		Use:   "logout",
		Short: "Clear the stored identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app().SessionCLI.Logout(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	})
}

func newWhoamiCmd(app func() *bootstrap.App) *cobra.Command {
	return public(&cobra.Command{
		Use:   "whoami",
		Short: "Show the stored identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gate, err := app().SessionCLI.Check(cmd.Context())
			if err != nil {
				return err
			}
			switch {
			case gate.Allowed:
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), gate.Email)
			case gate.Cleared:
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "identity cleared: domain not authorized")
			default:
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
			}
			return nil
		},
	})
}

func newAgentsCmd(app func() *bootstrap.App) *cobra.Command {
	return public(&cobra.Command{
		Use:   "agents",
		Short: "List the agent roster",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, a := range app().Roster {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", a.ID, a.Name)
			}
			return nil
		},
	})
}

func newAssistCmd(app func() *bootstrap.App) *cobra.Command {
	var agentID, prompt string
	var files []string
	var selectN int

	cmd := &cobra.Command{
		Use:   "assist --agent <id> --prompt <text>",
		Short: "Ask for feedback and suggested replies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := requireAgent(a, agentID); err != nil {
				return err
			}
			out, conv, err := a.AssistCLI.Send(cmd.Context(), agentID, prompt, files)
			if !out.Failed && err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printTurn(w, out.User)
			printTurn(w, out.Assistant)
			if out.Failed {
				return err
			}
			if selectN > 0 {
				turn, err := a.AssistCLI.SelectReply(cmd.Context(), conv, selectN-1)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(w, "you: %s\n", turn.Content.Text())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&agentID, "agent", "", "agent id")
	cmd.Flags().StringVar(&prompt, "prompt", "", "client message or question")
	cmd.Flags().StringArrayVar(&files, "file", nil, "attachment path (repeatable, at most 5)")
	cmd.Flags().IntVar(&selectN, "select", 0, "pick suggested reply N (1-based)")
	return cmd
}

func printTurn(w io.Writer, turn assistdto.TurnOutput) {
	who := "you"
	if turn.Role == "assistant" {
		who = "assistant"
	}
	if turn.Feedback == nil {
		_, _ = fmt.Fprintf(w, "%s: %s\n", who, turn.Text)
		return
	}
	_, _ = fmt.Fprintf(w, "%s:\n  Tone: %s\n  Solution Effectiveness: %s\n", who, turn.Feedback.Tone, turn.Feedback.SolutionEffectiveness)
	if len(turn.Feedback.Suggestions) > 0 {
		_, _ = fmt.Fprintln(w, "  Suggestions:")
		for _, s := range turn.Feedback.Suggestions {
			_, _ = fmt.Fprintf(w, "    - %s\n", s)
		}
	}
	for i, r := range turn.Replies {
		_, _ = fmt.Fprintf(w, "  [%d] %s\n", i+1, r)
	}
}

func newAssessmentCmd(app func() *bootstrap.App) *cobra.Command {
	assessment := &cobra.Command{Use: "assessment", Short: "Weekly scenario assessments"}

	assessment.AddCommand(&cobra.Command{
		Use:   "weeks",
		Short: "List assessment weeks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			weeks, err := app().AssessmentCLI.Weeks(cmd.Context())
			if err != nil {
				return err
			}
			for _, w := range weeks {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), w)
			}
			return nil
		},
	})

	var week, templatePath string
	scenarios := &cobra.Command{
		Use:   "scenarios --week <week>",
		Short: "List a week's scenarios",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(week) == "" {
				return fmt.Errorf("--week is required")
			}
			a := app()
			if templatePath != "" {
				out, err := a.AssessmentCLI.ScenarioTemplate(cmd.Context(), week, templatePath)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d scenarios to %s\n", len(out), templatePath)
				return nil
			}
			list, err := a.AssessmentCLI.Scenarios(cmd.Context(), week)
			if err != nil {
				return err
			}
			for _, sc := range list {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n\t%s\n", sc.ID, sc.Title, sc.ClientMessage)
			}
			return nil
		},
	}
	scenarios.Flags().StringVar(&week, "week", "", "assessment week")
	scenarios.Flags().StringVar(&templatePath, "template", "", "write a replies YAML template to this path")

	var agentID, submitWeek, repliesPath string
	var report bool
	submit := &cobra.Command{
		Use:   "submit --agent <id> --week <week> --replies <file.yaml>",
		Short: "Submit replies for every scenario of a week",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := requireAgent(a, agentID); err != nil {
				return err
			}
			if strings.TrimSpace(repliesPath) == "" {
				return fmt.Errorf("--replies is required")
			}
			reviewer := ""
			if report {
				gate, err := a.SessionCLI.Check(cmd.Context())
				if err != nil {
					return err
				}
				reviewer = gate.Email
			}
			out, err := a.AssessmentCLI.Submit(cmd.Context(), agentID, submitWeek, repliesPath, reviewer, report)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, r := range out.Results {
				_, _ = fmt.Fprintf(w, "%d\t%s\tscore=%d\n", r.ScenarioID, r.ScenarioTitle, r.Score)
				for _, p := range r.GoodPoints {
					_, _ = fmt.Fprintf(w, "\t+ %s\n", p)
				}
				for _, p := range r.NeedsImprovement {
					_, _ = fmt.Fprintf(w, "\t- %s\n", p)
				}
			}
			_, _ = fmt.Fprintf(w, "average: %.1f\n", out.Average)
			if out.ReportPath != "" {
				_, _ = fmt.Fprintf(w, "report: %s\n", out.ReportPath)
			}
			return nil
		},
	}
	submit.Flags().StringVar(&agentID, "agent", "", "agent id")
	submit.Flags().StringVar(&submitWeek, "week", "", "assessment week (default: first week)")
	submit.Flags().StringVar(&repliesPath, "replies", "", "YAML file mapping scenario id to reply")
	submit.Flags().BoolVar(&report, "report", false, "write a Markdown report")

	assessment.AddCommand(scenarios, submit)
	return assessment
}

func newDashboardCmd(app func() *bootstrap.App) *cobra.Command {
	var week, agentID, view string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show assessment results for a week",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := app().DashboardCLI.Show(cmd.Context(), week, agentID, view)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "week: %s\n", out.Week)
			if out.Empty {
				_, _ = fmt.Fprintln(w, out.Message)
				return nil
			}
			if out.View == "table" {
				_, _ = fmt.Fprintln(w, "agent\tscenario\tscore\tgood points\tneeds improvement\ttimestamp")
				for _, r := range out.Rows {
					_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\n", r.AgentID, r.ScenarioID, r.Score, r.GoodPoints, r.NeedsImprovement, r.Timestamp.Format("2006-01-02 15:04"))
				}
				return nil
			}
			for _, b := range out.Bars {
				n := int(b.Average / 5)
				_, _ = fmt.Fprintf(w, "%-10s %-20s %5.1f (%d)\n", modedomain.DisplayName(b.AgentID), strings.Repeat("#", max(min(n, 20), 0)), b.Average, b.Count)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&week, "week", "", "assessment week (default: first week)")
	cmd.Flags().StringVar(&agentID, "agent", "", "only show this agent")
	cmd.Flags().StringVar(&view, "view", "chart", "chart|table")
	return cmd
}

func newGuidelineCmd(app func() *bootstrap.App) *cobra.Command {
	guideline := &cobra.Command{Use: "guideline", Short: "Guideline ingestion"}

	var pdfPath, text string
	ingest := &cobra.Command{
		Use:   "ingest (--pdf <file> | --text <text>)",
		Short: "Stage and acknowledge a guideline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ack, err := app().GuidelineCLI.IngestOnce(cmd.Context(), pdfPath, text)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), ack.Message)
			return nil
		},
	}
	ingest.Flags().StringVar(&pdfPath, "pdf", "", "PDF guideline file")
	ingest.Flags().StringVar(&text, "text", "", "guideline text")
	guideline.AddCommand(ingest)
	return guideline
}

func newHistoryCmd(app func() *bootstrap.App) *cobra.Command {
	var agentID string
	var limit int
	cmd := &cobra.Command{
		Use:   "history --agent <id>",
		Short: "Show recorded assist conversations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			lines, err := app().AssistCLI.History(cmd.Context(), agentID, limit)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no history")
				return nil
			}
			for _, l := range lines {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", l.At.Local().Format("2006-01-02 15:04:05"), shortID(l.ConversationID), l.Role, strings.ReplaceAll(l.Body, "\n", " | "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&agentID, "agent", "", "agent id (default: all)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of turns")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newDoctorCmd(app func() *bootstrap.App) *cobra.Command {
	return public(&cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and backend reachability",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "api: %s\nstate: %s\nsuffix: %s\n", a.Config.APIBaseURL, a.Config.StateDir, a.Config.DomainSuffix)

			gate, err := a.SessionCLI.Check(cmd.Context())
			switch {
			case err != nil:
				_, _ = fmt.Fprintf(w, "identity: error: %v\n", err)
			case gate.Allowed:
				_, _ = fmt.Fprintf(w, "identity: %s\n", gate.Email)
			default:
				_, _ = fmt.Fprintln(w, "identity: none")
			}

			var health struct {
				Status string `json:"status"`
			}
			if err := a.API.GetJSON(cmd.Context(), "/health", nil, &health); err != nil {
				_, _ = fmt.Fprintf(w, "backend: unreachable: %v\n", err)
				return fmt.Errorf("backend health check failed")
			}
			_, _ = fmt.Fprintf(w, "backend: %s\n", health.Status)
			return nil
		},
	})
}

func newTUICmd(app func() *bootstrap.App) *cobra.Command {
	var route string
	cmd := public(&cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			start, err := modedomain.ParseRoute(route)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app(), start)
		},
	})
	cmd.Flags().StringVar(&route, "route", "/", "initial route, e.g. /assist?agent=melody")
	return cmd
}
