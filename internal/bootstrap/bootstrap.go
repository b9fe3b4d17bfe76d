package bootstrap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	assessmentinadapter "cxassist/internal/modules/assessment/adapter/in"
	assessmentoutadapter "cxassist/internal/modules/assessment/adapter/out"
	assessmentservice "cxassist/internal/modules/assessment/service"
	assessmentusecase "cxassist/internal/modules/assessment/usecase"
	assistinadapter "cxassist/internal/modules/assist/adapter/in"
	assistoutadapter "cxassist/internal/modules/assist/adapter/out"
	assistout "cxassist/internal/modules/assist/port/out"
	assistservice "cxassist/internal/modules/assist/service"
	assistusecase "cxassist/internal/modules/assist/usecase"
	dashboardinadapter "cxassist/internal/modules/dashboard/adapter/in"
	dashboardoutadapter "cxassist/internal/modules/dashboard/adapter/out"
	dashboardservice "cxassist/internal/modules/dashboard/service"
	dashboardusecase "cxassist/internal/modules/dashboard/usecase"
	guidelineinadapter "cxassist/internal/modules/guideline/adapter/in"
	guidelineoutadapter "cxassist/internal/modules/guideline/adapter/out"
	guidelineservice "cxassist/internal/modules/guideline/service"
	guidelineusecase "cxassist/internal/modules/guideline/usecase"
	modedomain "cxassist/internal/modules/mode/domain"
	sessioninadapter "cxassist/internal/modules/session/adapter/in"
	sessionoutadapter "cxassist/internal/modules/session/adapter/out"
	sessionservice "cxassist/internal/modules/session/service"
	sessionusecase "cxassist/internal/modules/session/usecase"
	"cxassist/internal/platform/apiclient"
	"cxassist/internal/platform/clock"
	"cxassist/internal/platform/config"
	"cxassist/internal/platform/id"
	uiapp "cxassist/internal/ui/app"
)

type App struct {
	Config        config.Config
	Logger        *zap.Logger
	API           *apiclient.Client
	Roster        []modedomain.Agent
	SessionCLI    sessioninadapter.CLIHandler
	AssistCLI     assistinadapter.CLIHandler
	AssessmentCLI assessmentinadapter.CLIHandler
	DashboardCLI  dashboardinadapter.CLIHandler
	GuidelineCLI  guidelineinadapter.CLIHandler

	transcript assistout.TranscriptStore
}

func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := clock.SystemClock{}
	ids := id.UUID{}

	api, err := apiclient.New(cfg.APIBaseURL, cfg.RequestTimeout, logger.Named("api"), apiclient.WithIDGenerator(ids))
	if err != nil {
		return nil, fmt.Errorf("new api client: %w", err)
	}

	sessionUC := sessionusecase.NewInteractor(sessionservice.NewSessionService(
		cfg.DomainSuffix,
		sessionoutadapter.NewFileIdentityStore(cfg.IdentityPath),
		logger.Named("session"),
	))

	transcript, err := assistoutadapter.NewSQLiteTranscriptStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new transcript store: %w", err)
	}
	assistUC := assistusecase.NewInteractor(assistservice.NewAssistService(
		assistoutadapter.NewHTTPReplyGenerator(api),
		assistoutadapter.NewLocalAttachmentInspector(),
		transcript,
		clk,
		ids,
		logger.Named("assist"),
	))

	assessmentUC := assessmentusecase.NewInteractor(assessmentservice.NewAssessmentService(
		assessmentoutadapter.NewHTTPBackend(api),
		assessmentoutadapter.NewMarkdownReportWriter(cfg.ReportDir),
		assessmentoutadapter.NewYAMLDraftStore(),
		clk,
		logger.Named("assessment"),
	))

	dashboardUC := dashboardusecase.NewInteractor(dashboardservice.NewDashboardService(
		dashboardoutadapter.NewHTTPResultsSource(api),
		logger.Named("dashboard"),
	))

	guidelineUC := guidelineusecase.NewInteractor(guidelineservice.NewGuidelineService(
		guidelineoutadapter.NewLocalPDFInspector(),
		logger.Named("guideline"),
	))

	return &App{
		Config:        cfg,
		Logger:        logger,
		API:           api,
		Roster:        modedomain.Roster(cfg.Agents),
		SessionCLI:    sessioninadapter.NewCLIHandler(sessionUC),
		AssistCLI:     assistinadapter.NewCLIHandler(assistUC),
		AssessmentCLI: assessmentinadapter.NewCLIHandler(assessmentUC),
		DashboardCLI:  dashboardinadapter.NewCLIHandler(dashboardUC),
		GuidelineCLI:  guidelineinadapter.NewCLIHandler(guidelineUC),
		transcript:    transcript,
	}, nil
}

// Close releases the transcript database.
func (a *App) Close() error {
	if a.transcript == nil {
		return nil
	}
	return a.transcript.Close()
}

func RunTUI(app *App, start modedomain.Route) error {
	model := uiapp.NewModel(uiapp.Ports{
		Session:    app.SessionCLI,
		Assist:     app.AssistCLI,
		Assessment: app.AssessmentCLI,
		Dashboard:  app.DashboardCLI,
		Guideline:  app.GuidelineCLI,
		Roster:     app.Roster,
		Suffix:     app.Config.DomainSuffix,
	}, start)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
