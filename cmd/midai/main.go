package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/midai/internal/cli"
	"github.com/alexanderramin/midai/internal/config"
	"github.com/alexanderramin/midai/internal/db"
	"github.com/alexanderramin/midai/internal/llm"
	"github.com/alexanderramin/midai/internal/logging"
	"github.com/alexanderramin/midai/internal/metrics"
	"github.com/alexanderramin/midai/internal/prep"
	"github.com/alexanderramin/midai/internal/repository"
	"github.com/alexanderramin/midai/internal/server"
	"github.com/alexanderramin/midai/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Console: consoleLogs(cfg.LogFormat),
		File:    cfg.LogFile,
	})
	if err != nil {
		return err
	}
	log.Debug().Str("db", cfg.DB).Str("http_addr", cfg.HTTPAddr).Msg("configuration loaded")

	database, err := db.OpenDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	prefsRepo := repository.NewSQLitePreferencesRepo(database)
	pinRepo := repository.NewSQLitePinRepo(database)
	planRepo := repository.NewSQLitePlanRepo(database)
	auditRepo := repository.NewSQLiteFeedbackLogRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	m := metrics.New()
	observer := service.MultiUseCaseObserver{service.NewLogUseCaseObserver(log), m}

	prepSvc, err := newPrepGenerator(log, m)
	if err != nil {
		return err
	}

	feedbackSvc := service.NewFeedbackService(uow, auditRepo, log, observer)
	defer feedbackSvc.Close()

	app := &cli.App{
		Plans:        service.NewPlanService(prefsRepo, planRepo, observer),
		Preps:        service.NewPrepService(prefsRepo, pinRepo, prepSvc, observer),
		Feedback:     feedbackSvc,
		Preferences:  service.NewPreferencesService(prefsRepo, observer),
		UserID:       cfg.UserID,
		SettingsFile: cfg.SettingsFile,
		HTTPAddr:     cfg.HTTPAddr,
	}
	app.Serve = func(ctx context.Context, addr string) error {
		handler := server.New(server.Config{
			Plans:       app.Plans,
			Preps:       app.Preps,
			Feedback:    app.Feedback,
			Preferences: app.Preferences,
			Metrics:     m.Handler(),
			Log:         log,
		})
		return server.Run(ctx, addr, handler, log)
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// newPrepGenerator wires the model client when it is enabled. Without one
// every prep is heuristic.
func newPrepGenerator(log zerolog.Logger, m *metrics.Metrics) (*prep.Service, error) {
	llmCfg, err := llm.LoadConfig()
	if err != nil {
		return nil, err
	}
	if !llmCfg.Enabled {
		return prep.NewService(nil, log), nil
	}

	observers := llm.MultiObserver{m}
	if llmCfg.LogCalls {
		observers = append(observers, llm.NewLogObserver(log))
	}
	if !llmCfg.Configured() {
		log.Info().Msg("no model api key, meeting preps use the heuristic path")
	}
	return prep.NewService(llm.NewAnthropicClient(llmCfg, observers), log), nil
}

func consoleLogs(format string) bool {
	switch format {
	case config.LogFormatConsole:
		return true
	case config.LogFormatJSON:
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}
