package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/wbshub/internal/cli"
	"github.com/alexanderramin/wbshub/internal/config"
	"github.com/alexanderramin/wbshub/internal/db"
	"github.com/alexanderramin/wbshub/internal/logging"
	"github.com/alexanderramin/wbshub/internal/repository"
	"github.com/alexanderramin/wbshub/internal/service"
	"github.com/alexanderramin/wbshub/internal/webhook"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(bootstrap).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func bootstrap(ctx context.Context, opts cli.Options) (*cli.App, func(), error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	opts.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(os.Stderr, logging.Options{
		Level:   cfg.LogLevel,
		Format:  logging.Format(cfg.LogFormat),
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	})
	if err != nil {
		return nil, nil, err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	cleanup := func() {
		if err := database.Close(); err != nil {
			logger.Warningf("closing database: %v", err)
		}
	}

	// Wire repositories
	prefsRepo := repository.NewSQLitePreferencesRepo(database)
	usageRepo := repository.NewSQLiteTemplateUsageRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	observer := service.NewLogUseCaseObserver(logger)

	// A bad template file only removes that template from the session.
	templates, loadErr := service.LoadTemplateService(ctx, cfg.TemplatesDir, usageRepo, observer)
	loadErrors := service.LoadErrors(loadErr)
	for _, e := range loadErrors {
		logger.Warningf("skipping template: %v", e)
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	width := 0
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil {
		width = w
	}

	app := &cli.App{
		Config:      cfg,
		Templates:   templates,
		Planner:     service.NewPlannerService(cfg.MaxDays),
		Submissions: service.NewSubmissionService(webhook.NewClient(webhook.NewLogObserver(logger)), observer),
		Preferences: service.NewPreferencesService(prefsRepo, uow, observer),
		Logger:      logger,
		Prompter:    cli.NewHuhPrompter(!interactive, os.Stdin, os.Stdout),
		LoadErrors:  loadErrors,
		Interactive: interactive,
		Width:       width,
		In:          os.Stdin,
		Out:         os.Stdout,
	}
	return app, cleanup, nil
}
