package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/wbshub/internal/cli/formatter"
	"github.com/alexanderramin/wbshub/internal/config"
	"github.com/alexanderramin/wbshub/internal/domain"
	"github.com/alexanderramin/wbshub/internal/service"
	"github.com/alexanderramin/wbshub/internal/webhook"
)

// errNothingToSubmit is returned when every selection was rejected.
var errNothingToSubmit = errors.New("nothing to submit")

// HeaderInput holds the fields shared by every task of a session.
type HeaderInput struct {
	WBSType  string
	WBSCode  string
	Project  string
	Endpoint string
}

// MultiplierInput is the task form result of a multiplier template.
type MultiplierInput struct {
	CategoryID string
	Items      []string
}

// Prompter collects user input for a session.
type Prompter interface {
	Header(templates []*domain.Template, in *HeaderInput) error
	// Tasks returns the chosen tasks with their day counts. WBSCode and
	// Project are filled in by the caller.
	Tasks(t *domain.Template, maxDays int) ([]domain.Selection, error)
	Multiplier(t *domain.Template) (MultiplierInput, error)
	Confirm(title string) (bool, error)
}

func runSession(ctx context.Context, app *App, opts Options) error {
	out := app.Out
	cfg := app.Config

	fmt.Fprintln(out, formatter.Header(cfg.UI.PageTitle))
	if len(app.LoadErrors) > 0 {
		fmt.Fprint(out, formatter.FormatLoadErrors(app.LoadErrors))
	}
	fmt.Fprintln(out)

	templates, err := app.Templates.List(ctx)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		return fmt.Errorf("no templates available in %s", cfg.TemplatesDir)
	}

	prefs, err := app.Preferences.Load(ctx, domain.Preferences{Endpoint: cfg.Endpoint})
	if err != nil {
		app.Logger.Warningf("%v", err)
	}

	header := HeaderInput{
		WBSType:  prefs.WBSType,
		WBSCode:  prefs.WBSCode,
		Project:  prefs.Project,
		Endpoint: domain.CoalesceStr(opts.Endpoint, prefs.Endpoint),
	}
	if !hasTemplate(templates, header.WBSType) {
		header.WBSType = templates[0].WBSType
	}

	if err := app.Prompter.Header(templates, &header); err != nil {
		return err
	}

	tmpl, err := app.Templates.Get(ctx, header.WBSType)
	if err != nil {
		return err
	}

	plan, err := buildPlan(app, tmpl, header)
	if err != nil {
		return err
	}

	summary := plan.Summary()
	fmt.Fprintln(out, formatter.FormatPreview(tmpl.WBSType, summary.Tarefas, plan.Rejected, app.Width))

	remembered := domain.Preferences{
		WBSType: header.WBSType,
		WBSCode: header.WBSCode,
		Project: header.Project,
	}
	if header.Endpoint != cfg.Endpoint {
		remembered.Endpoint = header.Endpoint
	}
	remember := func(submitted bool) {
		if err := app.Preferences.Remember(ctx, remembered, submitted); err != nil {
			app.Logger.Warningf("saving preferences: %v", err)
		}
	}

	if summary.Total == 0 {
		remember(false)
		return errNothingToSubmit
	}
	if !config.EndpointConfigured(header.Endpoint) {
		fmt.Fprintln(out, formatter.Error("Set make_endpoint in the config file or pass --endpoint before submitting."))
		remember(false)
		return domain.ErrEndpointNotConfigured
	}

	if !opts.Yes {
		ok, err := app.Prompter.Confirm(fmt.Sprintf("Submit %d tarefas?", summary.Total))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, formatter.Dim("Cancelled."))
			remember(false)
			return nil
		}
	}

	target := webhook.Target{Endpoint: header.Endpoint, Timeout: cfg.Timeout()}
	report, err := submit(ctx, app, plan.Payloads, target, cfg.Delay())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, formatter.FormatBatchReport(report))
	remember(report.Succeeded > 0)

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d submissions failed", report.Failed, len(report.Results))
	}
	return nil
}

func buildPlan(app *App, tmpl *domain.Template, header HeaderInput) (*service.Plan, error) {
	if tmpl.IsMultiplier() {
		in, err := app.Prompter.Multiplier(tmpl)
		if err != nil {
			return nil, err
		}
		return app.Planner.ExpandMultiplier(tmpl, in.CategoryID, in.Items, header.WBSCode, header.Project)
	}

	chosen, err := app.Prompter.Tasks(tmpl, app.Config.MaxDays)
	if err != nil {
		return nil, err
	}
	selections := make([]domain.Selection, 0, len(chosen))
	for _, sel := range chosen {
		sel.WBSCode = header.WBSCode
		sel.Project = header.Project
		selections = append(selections, sel)
	}
	return app.Planner.Expand(tmpl, selections)
}

func submit(ctx context.Context, app *App, payloads []domain.Payload, target webhook.Target, delay time.Duration) (*domain.BatchReport, error) {
	if app.Interactive {
		return runSubmitProgram(ctx, app, payloads, target, delay)
	}
	return app.Submissions.SubmitBatch(ctx, payloads, target, service.BatchOptions{
		Delay: delay,
		Progress: func(done, total int, res domain.ItemResult) {
			fmt.Fprintln(app.Out, formatter.FormatItemResult(done, total, res))
		},
	}), nil
}

func hasTemplate(templates []*domain.Template, wbsType string) bool {
	for _, t := range templates {
		if t.WBSType == wbsType {
			return true
		}
	}
	return false
}
