package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/wbshub/internal/config"
	"github.com/alexanderramin/wbshub/internal/db"
	"github.com/alexanderramin/wbshub/internal/domain"
	"github.com/alexanderramin/wbshub/internal/logging"
	"github.com/alexanderramin/wbshub/internal/repository"
	"github.com/alexanderramin/wbshub/internal/service"
	"github.com/alexanderramin/wbshub/internal/template"
	"github.com/alexanderramin/wbshub/internal/testutil"
	"github.com/alexanderramin/wbshub/internal/webhook"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// scriptedPrompter answers forms with fixed values.
type scriptedPrompter struct {
	header     HeaderInput
	days       map[int]int
	multiplier MultiplierInput
	confirm    bool

	seenHeader HeaderInput
	confirmed  int
}

func (p *scriptedPrompter) Header(_ []*domain.Template, in *HeaderInput) error {
	p.seenHeader = *in
	if p.header.WBSType != "" {
		in.WBSType = p.header.WBSType
	}
	if p.header.WBSCode != "" {
		in.WBSCode = p.header.WBSCode
	}
	if p.header.Project != "" {
		in.Project = p.header.Project
	}
	if p.header.Endpoint != "" {
		in.Endpoint = p.header.Endpoint
	}
	return nil
}

func (p *scriptedPrompter) Tasks(t *domain.Template, _ int) ([]domain.Selection, error) {
	var out []domain.Selection
	for _, task := range t.Tasks {
		if days, ok := p.days[task.ID]; ok {
			out = append(out, domain.Selection{Task: task, Days: days})
		}
	}
	return out, nil
}

func (p *scriptedPrompter) Multiplier(*domain.Template) (MultiplierInput, error) {
	return p.multiplier, nil
}

func (p *scriptedPrompter) Confirm(string) (bool, error) {
	p.confirmed++
	return p.confirm, nil
}

// hookServer records posted payloads and fails the 1-based request numbers in fail.
type hookServer struct {
	*httptest.Server
	mu       sync.Mutex
	payloads []domain.Payload
}

func newHookServer(t *testing.T, fail ...int) *hookServer {
	t.Helper()
	failSet := map[int]bool{}
	for _, n := range fail {
		failSet[n] = true
	}
	h := &hookServer{}
	h.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p domain.Payload
		_ = json.NewDecoder(r.Body).Decode(&p)
		h.mu.Lock()
		h.payloads = append(h.payloads, p)
		n := len(h.payloads)
		h.mu.Unlock()
		if failSet[n] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("Accepted"))
	}))
	t.Cleanup(h.Close)
	return h
}

func (h *hookServer) tarefas() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.payloads))
	for _, p := range h.payloads {
		out = append(out, p.Tarefa)
	}
	return out
}

type sessionFixture struct {
	app   *App
	out   *bytes.Buffer
	prefs service.PreferencesService
	usage repository.TemplateUsageRepo
}

func newSessionFixture(t *testing.T, prompter Prompter, templates ...*domain.Template) *sessionFixture {
	t.Helper()
	if len(templates) == 0 {
		templates = []*domain.Template{
			testutil.NewTestTemplate("Elétrico", testutil.WithWBSType("eletrico"),
				testutil.WithTask(1, "Tarefa A", 2, true),
				testutil.WithTask(2, "Tarefa B", 1, false),
			),
			testutil.NewTestTemplate("Aquisição", testutil.WithWBSType("aquisicao"),
				testutil.WithCategory("hw", "HW Mecânico", []string{"Parafusos", "Perfis"},
					[]string{"Cotação", "Pedido"}),
			),
		}
	}

	database := testutil.NewTestDB(t)
	usage := repository.NewSQLiteTemplateUsageRepo(database)
	prefs := service.NewPreferencesService(repository.NewSQLitePreferencesRepo(database), db.NewSQLiteUnitOfWork(database))

	cfg := config.DefaultConfig()
	cfg.DelayMs = 0

	out := &bytes.Buffer{}
	app := &App{
		Config:      cfg,
		Templates:   service.NewTemplateService(template.NewRegistry(templates...), usage),
		Planner:     service.NewPlannerService(cfg.MaxDays),
		Submissions: service.NewSubmissionService(webhook.NewClient(nil)),
		Preferences: prefs,
		Logger:      logging.Noop,
		Prompter:    prompter,
		Out:         out,
	}
	return &sessionFixture{app: app, out: out, prefs: prefs, usage: usage}
}

func TestSession_PercentageTemplateEndToEnd(t *testing.T) {
	hook := newHookServer(t)
	prompter := &scriptedPrompter{
		header:  HeaderInput{WBSType: "eletrico", WBSCode: "010", Project: "01058 - Montagem", Endpoint: hook.URL},
		days:    map[int]int{1: 2, 2: 1},
		confirm: true,
	}
	f := newSessionFixture(t, prompter)

	err := runSession(context.Background(), f.app, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"010 - 1. Tarefa A - 50%",
		"010 - 1. Tarefa A - 100%",
		"010 - 2. Tarefa B - 100%",
	}, hook.tarefas())
	assert.Equal(t, 1, prompter.confirmed)

	out := stripANSI(f.out.String())
	assert.Contains(t, out, "Total: 3 tarefas")
	assert.Contains(t, out, "[3/3]")
	assert.Contains(t, out, "All 3 tarefas created.")

	prefs, err := f.prefs.Load(context.Background(), domain.Preferences{})
	require.NoError(t, err)
	assert.Equal(t, "eletrico", prefs.WBSType)
	assert.Equal(t, "010", prefs.WBSCode)
	assert.Equal(t, hook.URL, prefs.Endpoint)

	usage, err := f.usage.List(context.Background())
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, "eletrico", usage[0].WBSType)
}

func TestSession_PrefillsFromPreferences(t *testing.T) {
	prompter := &scriptedPrompter{confirm: false, days: map[int]int{1: 1}}
	f := newSessionFixture(t, prompter)
	require.NoError(t, f.prefs.Remember(context.Background(), domain.Preferences{
		WBSType: "eletrico", WBSCode: "030", Project: "P9", Endpoint: "https://hook.example.com/saved",
	}, false))

	require.NoError(t, runSession(context.Background(), f.app, Options{}))

	assert.Equal(t, HeaderInput{
		WBSType:  "eletrico",
		WBSCode:  "030",
		Project:  "P9",
		Endpoint: "https://hook.example.com/saved",
	}, prompter.seenHeader)
	assert.Contains(t, stripANSI(f.out.String()), "Cancelled.")
}

func TestSession_EndpointFlagWinsOverPreferences(t *testing.T) {
	prompter := &scriptedPrompter{
		header: HeaderInput{WBSType: "eletrico", WBSCode: "010", Project: "P1"},
		days:   map[int]int{1: 1},
	}
	f := newSessionFixture(t, prompter)
	require.NoError(t, f.prefs.Remember(context.Background(), domain.Preferences{
		Endpoint: "https://hook.example.com/saved",
	}, false))

	require.NoError(t, runSession(context.Background(), f.app, Options{Endpoint: "https://hook.example.com/flag"}))
	assert.Equal(t, "https://hook.example.com/flag", prompter.seenHeader.Endpoint)
}

// delayRecorder records the delay of every batch it forwards.
type delayRecorder struct {
	service.SubmissionService
	delays []time.Duration
}

func (d *delayRecorder) SubmitBatch(ctx context.Context, payloads []domain.Payload, target webhook.Target, opts service.BatchOptions) *domain.BatchReport {
	d.delays = append(d.delays, opts.Delay)
	return d.SubmissionService.SubmitBatch(ctx, payloads, target, opts)
}

func TestSession_DelayFollowsConfigEveryRun(t *testing.T) {
	hook := newHookServer(t)
	prompter := &scriptedPrompter{
		header: HeaderInput{WBSType: "eletrico", WBSCode: "010", Project: "P1", Endpoint: hook.URL},
		days:   map[int]int{1: 1},
	}
	f := newSessionFixture(t, prompter)
	rec := &delayRecorder{SubmissionService: f.app.Submissions}
	f.app.Submissions = rec
	ctx := context.Background()

	f.app.Config.DelayMs = 1000
	require.NoError(t, runSession(ctx, f.app, Options{Yes: true}))

	f.app.Config.DelayMs = 200
	require.NoError(t, runSession(ctx, f.app, Options{Yes: true}))

	// --delay 0 applies to its own run only.
	opts := Options{Yes: true, Delay: 0, DelaySet: true}
	opts.Apply(&f.app.Config)
	require.NoError(t, runSession(ctx, f.app, opts))

	f.app.Config.DelayMs = 200
	require.NoError(t, runSession(ctx, f.app, Options{Yes: true}))

	assert.Equal(t, []time.Duration{time.Second, 200 * time.Millisecond, 0, 200 * time.Millisecond}, rec.delays)
	assert.Len(t, hook.tarefas(), 4)
}

func TestSession_PlaceholderEndpointBlocksSubmission(t *testing.T) {
	prompter := &scriptedPrompter{
		header:  HeaderInput{WBSType: "eletrico", WBSCode: "010", Project: "P1"},
		days:    map[int]int{1: 1},
		confirm: true,
	}
	f := newSessionFixture(t, prompter)

	err := runSession(context.Background(), f.app, Options{})
	require.ErrorIs(t, err, domain.ErrEndpointNotConfigured)
	assert.Zero(t, prompter.confirmed)
	assert.Contains(t, stripANSI(f.out.String()), "010 - 1. Tarefa A - 100%")
}

func TestSession_FailuresAreReportedPerItem(t *testing.T) {
	hook := newHookServer(t, 2)
	prompter := &scriptedPrompter{
		header: HeaderInput{WBSType: "eletrico", WBSCode: "010", Project: "P1", Endpoint: hook.URL},
		days:   map[int]int{1: 3},
	}
	f := newSessionFixture(t, prompter)

	err := runSession(context.Background(), f.app, Options{Yes: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 submissions failed")
	assert.Zero(t, prompter.confirmed)
	assert.Len(t, hook.tarefas(), 3)

	out := stripANSI(f.out.String())
	assert.Contains(t, out, "HTTP 500")
	assert.Contains(t, out, "2 succeeded, 1 failed.")
}

func TestSession_InvalidDaysSkipsOnlyThatTask(t *testing.T) {
	hook := newHookServer(t)
	prompter := &scriptedPrompter{
		header: HeaderInput{WBSType: "eletrico", WBSCode: "010", Project: "P1", Endpoint: hook.URL},
		days:   map[int]int{1: 0, 2: 1},
	}
	f := newSessionFixture(t, prompter)

	require.NoError(t, runSession(context.Background(), f.app, Options{Yes: true}))
	assert.Equal(t, []string{"010 - 2. Tarefa B - 100%"}, hook.tarefas())
	assert.Contains(t, stripANSI(f.out.String()), "skipped:")
}

func TestSession_MultiplierTemplate(t *testing.T) {
	hook := newHookServer(t)
	prompter := &scriptedPrompter{
		header:     HeaderInput{WBSType: "aquisicao", WBSCode: "020", Project: "P1", Endpoint: hook.URL},
		multiplier: MultiplierInput{CategoryID: "hw", Items: []string{"Parafusos", "Chapas"}},
	}
	f := newSessionFixture(t, prompter)

	require.NoError(t, runSession(context.Background(), f.app, Options{Yes: true}))
	assert.Equal(t, []string{
		"020 - <Parafusos> - Cotação",
		"020 - <Parafusos> - Pedido",
		"020 - <Chapas> - Cotação",
		"020 - <Chapas> - Pedido",
	}, hook.tarefas())
	for _, p := range hook.payloads {
		assert.Equal(t, "HW Mecânico", p.Categoria)
	}
}

func TestSession_ShowsLoadErrors(t *testing.T) {
	prompter := &scriptedPrompter{
		header: HeaderInput{WBSType: "eletrico", WBSCode: "010", Project: "P1"},
		days:   map[int]int{1: 1},
	}
	f := newSessionFixture(t, prompter)
	f.app.LoadErrors = []error{&domain.TemplateParseError{Path: "templates/bad.yaml", Err: assert.AnError}}

	// the placeholder endpoint stops the session after the preview
	err := runSession(context.Background(), f.app, Options{})
	require.ErrorIs(t, err, domain.ErrEndpointNotConfigured)
	assert.Contains(t, stripANSI(f.out.String()), "! parsing template templates/bad.yaml")
}

func TestSession_NoTemplates(t *testing.T) {
	f := newSessionFixture(t, &scriptedPrompter{})
	f.app.Templates = service.NewTemplateService(template.NewRegistry(), nil)

	err := runSession(context.Background(), f.app, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no templates available")
}
