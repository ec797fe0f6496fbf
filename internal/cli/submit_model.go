package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/wbshub/internal/cli/formatter"
	"github.com/alexanderramin/wbshub/internal/domain"
	"github.com/alexanderramin/wbshub/internal/service"
	"github.com/alexanderramin/wbshub/internal/webhook"
)

const (
	progressBarWidth = 30
	recentResults    = 5
)

// itemSubmittedMsg carries the result of one webhook call.
type itemSubmittedMsg struct {
	res domain.ItemResult
}

// submitNextMsg fires when the pause between two requests is over.
type submitNextMsg struct{}

type submitKeyMap struct {
	Cancel key.Binding
}

func defaultSubmitKeyMap() submitKeyMap {
	return submitKeyMap{
		Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c", "q"), key.WithHelp("esc", "cancel")),
	}
}

// submitModel submits payloads one at a time and renders progress. Only one
// request is in flight at any moment.
type submitModel struct {
	ctx    context.Context
	cancel context.CancelFunc

	submissions service.SubmissionService
	payloads    []domain.Payload
	target      webhook.Target
	delay       time.Duration

	keys      submitKeyMap
	report    *domain.BatchReport
	done      bool
	cancelled bool
	width     int
}

func newSubmitModel(ctx context.Context, submissions service.SubmissionService, payloads []domain.Payload, target webhook.Target, delay time.Duration) *submitModel {
	ctx, cancel := context.WithCancel(ctx)
	return &submitModel{
		ctx:         ctx,
		cancel:      cancel,
		submissions: submissions,
		payloads:    payloads,
		target:      target,
		delay:       delay,
		keys:        defaultSubmitKeyMap(),
		report:      submissions.OpenBatch(),
	}
}

func (m *submitModel) Init() tea.Cmd {
	if len(m.payloads) == 0 {
		m.finish()
		return tea.Quit
	}
	return m.submitCmd(0)
}

func (m *submitModel) submitCmd(i int) tea.Cmd {
	ctx, svc, target, p := m.ctx, m.submissions, m.target, m.payloads[i]
	return func() tea.Msg {
		return itemSubmittedMsg{res: svc.SubmitOne(ctx, i, p, target)}
	}
}

func (m *submitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Cancel) && !m.done {
			m.abort()
			return m, tea.Quit
		}
		return m, nil

	case itemSubmittedMsg:
		if m.done {
			return m, nil
		}
		m.report.Add(msg.res)
		next := len(m.report.Results)
		if next >= len(m.payloads) {
			m.finish()
			return m, tea.Quit
		}
		if m.delay > 0 {
			return m, tea.Tick(m.delay, func(time.Time) tea.Msg { return submitNextMsg{} })
		}
		return m, m.submitCmd(next)

	case submitNextMsg:
		if m.done {
			return m, nil
		}
		return m, m.submitCmd(len(m.report.Results))
	}
	return m, nil
}

// abort cancels the in-flight request and marks every remaining item failed.
func (m *submitModel) abort() {
	m.cancelled = true
	m.cancel()
	for i := len(m.report.Results); i < len(m.payloads); i++ {
		m.report.Add(domain.ItemResult{Index: i, Tarefa: m.payloads[i].Tarefa, Err: context.Canceled})
	}
	m.finish()
}

func (m *submitModel) finish() {
	m.done = true
	m.cancel()
}

func (m *submitModel) View() string {
	total := len(m.payloads)
	done := len(m.report.Results)

	var b strings.Builder
	b.WriteString(formatter.Header(fmt.Sprintf("Submitting %d tarefas", total)))
	b.WriteString("\n\n")

	pct := 1.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	b.WriteString(formatter.RenderProgress(pct, progressBarWidth, m.report.Succeeded, m.report.Failed))
	b.WriteString(formatter.Dim(fmt.Sprintf("  %d/%d", done, total)))
	b.WriteString("\n\n")

	start := done - recentResults
	if start < 0 {
		start = 0
	}
	for _, res := range m.report.Results[start:] {
		line := formatter.FormatItemResult(res.Index+1, total, res)
		if m.width > 0 {
			line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	switch {
	case m.cancelled:
		b.WriteString(formatter.Warning("Cancelled."))
		b.WriteString("\n")
	case !m.done && done < total:
		b.WriteString(formatter.Dim("→ " + m.payloads[done].Tarefa))
		b.WriteString("\n\n")
		help := m.keys.Cancel.Help()
		b.WriteString(formatter.Dim(help.Key + ": " + help.Desc))
		b.WriteString("\n")
	}
	return b.String()
}

// runSubmitProgram runs the progress model until the batch completes or the
// user cancels it, and returns the batch report either way.
func runSubmitProgram(ctx context.Context, app *App, payloads []domain.Payload, target webhook.Target, delay time.Duration) (*domain.BatchReport, error) {
	m := newSubmitModel(ctx, app.Submissions, payloads, target, delay)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(app.In), tea.WithOutput(app.Out))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, fmt.Errorf("running submission progress: %w", err)
	}
	if !m.done {
		m.abort()
	}

	app.Submissions.CloseBatch(ctx, m.report)
	return m.report, nil
}
