package cli

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/wbshub/internal/domain"
	"github.com/alexanderramin/wbshub/internal/logging"
	"github.com/alexanderramin/wbshub/internal/service"
	"github.com/alexanderramin/wbshub/internal/teatest"
	"github.com/alexanderramin/wbshub/internal/testutil"
	"github.com/alexanderramin/wbshub/internal/webhook"
)

// fakeSubmissions accepts every payload except the indexes in fail.
type fakeSubmissions struct {
	mu    sync.Mutex
	fail  map[int]bool
	calls []int
}

func (f *fakeSubmissions) SubmitOne(ctx context.Context, index int, p domain.Payload, _ webhook.Target) domain.ItemResult {
	f.mu.Lock()
	f.calls = append(f.calls, index)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return domain.ItemResult{Index: index, Tarefa: p.Tarefa, Err: err}
	}
	if f.fail[index] {
		return domain.ItemResult{Index: index, Tarefa: p.Tarefa, Status: 500,
			Err: &domain.SubmissionError{Kind: domain.SubmissionHTTPError, Status: 500}}
	}
	return domain.ItemResult{Index: index, Tarefa: p.Tarefa, Status: 200, OK: true}
}

func (f *fakeSubmissions) SubmitBatch(ctx context.Context, payloads []domain.Payload, target webhook.Target, opts service.BatchOptions) *domain.BatchReport {
	report := &domain.BatchReport{ID: "fake"}
	for i, p := range payloads {
		res := f.SubmitOne(ctx, i, p, target)
		report.Add(res)
		if opts.Progress != nil {
			opts.Progress(i+1, len(payloads), res)
		}
	}
	return report
}

func (f *fakeSubmissions) OpenBatch() *domain.BatchReport {
	return &domain.BatchReport{ID: "fake"}
}

func (f *fakeSubmissions) CloseBatch(context.Context, *domain.BatchReport) {}

// recordingObserver keeps every use-case event.
type recordingObserver struct {
	mu     sync.Mutex
	events []service.UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e service.UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

var modelTarget = webhook.Target{Endpoint: "https://hook.example.com/x", Timeout: time.Second}

func TestSubmitModel_ReportsEveryResult(t *testing.T) {
	svc := &fakeSubmissions{fail: map[int]bool{1: true}}
	payloads := testutil.NewTestPayloads(3)
	m := newSubmitModel(context.Background(), svc, payloads, modelTarget, 0)

	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	require.True(t, d.Quitting)
	assert.Equal(t, []int{0, 1, 2}, svc.calls)
	require.Len(t, m.report.Results, 3)
	assert.Equal(t, 2, m.report.Succeeded)
	assert.Equal(t, 1, m.report.Failed)
	assert.True(t, m.done)
	assert.False(t, m.cancelled)
	assert.NotEmpty(t, m.report.ID)

	view := d.View()
	assert.Contains(t, view, "3/3")
	assert.Contains(t, view, "HTTP 500")
	assert.Contains(t, view, payloads[2].Tarefa)
}

func TestSubmitModel_DelayWaitsBetweenRequests(t *testing.T) {
	svc := &fakeSubmissions{}
	m := newSubmitModel(context.Background(), svc, testutil.NewTestPayloads(3), modelTarget, time.Hour)

	d := teatest.New(t, m)
	d.DrainInit()

	// The tick before the second request never fires within the test.
	assert.Equal(t, []int{0}, svc.calls)
	assert.Equal(t, 1, d.Skipped)
	assert.False(t, d.Quitting)

	d.Send(submitNextMsg{})
	assert.Equal(t, []int{0, 1}, svc.calls)
	assert.Contains(t, d.View(), "2/3")
	assert.Contains(t, d.View(), "esc: cancel")
}

func TestSubmitModel_CancelMarksRemainingFailed(t *testing.T) {
	svc := &fakeSubmissions{}
	m := newSubmitModel(context.Background(), svc, testutil.NewTestPayloads(4), modelTarget, time.Hour)

	d := teatest.New(t, m)
	d.DrainInit()
	d.PressEsc()

	require.True(t, d.Quitting)
	assert.True(t, m.cancelled)
	require.Len(t, m.report.Results, 4)
	assert.Equal(t, 1, m.report.Succeeded)
	assert.Equal(t, 3, m.report.Failed)
	for _, res := range m.report.Results[1:] {
		assert.True(t, errors.Is(res.Err, context.Canceled))
	}
	assert.Contains(t, d.View(), "Cancelled.")

	// A late tick after cancellation submits nothing.
	m.Update(submitNextMsg{})
	assert.Equal(t, []int{0}, svc.calls)
}

func TestSubmitModel_EmptyBatch(t *testing.T) {
	m := newSubmitModel(context.Background(), &fakeSubmissions{}, nil, modelTarget, 0)
	d := teatest.New(t, m)
	d.DrainInit()

	assert.True(t, d.Quitting)
	assert.Empty(t, m.report.Results)
}

func TestRunSubmitProgram_EmitsBatchEvent(t *testing.T) {
	hook := newHookServer(t, 2)
	obs := &recordingObserver{}
	out := &bytes.Buffer{}
	app := &App{
		Submissions: service.NewSubmissionService(webhook.NewClient(nil), obs),
		Logger:      logging.Noop,
		Out:         out,
	}
	payloads := testutil.NewTestPayloads(3)

	report, err := runSubmitProgram(context.Background(), app, payloads,
		webhook.Target{Endpoint: hook.URL, Timeout: 2 * time.Second}, 0)
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.NotEmpty(t, report.ID)

	require.Len(t, obs.events, 1)
	e := obs.events[0]
	assert.Equal(t, "submit-batch", e.Name)
	assert.False(t, e.Success)
	assert.Equal(t, report.ID, e.Fields["batch_id"])
	assert.Equal(t, 3, e.Fields["total"])
	assert.Equal(t, 1, e.Fields["failed"])
	assert.Equal(t, false, e.Fields["cancelled"])
}
