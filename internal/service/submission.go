package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/wbshub/internal/domain"
	"github.com/alexanderramin/wbshub/internal/webhook"
)

// BatchOptions tunes a batch submission.
type BatchOptions struct {
	// Delay is the pause between consecutive requests. No pause follows the
	// last request.
	Delay time.Duration
	// Progress, when set, is called after every item with the number of
	// items done so far.
	Progress func(done, total int, res domain.ItemResult)
}

type submissionService struct {
	client   webhook.Client
	observer UseCaseObserver
	sleep    func(ctx context.Context, d time.Duration) error
	now      func() time.Time
}

// NewSubmissionService creates a SubmissionService on top of a webhook client.
func NewSubmissionService(client webhook.Client, observers ...UseCaseObserver) SubmissionService {
	return &submissionService{
		client:   client,
		observer: useCaseObserverOrNoop(observers),
		sleep:    sleepContext,
		now:      time.Now,
	}
}

func (s *submissionService) OpenBatch() *domain.BatchReport {
	return &domain.BatchReport{ID: uuid.New().String(), StartedAt: s.now()}
}

func (s *submissionService) CloseBatch(ctx context.Context, report *domain.BatchReport) {
	report.Duration = s.now().Sub(report.StartedAt)

	var err error
	if report.Failed > 0 {
		err = errors.New("batch finished with failures")
	}
	cancelled := false
	for _, res := range report.Results {
		if errors.Is(res.Err, context.Canceled) {
			cancelled = true
			break
		}
	}
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "submit-batch",
		StartedAt: report.StartedAt,
		Duration:  report.Duration,
		Success:   err == nil,
		Err:       err,
		Fields: map[string]any{
			"batch_id":  report.ID,
			"total":     len(report.Results),
			"succeeded": report.Succeeded,
			"failed":    report.Failed,
			"cancelled": cancelled,
		},
	})
}

func (s *submissionService) SubmitBatch(ctx context.Context, payloads []domain.Payload, target webhook.Target, opts BatchOptions) *domain.BatchReport {
	report := s.OpenBatch()
	total := len(payloads)

	for i, p := range payloads {
		var res domain.ItemResult
		if err := ctx.Err(); err != nil {
			res = domain.ItemResult{Index: i, Tarefa: p.Tarefa, Err: err}
		} else {
			res = s.SubmitOne(ctx, i, p, target)
		}
		report.Add(res)
		if opts.Progress != nil {
			opts.Progress(i+1, total, res)
		}

		if i < total-1 && opts.Delay > 0 && ctx.Err() == nil {
			// A cancelled sleep is picked up by the ctx check on the next item.
			_ = s.sleep(ctx, opts.Delay)
		}
	}
	s.CloseBatch(ctx, report)
	return report
}

func (s *submissionService) SubmitOne(ctx context.Context, index int, p domain.Payload, target webhook.Target) domain.ItemResult {
	res := domain.ItemResult{Index: index, Tarefa: p.Tarefa}
	if !endpointUsable(target.Endpoint) {
		res.Err = domain.ErrEndpointNotConfigured
		return res
	}

	ack, err := s.client.Submit(ctx, p, target)
	if err != nil {
		var se *domain.SubmissionError
		if errors.As(err, &se) {
			res.Status = se.Status
		}
		res.Err = err
		return res
	}
	res.Status = ack.Status
	res.OK = true
	return res
}

func endpointUsable(endpoint string) bool {
	return endpoint != ""
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
