package service

import (
	"context"

	"github.com/alexanderramin/wbshub/internal/domain"
	"github.com/alexanderramin/wbshub/internal/webhook"
)

type TemplateService interface {
	// List returns templates with the most recently used first, then by name.
	List(ctx context.Context) ([]*domain.Template, error)
	Get(ctx context.Context, wbsType string) (*domain.Template, error)
}

type PlannerService interface {
	Expand(t *domain.Template, selections []domain.Selection) (*Plan, error)
	ExpandMultiplier(t *domain.Template, categoryID string, items []string, wbsCode, project string) (*Plan, error)
}

type SubmissionService interface {
	SubmitBatch(ctx context.Context, payloads []domain.Payload, target webhook.Target, opts BatchOptions) *domain.BatchReport
	SubmitOne(ctx context.Context, index int, p domain.Payload, target webhook.Target) domain.ItemResult
	// OpenBatch returns an empty report with a fresh batch ID. Callers that
	// drive SubmitOne themselves pair it with CloseBatch.
	OpenBatch() *domain.BatchReport
	// CloseBatch stamps the report duration and emits the submit-batch event.
	CloseBatch(ctx context.Context, report *domain.BatchReport)
}

type PreferencesService interface {
	// Load returns the stored preferences, or defaults when none are stored.
	Load(ctx context.Context, defaults domain.Preferences) (domain.Preferences, error)
	// Remember stores prefs; when submitted is true the template's usage is
	// recorded in the same transaction.
	Remember(ctx context.Context, prefs domain.Preferences, submitted bool) error
}
