package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/wbshub/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// DefaultPreferencesID is the id of the single preferences row.
const DefaultPreferencesID = "default"

type PreferencesRepo interface {
	Get(ctx context.Context) (*domain.Preferences, error)
	Upsert(ctx context.Context, p *domain.Preferences) error
}

// TemplateUsage tracks how often a template was used to submit a batch.
type TemplateUsage struct {
	WBSType    string
	Batches    int
	LastUsedAt time.Time
}

type TemplateUsageRepo interface {
	RecordBatch(ctx context.Context, wbsType string, at time.Time) error
	List(ctx context.Context) ([]TemplateUsage, error)
}
