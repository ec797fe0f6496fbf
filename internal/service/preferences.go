package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/wbshub/internal/db"
	"github.com/alexanderramin/wbshub/internal/domain"
	"github.com/alexanderramin/wbshub/internal/repository"
)

type preferencesService struct {
	prefs    repository.PreferencesRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

// NewPreferencesService creates a PreferencesService. Writes go through uow
// with tx-scoped repositories; reads use prefs directly.
func NewPreferencesService(prefs repository.PreferencesRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PreferencesService {
	return &preferencesService{
		prefs:    prefs,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *preferencesService) Load(ctx context.Context, defaults domain.Preferences) (domain.Preferences, error) {
	stored, err := s.prefs.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("loading preferences: %w", err)
	}

	out := *stored
	out.Endpoint = domain.CoalesceStr(out.Endpoint, defaults.Endpoint)
	return out, nil
}

func (s *preferencesService) Remember(ctx context.Context, prefs domain.Preferences, submitted bool) (retErr error) {
	start := s.now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "remember-preferences",
			StartedAt: start,
			Duration:  time.Since(start),
			Success:   retErr == nil,
			Err:       retErr,
			Fields: map[string]any{
				"wbs_type":  prefs.WBSType,
				"submitted": submitted,
			},
		})
	}()

	prefs.ID = repository.DefaultPreferencesID

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLitePreferencesRepo(tx).Upsert(ctx, &prefs); err != nil {
			return err
		}
		if !submitted || strings.TrimSpace(prefs.WBSType) == "" {
			return nil
		}
		return repository.NewSQLiteTemplateUsageRepo(tx).RecordBatch(ctx, prefs.WBSType, s.now())
	})
}
