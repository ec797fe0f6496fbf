package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/wbshub/internal/domain"
	"github.com/alexanderramin/wbshub/internal/repository"
	"github.com/alexanderramin/wbshub/internal/template"
)

type templateService struct {
	registry *template.Registry
	usage    repository.TemplateUsageRepo
}

// NewTemplateService serves templates from registry. usage may be nil, in
// which case templates are listed in registry order.
func NewTemplateService(registry *template.Registry, usage repository.TemplateUsageRepo) TemplateService {
	if registry == nil {
		registry = template.NewRegistry()
	}
	return &templateService{registry: registry, usage: usage}
}

// LoadTemplateService loads every template in dir and serves the valid ones.
// The returned error joins the per-file load problems; the service is usable
// even when it is non-nil.
func LoadTemplateService(ctx context.Context, dir string, usage repository.TemplateUsageRepo, observers ...UseCaseObserver) (TemplateService, error) {
	start := time.Now()
	registry, err := template.LoadTemplates(dir)

	failed := 0
	if err != nil {
		failed = len(LoadErrors(err))
	}
	useCaseObserverOrNoop(observers).ObserveUseCase(ctx, UseCaseEvent{
		Name:      "load-templates",
		StartedAt: start,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields: map[string]any{
			"dir":     dir,
			"loaded":  registry.Len(),
			"skipped": failed,
		},
	})
	return NewTemplateService(registry, usage), err
}

// LoadErrors splits the error returned by LoadTemplateService into one
// error per skipped file.
func LoadErrors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func (s *templateService) List(ctx context.Context) ([]*domain.Template, error) {
	templates := s.registry.List()
	if s.usage == nil {
		return templates, nil
	}

	usage, err := s.usage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	rank := make(map[string]int, len(usage))
	for i, u := range usage {
		rank[u.WBSType] = i
	}

	sort.SliceStable(templates, func(i, j int) bool {
		ri, iok := rank[templates[i].WBSType]
		rj, jok := rank[templates[j].WBSType]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return false
		}
	})
	return templates, nil
}

func (s *templateService) Get(_ context.Context, wbsType string) (*domain.Template, error) {
	return s.registry.Get(wbsType)
}
