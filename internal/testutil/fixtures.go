package testutil

import (
	"fmt"

	"github.com/alexanderramin/wbshub/internal/domain"
)

// TemplateOption customizes a test template.
type TemplateOption func(*domain.Template)

func WithWBSType(wbsType string) TemplateOption {
	return func(t *domain.Template) {
		t.WBSType = wbsType
	}
}

func WithTask(id int, name string, defaultDays int, required bool) TemplateOption {
	return func(t *domain.Template) {
		t.Tasks = append(t.Tasks, domain.TaskDef{
			ID:          id,
			Name:        name,
			Required:    required,
			DefaultDays: defaultDays,
		})
	}
}

func WithCategory(id, name string, items, tasks []string) TemplateOption {
	return func(t *domain.Template) {
		t.Logic = domain.LogicMultiplier
		t.Categories = append(t.Categories, domain.Category{
			ID:    id,
			Name:  name,
			Items: items,
			Tasks: tasks,
		})
	}
}

// NewTestTemplate builds a percentage template. Without WithTask options it
// gets three tasks lasting 1, 2 and 3 days.
func NewTestTemplate(name string, opts ...TemplateOption) *domain.Template {
	t := &domain.Template{
		Name:        name,
		WBSType:     "test",
		Description: fmt.Sprintf("%s template", name),
		Logic:       domain.LogicPercentage,
	}
	for _, opt := range opts {
		opt(t)
	}
	if len(t.Tasks) == 0 && t.Logic == domain.LogicPercentage {
		t.Tasks = []domain.TaskDef{
			{ID: 1, Name: "Levantamento", Required: true, DefaultDays: 1},
			{ID: 2, Name: "Montagem", DefaultDays: 2},
			{ID: 3, Name: "Testes", DefaultDays: 3},
		}
	}
	return t
}

// NewTestPayloads returns n payloads with distinct tarefa values.
func NewTestPayloads(n int) []domain.Payload {
	out := make([]domain.Payload, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.Payload{
			Tarefa:  fmt.Sprintf("010 - 1. Item %d - %d%%", i, i*100/n),
			Projeto: "P1",
			WBSType: "test",
		})
	}
	return out
}
