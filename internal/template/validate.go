package template

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wbshub/internal/domain"
)

// ValidateSchema checks a TemplateSchema for structural errors.
// Returns a slice of errors (empty if valid).
func ValidateSchema(schema *TemplateSchema) []error {
	var errs []error

	if strings.TrimSpace(schema.Name) == "" {
		errs = append(errs, fmt.Errorf("nome is required"))
	}
	if strings.TrimSpace(schema.WBSType) == "" {
		errs = append(errs, fmt.Errorf("wbs_type is required"))
	}

	logic := schema.LogicKind()
	if !domain.ValidLogicKinds[logic] {
		errs = append(errs, fmt.Errorf("tipo_logica %q is not supported", schema.Logic))
		return errs
	}

	if logic == domain.LogicMultiplier {
		return append(errs, validateCategories(schema.Categories)...)
	}
	return append(errs, validateTasks(schema.Tasks)...)
}

func validateTasks(tasks []TaskConfig) []error {
	var errs []error
	if len(tasks) == 0 {
		errs = append(errs, fmt.Errorf("at least one task is required"))
	}

	ids := map[int]bool{}
	for i, task := range tasks {
		if task.ID < 1 {
			errs = append(errs, fmt.Errorf("tarefas[%d]: id must be positive", i))
		}
		if strings.TrimSpace(task.Name) == "" {
			errs = append(errs, fmt.Errorf("tarefas[%d]: nome is required", i))
		}
		if task.DefaultDays != nil && *task.DefaultDays < 1 {
			errs = append(errs, fmt.Errorf("tarefas[%d]: dias_default must be at least 1", i))
		}
		if ids[task.ID] {
			errs = append(errs, fmt.Errorf("tarefas[%d]: duplicate id %d", i, task.ID))
		}
		ids[task.ID] = true
	}
	return errs
}

func validateCategories(categories []CategoryConfig) []error {
	var errs []error
	if len(categories) == 0 {
		errs = append(errs, fmt.Errorf("at least one category is required"))
	}

	ids := map[string]bool{}
	for i, c := range categories {
		if c.ID == "" {
			errs = append(errs, fmt.Errorf("categorias[%d]: id is required", i))
		}
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, fmt.Errorf("categorias[%d]: nome is required", i))
		}
		if len(c.Tasks) == 0 {
			errs = append(errs, fmt.Errorf("categorias[%d]: at least one task is required", i))
		}
		if c.ID != "" && ids[c.ID] {
			errs = append(errs, fmt.Errorf("categorias[%d]: duplicate id %q", i, c.ID))
		}
		ids[c.ID] = true
	}
	return errs
}
