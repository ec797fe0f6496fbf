package service

import (
	"errors"
	"strings"

	"github.com/alexanderramin/wbshub/internal/breakdown"
	"github.com/alexanderramin/wbshub/internal/domain"
	"github.com/alexanderramin/wbshub/internal/payload"
)

// Plan is the expanded, ready-to-submit result of a user's selection.
type Plan struct {
	WBSType string
	// Items holds the percentage stages behind Payloads. It is empty for
	// multiplier plans, whose payloads are item × fixed-task pairs.
	Items    []domain.SubTaskItem
	Payloads []domain.Payload

	// Rejected holds one error per selection that could not be expanded.
	// Rejected selections do not block the others.
	Rejected []error
}

// Summary is the preview shown before submission.
type Summary struct {
	Total   int
	Tarefas []string
}

// Summary lists the tarefa strings that will be created.
func (p *Plan) Summary() Summary {
	return Summarize(p.Payloads)
}

// Summarize lists the tarefa strings of payloads in submission order.
func Summarize(payloads []domain.Payload) Summary {
	s := Summary{Total: len(payloads), Tarefas: make([]string, 0, len(payloads))}
	for _, p := range payloads {
		s.Tarefas = append(s.Tarefas, p.Tarefa)
	}
	return s
}

// ValidateHeader checks the fields shared by every selection.
func ValidateHeader(wbsCode, project string) error {
	var errs []error
	if strings.TrimSpace(wbsCode) == "" {
		errs = append(errs, domain.ErrMissingWBSCode)
	}
	if strings.TrimSpace(project) == "" {
		errs = append(errs, domain.ErrMissingProject)
	}
	return errors.Join(errs...)
}

// ValidateSelections reports ErrNoSelection for an empty selection, or the
// InvalidDaysError of the first selection whose day count is outside
// 1..maxDays.
func ValidateSelections(selections []domain.Selection, maxDays int) error {
	if len(selections) == 0 {
		return domain.ErrNoSelection
	}
	for _, sel := range selections {
		if err := validateDays(sel, maxDays); err != nil {
			return err
		}
	}
	return nil
}

func validateDays(sel domain.Selection, maxDays int) error {
	if sel.Days < 1 || sel.Days > maxDays {
		return &domain.InvalidDaysError{Task: sel.Task.Name, Days: sel.Days, Max: maxDays}
	}
	return nil
}

// ParseItems splits free text into items: by line when the text has line
// breaks, otherwise by comma. Blank entries are dropped.
func ParseItems(text string) []string {
	sep := ","
	if strings.Contains(text, "\n") {
		sep = "\n"
	}
	var items []string
	for _, part := range strings.Split(text, sep) {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}

type plannerService struct {
	maxDays int
}

// NewPlannerService creates a PlannerService. maxDays is clamped to
// 1..breakdown.MaxDays.
func NewPlannerService(maxDays int) PlannerService {
	if maxDays < 1 || maxDays > breakdown.MaxDays {
		maxDays = breakdown.MaxDays
	}
	return &plannerService{maxDays: maxDays}
}

func (s *plannerService) Expand(t *domain.Template, selections []domain.Selection) (*Plan, error) {
	if len(selections) == 0 {
		return nil, domain.ErrNoSelection
	}

	plan := &Plan{WBSType: t.WBSType}
	for _, sel := range selections {
		if err := ValidateHeader(sel.WBSCode, sel.Project); err != nil {
			return nil, err
		}
		if err := validateDays(sel, s.maxDays); err != nil {
			plan.Rejected = append(plan.Rejected, err)
			continue
		}

		stages, err := breakdown.Breakdown(payload.TaskLabel(sel.Task), sel.Days)
		if err != nil {
			plan.Rejected = append(plan.Rejected, err)
			continue
		}

		for _, stage := range stages {
			plan.Items = append(plan.Items, domain.SubTaskItem{
				Label:      stage.Label,
				Percentage: stage.Percentage,
				Project:    sel.Project,
				WBSType:    t.WBSType,
			})
			plan.Payloads = append(plan.Payloads, payload.Build(sel.WBSCode, stage.Label, sel.Project, t.WBSType))
		}
	}
	return plan, nil
}

func (s *plannerService) ExpandMultiplier(t *domain.Template, categoryID string, items []string, wbsCode, project string) (*Plan, error) {
	if err := ValidateHeader(wbsCode, project); err != nil {
		return nil, err
	}
	category, ok := t.Category(categoryID)
	if !ok {
		return nil, &domain.TemplateNotFoundError{WBSType: t.WBSType + "/" + categoryID}
	}

	plan := &Plan{WBSType: t.WBSType}
	for _, raw := range items {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}
		for _, task := range category.Tasks {
			plan.Payloads = append(plan.Payloads,
				payload.BuildMultiplier(wbsCode, item, task, project, t.WBSType, category.Name))
		}
	}
	if len(plan.Payloads) == 0 {
		return nil, domain.ErrNoItems
	}
	return plan, nil
}
