package cli

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/wbshub/internal/cli/formatter"
	"github.com/alexanderramin/wbshub/internal/domain"
	"github.com/alexanderramin/wbshub/internal/payload"
	"github.com/alexanderramin/wbshub/internal/service"
)

// wbshubHuhTheme returns a huh theme using the formatter's Gruvbox palette.
func wbshubHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorGreen).SetString("[✔] ")
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorDim).SetString("[ ] ")
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed).SetString(" *")
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// huhPrompter asks for input with huh forms. In accessible mode forms are
// read line by line from in, which is how piped stdin is handled.
type huhPrompter struct {
	accessible bool
	in         io.Reader
	out        io.Writer
}

// NewHuhPrompter creates the form-based Prompter.
func NewHuhPrompter(accessible bool, in io.Reader, out io.Writer) Prompter {
	return &huhPrompter{accessible: accessible, in: in, out: out}
}

func (p *huhPrompter) run(form *huh.Form) error {
	form = form.WithAccessible(p.accessible)
	if p.in != nil {
		form = form.WithInput(p.in)
	}
	if p.out != nil {
		form = form.WithOutput(p.out)
	}
	return form.Run()
}

func (p *huhPrompter) Header(templates []*domain.Template, in *HeaderInput) error {
	return p.run(headerForm(templates, in))
}

func (p *huhPrompter) Tasks(t *domain.Template, maxDays int) ([]domain.Selection, error) {
	var chosen []int
	if err := p.run(taskSelectForm(t, &chosen)); err != nil {
		return nil, err
	}
	tasks := tasksByID(t, chosen)
	if len(tasks) == 0 {
		return nil, domain.ErrNoSelection
	}

	values := make([]string, len(tasks))
	if err := p.run(daysForm(tasks, maxDays, values)); err != nil {
		return nil, err
	}
	return selectionsFromDays(tasks, values, maxDays)
}

// selectionsFromDays pairs tasks with the day counts typed for them and
// checks the whole selection before it reaches the planner.
func selectionsFromDays(tasks []domain.TaskDef, values []string, maxDays int) ([]domain.Selection, error) {
	selections := make([]domain.Selection, 0, len(tasks))
	for i, task := range tasks {
		days, _ := strconv.Atoi(strings.TrimSpace(values[i]))
		selections = append(selections, domain.Selection{Task: task, Days: days})
	}
	if err := service.ValidateSelections(selections, maxDays); err != nil {
		return nil, err
	}
	return selections, nil
}

func (p *huhPrompter) Multiplier(t *domain.Template) (MultiplierInput, error) {
	var in MultiplierInput
	if len(t.Categories) > 0 {
		in.CategoryID = t.Categories[0].ID
	}
	if err := p.run(categoryForm(t, &in.CategoryID)); err != nil {
		return in, err
	}
	category, ok := t.Category(in.CategoryID)
	if !ok {
		return in, &domain.TemplateNotFoundError{WBSType: t.WBSType + "/" + in.CategoryID}
	}

	var picked []string
	var extra string
	if err := p.run(itemsForm(category, &picked, &extra)); err != nil {
		return in, err
	}
	in.Items = mergeItems(picked, service.ParseItems(extra))
	return in, nil
}

func (p *huhPrompter) Confirm(title string) (bool, error) {
	ok := true
	if err := p.run(wizardConfirm(title, &ok)); err != nil {
		return false, err
	}
	return ok, nil
}

// headerForm collects the template and the fields shared by every task.
func headerForm(templates []*domain.Template, in *HeaderInput) *huh.Form {
	options := make([]huh.Option[string], 0, len(templates))
	for _, t := range templates {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", t.Name, t.WBSType), t.WBSType))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Template").
				Description("Recently used templates come first.").
				Options(options...).
				Value(&in.WBSType),
			huh.NewInput().
				Title("WBS code").
				Placeholder("010").
				Value(&in.WBSCode).
				Validate(requiredText("WBS code")),
			huh.NewInput().
				Title("Project").
				Placeholder("01058 - Montagem de segmento").
				Value(&in.Project).
				Validate(requiredText("Project")),
			huh.NewInput().
				Title("Webhook endpoint").
				Value(&in.Endpoint).
				Validate(validateEndpoint),
		),
	).WithTheme(wbshubHuhTheme()).WithShowHelp(false)
}

// taskSelectForm lets the user pick tasks. Required tasks start selected.
func taskSelectForm(t *domain.Template, chosen *[]int) *huh.Form {
	options := make([]huh.Option[int], 0, len(t.Tasks))
	for _, task := range t.Tasks {
		options = append(options, huh.NewOption(payload.TaskLabel(task), task.ID).Selected(task.Required))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title(t.Name).
				Description(t.Description).
				Options(options...).
				Value(chosen).
				Validate(func(ids []int) error {
					if len(ids) == 0 {
						return domain.ErrNoSelection
					}
					return nil
				}),
		),
	).WithTheme(wbshubHuhTheme()).WithShowHelp(false)
}

// daysForm asks for a day count per task. values must have one slot per
// task; each starts at the task's default.
func daysForm(tasks []domain.TaskDef, maxDays int, values []string) *huh.Form {
	fields := make([]huh.Field, 0, len(tasks))
	for i, task := range tasks {
		def := task.DefaultDays
		if def < 1 {
			def = 1
		}
		if def > maxDays {
			def = maxDays
		}
		values[i] = strconv.Itoa(def)

		fields = append(fields, huh.NewInput().
			Title(payload.TaskLabel(task)).
			Description(fmt.Sprintf("Days (1-%d)", maxDays)).
			Value(&values[i]).
			Validate(validateDays(maxDays)))
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithTheme(wbshubHuhTheme()).WithShowHelp(false)
}

func categoryForm(t *domain.Template, result *string) *huh.Form {
	options := make([]huh.Option[string], 0, len(t.Categories))
	for _, c := range t.Categories {
		options = append(options, huh.NewOption(c.Name, c.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Category").
				Description(t.Description).
				Options(options...).
				Value(result),
		),
	).WithTheme(wbshubHuhTheme()).WithShowHelp(false)
}

// itemsForm lets the user pick catalog items and type extra ones.
func itemsForm(c domain.Category, picked *[]string, extra *string) *huh.Form {
	fields := make([]huh.Field, 0, 2)
	if len(c.Items) > 0 {
		options := make([]huh.Option[string], 0, len(c.Items))
		for _, item := range c.Items {
			options = append(options, huh.NewOption(item, item))
		}
		fields = append(fields, huh.NewMultiSelect[string]().
			Title(c.Name).
			Description(fmt.Sprintf("Each item becomes %d tarefas: %s", len(c.Tasks), strings.Join(c.Tasks, ", "))).
			Options(options...).
			Value(picked))
	}
	fields = append(fields, huh.NewText().
		Title("Other items").
		Description("One per line, or separated by commas.").
		Value(extra))

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithTheme(wbshubHuhTheme()).WithShowHelp(false)
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(wbshubHuhTheme()).WithShowHelp(false)
}

// tasksByID returns the tasks with the given ids in template order.
func tasksByID(t *domain.Template, ids []int) []domain.TaskDef {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.TaskDef
	for _, task := range t.Tasks {
		if want[task.ID] {
			out = append(out, task)
		}
	}
	return out
}

// mergeItems concatenates item lists, dropping blanks and repeats.
func mergeItems(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range lists {
		for _, item := range list {
			item = strings.TrimSpace(item)
			if item == "" || seen[item] {
				continue
			}
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}

func requiredText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// validateDays accepts a whole number of days in 1..maxDays.
func validateDays(maxDays int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || v < 1 {
			return fmt.Errorf("enter a whole number of days, at least 1")
		}
		if v > maxDays {
			return fmt.Errorf("at most %d days", maxDays)
		}
		return nil
	}
}

// validateEndpoint accepts an absolute http(s) URL.
func validateEndpoint(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter an http(s) URL")
	}
	return nil
}
