package domain

// LogicKind selects how a template expands a user's selection into items.
type LogicKind string

const (
	// LogicPercentage stages each selected task over its day count.
	LogicPercentage LogicKind = "percentual"
	// LogicMultiplier crosses each selected item with a category's fixed tasks.
	LogicMultiplier LogicKind = "multiplicador"
)

// ValidLogicKinds is the canonical set of accepted tipo_logica values.
var ValidLogicKinds = map[LogicKind]bool{
	LogicPercentage: true,
	LogicMultiplier: true,
}

// Template is a named, typed set of task definitions used to generate a WBS.
// Templates are loaded once at startup and never mutated afterwards.
type Template struct {
	Name        string
	WBSType     string
	Description string
	Logic       LogicKind
	Tasks       []TaskDef
	Categories  []Category
	SourcePath  string
}

// TaskDef is a single task definition inside a percentage template.
type TaskDef struct {
	ID          int
	Name        string
	Required    bool
	DefaultDays int
}

// Category groups a list of selectable items and the fixed tasks every
// selected item is expanded into.
type Category struct {
	ID    string
	Name  string
	Items []string
	Tasks []string
}

// IsMultiplier reports whether the template uses category × item expansion.
func (t *Template) IsMultiplier() bool {
	return t.Logic == LogicMultiplier
}

// Task returns the task definition with the given id.
func (t *Template) Task(id int) (TaskDef, bool) {
	for _, task := range t.Tasks {
		if task.ID == id {
			return task, true
		}
	}
	return TaskDef{}, false
}

// Category returns the category with the given id.
func (t *Template) Category(id string) (Category, bool) {
	for _, c := range t.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// RequiredTasks returns the tasks flagged as obrigatoria, in template order.
func (t *Template) RequiredTasks() []TaskDef {
	var out []TaskDef
	for _, task := range t.Tasks {
		if task.Required {
			out = append(out, task)
		}
	}
	return out
}
