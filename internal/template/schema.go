package template

import (
	"bytes"
	"fmt"
	"os"

	"github.com/alexanderramin/wbshub/internal/domain"
	"gopkg.in/yaml.v3"
)

// TemplateSchema is the top-level YAML template structure. Field names follow
// the file contract shared with the automation side.
type TemplateSchema struct {
	Name        string           `yaml:"nome"`
	WBSType     string           `yaml:"wbs_type"`
	Description string           `yaml:"descricao"`
	Logic       string           `yaml:"tipo_logica,omitempty"` // "percentual" (default) or "multiplicador"
	Tasks       []TaskConfig     `yaml:"tarefas,omitempty"`
	Categories  []CategoryConfig `yaml:"categorias,omitempty"`
}

type TaskConfig struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"nome"`
	Required    bool   `yaml:"obrigatoria"`
	DefaultDays *int   `yaml:"dias_default,omitempty"` // nil means 1
}

type CategoryConfig struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"nome"`
	Items []string `yaml:"itens,omitempty"`
	Tasks []string `yaml:"tarefas"`
}

// LoadSchema reads and decodes a single template file. Unknown fields are
// rejected so typos in the contract surface as parse errors.
func LoadSchema(path string) (*TemplateSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("parsing template: empty file")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var schema TemplateSchema
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &schema, nil
}

// LogicKind returns the declared logic, defaulting to percentage staging.
func (s *TemplateSchema) LogicKind() domain.LogicKind {
	if s.Logic == "" {
		return domain.LogicPercentage
	}
	return domain.LogicKind(s.Logic)
}

// ToDomain converts a validated schema into the domain template.
func (s *TemplateSchema) ToDomain(path string) *domain.Template {
	t := &domain.Template{
		Name:        s.Name,
		WBSType:     s.WBSType,
		Description: s.Description,
		Logic:       s.LogicKind(),
		SourcePath:  path,
	}

	t.Tasks = make([]domain.TaskDef, 0, len(s.Tasks))
	for _, tc := range s.Tasks {
		t.Tasks = append(t.Tasks, domain.TaskDef{
			ID:          tc.ID,
			Name:        tc.Name,
			Required:    tc.Required,
			DefaultDays: domain.IntFromPtrWithDefault(1, tc.DefaultDays),
		})
	}

	for _, cc := range s.Categories {
		t.Categories = append(t.Categories, domain.Category{
			ID:    cc.ID,
			Name:  cc.Name,
			Items: append([]string(nil), cc.Items...),
			Tasks: append([]string(nil), cc.Tasks...),
		})
	}
	return t
}
