package template

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alexanderramin/wbshub/internal/domain"
)

// Registry is the immutable set of templates loaded at startup, keyed by
// wbs_type. It is safe for concurrent reads.
type Registry struct {
	byType map[string]*domain.Template
	sorted []*domain.Template
}

// NewRegistry builds a registry from already-validated templates. Later
// duplicates are dropped; use LoadTemplates for duplicate reporting.
func NewRegistry(templates ...*domain.Template) *Registry {
	r := &Registry{byType: make(map[string]*domain.Template, len(templates))}
	for _, t := range templates {
		if _, ok := r.byType[t.WBSType]; ok {
			continue
		}
		r.byType[t.WBSType] = t
		r.sorted = append(r.sorted, t)
	}
	sort.SliceStable(r.sorted, func(i, j int) bool {
		if r.sorted[i].Name != r.sorted[j].Name {
			return r.sorted[i].Name < r.sorted[j].Name
		}
		return r.sorted[i].WBSType < r.sorted[j].WBSType
	})
	return r
}

// LoadTemplates reads every *.yaml / *.yml file in dir. Files that fail to
// parse or validate are skipped with a TemplateParseError; wbs_type values
// declared by more than one file are excluded entirely and reported with a
// DuplicateTemplateTypeError. The returned registry always holds the valid
// remainder, and the error (if any) joins every per-file problem.
func LoadTemplates(dir string) (*Registry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return NewRegistry(), fmt.Errorf("reading template directory: %w", err)
	}
	if !info.IsDir() {
		return NewRegistry(), fmt.Errorf("reading template directory: %s is not a directory", dir)
	}

	files, err := templateFiles(dir)
	if err != nil {
		return NewRegistry(), fmt.Errorf("reading template directory: %w", err)
	}

	var errs []error
	byType := map[string][]*domain.Template{}
	var order []string

	for _, file := range files {
		schema, err := LoadSchema(file)
		if err != nil {
			errs = append(errs, &domain.TemplateParseError{Path: file, Err: err})
			continue
		}
		if verrs := ValidateSchema(schema); len(verrs) > 0 {
			errs = append(errs, &domain.TemplateParseError{Path: file, Err: errors.Join(verrs...)})
			continue
		}

		t := schema.ToDomain(file)
		if _, seen := byType[t.WBSType]; !seen {
			order = append(order, t.WBSType)
		}
		byType[t.WBSType] = append(byType[t.WBSType], t)
	}

	valid := make([]*domain.Template, 0, len(order))
	for _, wbsType := range order {
		group := byType[wbsType]
		if len(group) > 1 {
			paths := make([]string, 0, len(group))
			for _, t := range group {
				paths = append(paths, t.SourcePath)
			}
			errs = append(errs, &domain.DuplicateTemplateTypeError{WBSType: wbsType, Paths: paths})
			continue
		}
		valid = append(valid, group[0])
	}

	return NewRegistry(valid...), errors.Join(errs...)
}

func templateFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Get returns the template registered under wbsType.
func (r *Registry) Get(wbsType string) (*domain.Template, error) {
	t, ok := r.byType[strings.TrimSpace(wbsType)]
	if !ok {
		return nil, &domain.TemplateNotFoundError{WBSType: wbsType}
	}
	return t, nil
}

// List returns all templates sorted by display name, then wbs_type.
func (r *Registry) List() []*domain.Template {
	out := make([]*domain.Template, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// Len returns the number of loaded templates.
func (r *Registry) Len() int {
	return len(r.sorted)
}
