package services

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/devlogai/devlog-backend/internal/types"
)

//go:embed templates.yaml
var templatesYAML []byte

// RoadmapTemplate is a built-in roadmap users can pick instead of AI
// generation.
type RoadmapTemplate struct {
	ID          string       `yaml:"id"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Nodes       []types.Node `yaml:"nodes"`
	Edges       []types.Edge `yaml:"edges"`
}

type templateFile struct {
	Templates []RoadmapTemplate `yaml:"templates"`
}

var (
	templatesOnce sync.Once
	templatesList []RoadmapTemplate
	templatesErr  error
)

func loadTemplates() ([]RoadmapTemplate, error) {
	templatesOnce.Do(func() {
		var f templateFile
		if err := yaml.Unmarshal(templatesYAML, &f); err != nil {
			templatesErr = fmt.Errorf("parse embedded templates: %w", err)
			return
		}
		for _, tpl := range f.Templates {
			g := types.Graph{Nodes: tpl.Nodes, Edges: tpl.Edges}
			if err := g.Validate(); err != nil {
				templatesErr = fmt.Errorf("template %q: %w", tpl.ID, err)
				return
			}
		}
		templatesList = f.Templates
	})
	return templatesList, templatesErr
}

func Templates() ([]RoadmapTemplate, error) {
	return loadTemplates()
}

func TemplateByID(id string) (*RoadmapTemplate, error) {
	all, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("unknown roadmap template %q", id)
}
