package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoadmapOrigin string

const (
	OriginAI       RoadmapOrigin = "ai"
	OriginTemplate RoadmapOrigin = "template"
)

func ParseRoadmapOrigin(s string) (RoadmapOrigin, error) {
	switch RoadmapOrigin(s) {
	case OriginAI, OriginTemplate:
		return RoadmapOrigin(s), nil
	}
	return "", fmt.Errorf("unknown roadmap origin %q", s)
}

// Roadmap is a stored learning plan. The node/edge graph is inlined as JSON;
// the repo row is only reconciled with the live working copy on an explicit
// workspace commit.
type Roadmap struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description" json:"description"`
	Origin      RoadmapOrigin  `gorm:"column:origin;not null" json:"origin"`
	Progress    int            `gorm:"column:progress;not null;default:0" json:"progress"`
	Nodes       datatypes.JSON `gorm:"column:nodes" json:"nodes"`
	Edges       datatypes.JSON `gorm:"column:edges" json:"edges"`
	ProjectHTML string         `gorm:"column:project_html" json:"project_html,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Roadmap) TableName() string { return "roadmap" }

func (r *Roadmap) Graph() (Graph, error) {
	var g Graph
	if len(r.Nodes) > 0 {
		if err := json.Unmarshal(r.Nodes, &g.Nodes); err != nil {
			return Graph{}, fmt.Errorf("decode roadmap %s nodes: %w", r.ID, err)
		}
	}
	if len(r.Edges) > 0 {
		if err := json.Unmarshal(r.Edges, &g.Edges); err != nil {
			return Graph{}, fmt.Errorf("decode roadmap %s edges: %w", r.ID, err)
		}
	}
	return g, nil
}

func (r *Roadmap) SetGraph(g Graph) error {
	nodes, err := json.Marshal(g.Nodes)
	if err != nil {
		return fmt.Errorf("encode roadmap nodes: %w", err)
	}
	edges, err := json.Marshal(g.Edges)
	if err != nil {
		return fmt.Errorf("encode roadmap edges: %w", err)
	}
	r.Nodes = datatypes.JSON(nodes)
	r.Edges = datatypes.JSON(edges)
	return nil
}
