package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devlogai/devlog-backend/internal/clients/openai"
	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/repos"
	"github.com/devlogai/devlog-backend/internal/types"
)

type RoadmapService interface {
	List(ctx context.Context) ([]*types.Roadmap, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Roadmap, error)
	Create(ctx context.Context, title, description string, graph types.Graph, origin types.RoadmapOrigin) (*types.Roadmap, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Generate asks the model for a fresh node graph for the profile. The
	// result satisfies the creation contract (5-8 nodes, one unlocked) or an
	// error is returned.
	Generate(ctx context.Context, profile *types.UserProfile) (types.Graph, error)

	// FromTemplate instantiates one of the built-in roadmaps.
	FromTemplate(templateID string) (*RoadmapTemplate, types.Graph, error)
}

type roadmapService struct {
	db          *gorm.DB
	log         *logger.Logger
	roadmapRepo repos.RoadmapRepo
	aiClient    openai.Client
}

func NewRoadmapService(db *gorm.DB, log *logger.Logger, roadmapRepo repos.RoadmapRepo, aiClient openai.Client) RoadmapService {
	return &roadmapService{
		db:          db,
		log:         log.With("service", "RoadmapService"),
		roadmapRepo: roadmapRepo,
		aiClient:    aiClient,
	}
}

func (rs *roadmapService) List(ctx context.Context) ([]*types.Roadmap, error) {
	return rs.roadmapRepo.List(ctx, nil)
}

func (rs *roadmapService) Get(ctx context.Context, id uuid.UUID) (*types.Roadmap, error) {
	return rs.roadmapRepo.GetByID(ctx, nil, id)
}

func (rs *roadmapService) Create(ctx context.Context, title, description string, graph types.Graph, origin types.RoadmapOrigin) (*types.Roadmap, error) {
	if err := graph.Validate(); err != nil {
		return nil, fmt.Errorf("invalid roadmap graph: %w", err)
	}
	roadmap := &types.Roadmap{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Origin:      origin,
		Progress:    0,
	}
	if err := roadmap.SetGraph(graph); err != nil {
		return nil, err
	}
	created, err := rs.roadmapRepo.Create(ctx, nil, roadmap)
	if err != nil {
		rs.log.Error("Failed to create roadmap", "error", err, "title", title)
		return nil, err
	}
	rs.log.Info("Roadmap created", "roadmap_id", created.ID, "origin", origin, "nodes", len(graph.Nodes))
	return created, nil
}

func (rs *roadmapService) Delete(ctx context.Context, id uuid.UUID) error {
	return rs.roadmapRepo.Delete(ctx, nil, id)
}

func (rs *roadmapService) Generate(ctx context.Context, profile *types.UserProfile) (types.Graph, error) {
	if profile == nil {
		return types.Graph{}, ErrNoProfile
	}

	system, user := roadmapPrompt(profile)
	raw, err := rs.aiClient.GenerateJSON(ctx, system, user, "learning_roadmap", roadmapSchema())
	if err != nil {
		return types.Graph{}, fmt.Errorf("roadmap generation: %w", err)
	}

	var graph types.Graph
	if err := json.Unmarshal([]byte(StripCodeFence(string(raw))), &graph); err != nil {
		rs.log.Error("Roadmap JSON did not parse", "error", err)
		return types.Graph{}, fmt.Errorf("%w: %v", ErrBadModelJSON, err)
	}
	if err := graph.Validate(); err != nil {
		return types.Graph{}, fmt.Errorf("%w: %v", ErrBadModelJSON, err)
	}
	return graph, nil
}

func (rs *roadmapService) FromTemplate(templateID string) (*RoadmapTemplate, types.Graph, error) {
	tpl, err := TemplateByID(templateID)
	if err != nil {
		return nil, types.Graph{}, err
	}
	// Deep-copy through JSON so callers never mutate the embedded template.
	raw, err := json.Marshal(types.Graph{Nodes: tpl.Nodes, Edges: tpl.Edges})
	if err != nil {
		return nil, types.Graph{}, err
	}
	var graph types.Graph
	if err := json.Unmarshal(raw, &graph); err != nil {
		return nil, types.Graph{}, err
	}
	return tpl, graph, nil
}
