package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/repos"
	"github.com/devlogai/devlog-backend/internal/types"
)

// WorkspaceService owns the single checked-out roadmap: the live node/edge
// working copy the progression engine mutates. The working copy and the
// stored row are reconciled only by an explicit Commit; node edits are not
// persisted until then.
type WorkspaceService interface {
	Checkout(ctx context.Context, id uuid.UUID) (*Workspace, error)
	// CheckoutRoadmap makes a just-created roadmap current without a reload.
	CheckoutRoadmap(roadmap *types.Roadmap) (*Workspace, error)
	Current() (*Workspace, error)
	Discard()
	// DiscardIf drops the working copy when the given roadmap is the one
	// checked out, e.g. after its deletion.
	DiscardIf(id uuid.UUID)

	// Commit writes nodes/edges plus the derived progress back to the stored
	// roadmap. A non-nil projectHTML replaces the cached portfolio document;
	// nil retains the previous one.
	Commit(ctx context.Context, projectHTML *string) (*types.Roadmap, error)

	SetNodeStatus(nodeID string, status types.NodeStatus) error
	SetNodeChat(nodeID string, messages []types.Message) error
	SetNodeSummary(nodeID string, html string) error
}

// Workspace is a snapshot view of the checkout: which roadmap is current and
// its live graph.
type Workspace struct {
	RoadmapID   uuid.UUID
	Title       string
	Description string
	Graph       types.Graph
}

type workspaceService struct {
	db          *gorm.DB
	log         *logger.Logger
	roadmapRepo repos.RoadmapRepo

	mu        sync.Mutex
	roadmapID uuid.UUID
	title     string
	desc      string
	graph     *types.Graph
}

func NewWorkspaceService(db *gorm.DB, log *logger.Logger, roadmapRepo repos.RoadmapRepo) WorkspaceService {
	return &workspaceService{
		db:          db,
		log:         log.With("service", "WorkspaceService"),
		roadmapRepo: roadmapRepo,
	}
}

func (ws *workspaceService) Checkout(ctx context.Context, id uuid.UUID) (*Workspace, error) {
	roadmap, err := ws.roadmapRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return ws.CheckoutRoadmap(roadmap)
}

func (ws *workspaceService) CheckoutRoadmap(roadmap *types.Roadmap) (*Workspace, error) {
	graph, err := roadmap.Graph()
	if err != nil {
		return nil, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.roadmapID = roadmap.ID
	ws.title = roadmap.Title
	ws.desc = roadmap.Description
	ws.graph = &graph
	ws.log.Info("Roadmap checked out", "roadmap_id", roadmap.ID, "nodes", len(graph.Nodes))
	return ws.viewLocked(), nil
}

func (ws *workspaceService) Current() (*Workspace, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.graph == nil {
		return nil, ErrNoWorkspace
	}
	return ws.viewLocked(), nil
}

// viewLocked copies the live graph so callers cannot mutate it behind the
// engine's back. Callers must hold ws.mu.
func (ws *workspaceService) viewLocked() *Workspace {
	g := types.Graph{
		Nodes: append([]types.Node(nil), ws.graph.Nodes...),
		Edges: append([]types.Edge(nil), ws.graph.Edges...),
	}
	return &Workspace{
		RoadmapID:   ws.roadmapID,
		Title:       ws.title,
		Description: ws.desc,
		Graph:       g,
	}
}

func (ws *workspaceService) Discard() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.roadmapID = uuid.Nil
	ws.graph = nil
}

func (ws *workspaceService) DiscardIf(id uuid.UUID) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.roadmapID == id {
		ws.roadmapID = uuid.Nil
		ws.graph = nil
	}
}

func (ws *workspaceService) Commit(ctx context.Context, projectHTML *string) (*types.Roadmap, error) {
	ws.mu.Lock()
	if ws.graph == nil {
		ws.mu.Unlock()
		return nil, ErrNoWorkspace
	}
	id := ws.roadmapID
	graph := *ws.graph
	ws.mu.Unlock()

	roadmap, err := ws.roadmapRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if err := roadmap.SetGraph(graph); err != nil {
		return nil, err
	}
	roadmap.Progress = graph.Progress()
	if projectHTML != nil {
		roadmap.ProjectHTML = *projectHTML
	}
	if err := ws.roadmapRepo.Update(ctx, nil, roadmap); err != nil {
		ws.log.Error("Commit failed", "error", err, "roadmap_id", id)
		return nil, err
	}
	ws.log.Debug("Workspace committed", "roadmap_id", id, "progress", roadmap.Progress)
	return roadmap, nil
}

func (ws *workspaceService) SetNodeStatus(nodeID string, status types.NodeStatus) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.graph == nil {
		return ErrNoWorkspace
	}
	return ws.graph.SetStatus(nodeID, status)
}

func (ws *workspaceService) SetNodeChat(nodeID string, messages []types.Message) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.graph == nil {
		return ErrNoWorkspace
	}
	return ws.graph.SetChatHistory(nodeID, messages)
}

func (ws *workspaceService) SetNodeSummary(nodeID string, html string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.graph == nil {
		return ErrNoWorkspace
	}
	return ws.graph.SetSummary(nodeID, html)
}
