package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/devlogai/devlog-backend/internal/repos"
	"github.com/devlogai/devlog-backend/internal/types"
)

func newWorkspaceFixture(t *testing.T) (WorkspaceService, RoadmapService, *gorm.DB) {
	t.Helper()
	gdb := testDB(t)
	log := testLogger(t)
	roadmapRepo := repos.NewRoadmapRepo(gdb, log)
	ws := NewWorkspaceService(gdb, log, roadmapRepo)
	rs := NewRoadmapService(gdb, log, roadmapRepo, &fakeAIClient{})
	return ws, rs, gdb
}

func threeNodeGraph() types.Graph {
	return types.Graph{
		Nodes: []types.Node{
			{ID: "1", Label: "Basics", Status: types.StatusUnlocked},
			{ID: "2", Label: "Intermediate", Status: types.StatusLocked},
			{ID: "3", Label: "Advanced", Status: types.StatusLocked},
		},
		Edges: []types.Edge{
			{ID: "e1-2", Source: "1", Target: "2"},
			{ID: "e2-3", Source: "2", Target: "3"},
		},
	}
}

func TestWorkspace_CommitPersistsProgressAndGraph(t *testing.T) {
	ws, rs, _ := newWorkspaceFixture(t)
	ctx := context.Background()

	created, err := rs.Create(ctx, "Go Basics", "desc", threeNodeGraph(), types.OriginTemplate)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := ws.CheckoutRoadmap(created); err != nil {
		t.Fatalf("CheckoutRoadmap failed: %v", err)
	}

	if err := ws.SetNodeStatus("1", types.StatusCompleted); err != nil {
		t.Fatalf("SetNodeStatus failed: %v", err)
	}
	if err := ws.SetNodeChat("2", []types.Message{{Role: types.MessageRoleUser, Text: "hi", Timestamp: 7}}); err != nil {
		t.Fatalf("SetNodeChat failed: %v", err)
	}
	if err := ws.SetNodeSummary("1", "<div>summary</div>"); err != nil {
		t.Fatalf("SetNodeSummary failed: %v", err)
	}

	saved, err := ws.Commit(ctx, nil)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	// 1 of 3 completed rounds to 33.
	if saved.Progress != 33 {
		t.Fatalf("progress = %d, want 33", saved.Progress)
	}

	// Reopening by id restores the identical graph state.
	view, err := ws.Checkout(ctx, created.ID)
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	n1, err := view.Graph.GetNode("1")
	if err != nil {
		t.Fatalf("GetNode(1): %v", err)
	}
	if n1.Status != types.StatusCompleted || n1.SummaryHTML != "<div>summary</div>" {
		t.Fatalf("node 1 did not round trip: %+v", n1)
	}
	n2, err := view.Graph.GetNode("2")
	if err != nil {
		t.Fatalf("GetNode(2): %v", err)
	}
	if n2.Status != types.StatusUnlocked {
		t.Fatalf("node 2 status = %s, want unlocked (unlocked by completing 1)", n2.Status)
	}
	if len(n2.ChatHistory) != 1 || n2.ChatHistory[0].Text != "hi" {
		t.Fatalf("node 2 chat did not round trip: %+v", n2.ChatHistory)
	}
}

func TestWorkspace_CommitDocumentSemantics(t *testing.T) {
	ws, rs, _ := newWorkspaceFixture(t)
	ctx := context.Background()

	created, err := rs.Create(ctx, "Docs", "", threeNodeGraph(), types.OriginTemplate)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := ws.CheckoutRoadmap(created); err != nil {
		t.Fatalf("CheckoutRoadmap failed: %v", err)
	}

	html := "<html>portfolio</html>"
	saved, err := ws.Commit(ctx, &html)
	if err != nil {
		t.Fatalf("Commit with document failed: %v", err)
	}
	if saved.ProjectHTML != html {
		t.Fatalf("ProjectHTML = %q, want %q", saved.ProjectHTML, html)
	}

	// Commit without a document keeps the previous one.
	saved, err = ws.Commit(ctx, nil)
	if err != nil {
		t.Fatalf("Commit without document failed: %v", err)
	}
	if saved.ProjectHTML != html {
		t.Fatalf("ProjectHTML after nil commit = %q, want retained %q", saved.ProjectHTML, html)
	}
}

func TestWorkspace_RequiresCheckout(t *testing.T) {
	ws, _, _ := newWorkspaceFixture(t)

	if _, err := ws.Current(); !errors.Is(err, ErrNoWorkspace) {
		t.Fatalf("Current() = %v, want ErrNoWorkspace", err)
	}
	if err := ws.SetNodeStatus("1", types.StatusActive); !errors.Is(err, ErrNoWorkspace) {
		t.Fatalf("SetNodeStatus = %v, want ErrNoWorkspace", err)
	}
	if _, err := ws.Commit(context.Background(), nil); !errors.Is(err, ErrNoWorkspace) {
		t.Fatalf("Commit = %v, want ErrNoWorkspace", err)
	}
}

func TestWorkspace_DiscardIfClearsOnlyMatchingRoadmap(t *testing.T) {
	ws, rs, _ := newWorkspaceFixture(t)
	ctx := context.Background()

	first, err := rs.Create(ctx, "First", "", threeNodeGraph(), types.OriginTemplate)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := rs.Create(ctx, "Second", "", threeNodeGraph(), types.OriginTemplate)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := ws.CheckoutRoadmap(first); err != nil {
		t.Fatalf("CheckoutRoadmap failed: %v", err)
	}

	ws.DiscardIf(second.ID)
	if _, err := ws.Current(); err != nil {
		t.Fatalf("Current() after unrelated DiscardIf = %v, want nil", err)
	}

	ws.DiscardIf(first.ID)
	if _, err := ws.Current(); !errors.Is(err, ErrNoWorkspace) {
		t.Fatalf("Current() after matching DiscardIf = %v, want ErrNoWorkspace", err)
	}
}

func TestWorkspace_UnknownNodeErrorsDoNotMutate(t *testing.T) {
	ws, rs, _ := newWorkspaceFixture(t)
	ctx := context.Background()

	created, err := rs.Create(ctx, "R", "", threeNodeGraph(), types.OriginTemplate)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := ws.CheckoutRoadmap(created); err != nil {
		t.Fatalf("CheckoutRoadmap failed: %v", err)
	}

	if err := ws.SetNodeStatus("ghost", types.StatusCompleted); !errors.Is(err, types.ErrNodeNotFound) {
		t.Fatalf("SetNodeStatus(ghost) = %v, want ErrNodeNotFound", err)
	}

	view, err := ws.Current()
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	for _, n := range view.Graph.Nodes {
		if n.Status == types.StatusCompleted {
			t.Fatalf("node %s mutated by failed operation", n.ID)
		}
	}
}
