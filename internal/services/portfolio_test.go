package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/devlogai/devlog-backend/internal/repos"
	"github.com/devlogai/devlog-backend/internal/types"
)

type portfolioFixture struct {
	ai        *fakeAIClient
	workspace WorkspaceService
	service   PortfolioService
}

func newPortfolioFixture(t *testing.T, ai *fakeAIClient, graph types.Graph) *portfolioFixture {
	t.Helper()
	gdb := testDB(t)
	log := testLogger(t)
	ctx := context.Background()

	profileRepo := repos.NewProfileRepo(gdb, log)
	if _, err := profileRepo.Upsert(ctx, nil, testProfile()); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	roadmapRepo := repos.NewRoadmapRepo(gdb, log)
	ws := NewWorkspaceService(gdb, log, roadmapRepo)
	created := seedRoadmap(t, roadmapRepo, graph)
	if _, err := ws.CheckoutRoadmap(created); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	return &portfolioFixture{
		ai:        ai,
		workspace: ws,
		service:   NewPortfolioService(log, ai, ws, profileRepo, nil, 0),
	}
}

// seedRoadmap persists a roadmap row for graphs that are past the creation
// contract (completed nodes and the like).
func seedRoadmap(t *testing.T, roadmapRepo repos.RoadmapRepo, graph types.Graph) *types.Roadmap {
	t.Helper()
	roadmap := &types.Roadmap{Title: "Portfolio", Origin: types.OriginTemplate}
	if err := roadmap.SetGraph(graph); err != nil {
		t.Fatalf("SetGraph: %v", err)
	}
	created, err := roadmapRepo.Create(context.Background(), nil, roadmap)
	if err != nil {
		t.Fatalf("seed roadmap: %v", err)
	}
	return created
}

func completedGraph() types.Graph {
	return types.Graph{
		Nodes: []types.Node{
			{ID: "1", Label: "Goroutines", Status: types.StatusCompleted,
				ChatHistory: []types.Message{{Role: types.MessageRoleUser, Text: "what is a goroutine", Timestamp: 1}}},
			{ID: "2", Label: "Channels", Status: types.StatusCompleted},
			{ID: "3", Label: "Select", Status: types.StatusUnlocked},
		},
		Edges: []types.Edge{
			{ID: "e1-2", Source: "1", Target: "2"},
			{ID: "e2-3", Source: "2", Target: "3"},
		},
	}
}

func TestPortfolioAssemble_NoCompletedNodesMakesNoModelCalls(t *testing.T) {
	ai := &fakeAIClient{}
	fix := newPortfolioFixture(t, ai, types.Graph{
		Nodes: []types.Node{
			{ID: "1", Label: "Start", Status: types.StatusUnlocked},
			{ID: "2", Label: "Next", Status: types.StatusLocked},
		},
		Edges: []types.Edge{{ID: "e1-2", Source: "1", Target: "2"}},
	})

	if _, err := fix.service.Assemble(context.Background()); !errors.Is(err, ErrNoCompletedNodes) {
		t.Fatalf("Assemble = %v, want ErrNoCompletedNodes", err)
	}
	if ai.totalCalls() != 0 {
		t.Fatalf("model called %d times for empty portfolio, want 0", ai.totalCalls())
	}

	ws, err := fix.workspace.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	for _, n := range ws.Graph.Nodes {
		if n.SummaryHTML != "" {
			t.Fatalf("summary cached for %s despite precondition failure", n.ID)
		}
	}
}

func TestPortfolioAssemble_GeneratesSummariesAndCommitsDocument(t *testing.T) {
	ai := &fakeAIClient{
		textFn: func(system, user string) (string, error) {
			if strings.Contains(user, "<!-- MODULE:") {
				return "```html\n<html>final</html>\n```", nil
			}
			return "<div>module card</div>", nil
		},
	}
	fix := newPortfolioFixture(t, ai, completedGraph())

	html, err := fix.service.Assemble(context.Background())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if html != "<html>final</html>" {
		t.Fatalf("html = %q, want fences stripped final document", html)
	}
	// One summary per completed node plus one assembly call.
	if ai.textCalls != 3 {
		t.Fatalf("textCalls = %d, want 3", ai.textCalls)
	}

	ws, err := fix.workspace.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	for _, id := range []string{"1", "2"} {
		node, err := ws.Graph.GetNode(id)
		if err != nil {
			t.Fatalf("GetNode(%s): %v", id, err)
		}
		if node.SummaryHTML != "<div>module card</div>" {
			t.Fatalf("node %s summary = %q, want cached fragment", id, node.SummaryHTML)
		}
	}

	saved, err := fix.workspace.Commit(context.Background(), nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if saved.ProjectHTML != "<html>final</html>" {
		t.Fatalf("stored ProjectHTML = %q, want committed document", saved.ProjectHTML)
	}
}

func TestPortfolioAssemble_ReusesCachedSummaries(t *testing.T) {
	graph := completedGraph()
	graph.Nodes[0].SummaryHTML = "<div>cached</div>"
	graph.Nodes[1].SummaryHTML = "<div>cached too</div>"

	ai := &fakeAIClient{
		textFn: func(system, user string) (string, error) {
			if !strings.Contains(user, "<!-- MODULE:") {
				return "", errors.New("summary regenerated despite cache")
			}
			return "<html>doc</html>", nil
		},
	}
	fix := newPortfolioFixture(t, ai, graph)

	if _, err := fix.service.Assemble(context.Background()); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if ai.textCalls != 1 {
		t.Fatalf("textCalls = %d, want only the assembly call", ai.textCalls)
	}
}

func TestPortfolioAssemble_PartialCacheSurvivesFailure(t *testing.T) {
	ai := &fakeAIClient{}
	ai.textFn = func(system, user string) (string, error) {
		if ai.textCalls == 1 {
			return "<div>first</div>", nil
		}
		return "", errors.New("model unavailable")
	}
	fix := newPortfolioFixture(t, ai, completedGraph())

	if _, err := fix.service.Assemble(context.Background()); err == nil {
		t.Fatal("Assemble succeeded, want failure on second summary")
	}

	ws, err := fix.workspace.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	first, err := ws.Graph.GetNode("1")
	if err != nil {
		t.Fatalf("GetNode(1): %v", err)
	}
	if first.SummaryHTML != "<div>first</div>" {
		t.Fatalf("first summary = %q, want cached despite later failure", first.SummaryHTML)
	}

	// A retry only fills the gap before assembling.
	ai.textFn = func(system, user string) (string, error) {
		if strings.Contains(user, "<!-- MODULE:") {
			return "<html>doc</html>", nil
		}
		return "<div>second</div>", nil
	}
	before := ai.textCalls
	if _, err := fix.service.Assemble(context.Background()); err != nil {
		t.Fatalf("retry Assemble failed: %v", err)
	}
	if got := ai.textCalls - before; got != 2 {
		t.Fatalf("retry made %d calls, want 2 (missing summary plus assembly)", got)
	}
}

func TestPortfolioAssemble_CancelledContextStopsPacing(t *testing.T) {
	ai := &fakeAIClient{
		textFn: func(system, user string) (string, error) {
			return "<div>card</div>", nil
		},
	}
	gdb := testDB(t)
	log := testLogger(t)
	ctx := context.Background()

	profileRepo := repos.NewProfileRepo(gdb, log)
	if _, err := profileRepo.Upsert(ctx, nil, testProfile()); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	roadmapRepo := repos.NewRoadmapRepo(gdb, log)
	ws := NewWorkspaceService(gdb, log, roadmapRepo)
	created := seedRoadmap(t, roadmapRepo, completedGraph())
	if _, err := ws.CheckoutRoadmap(created); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	// Long pacing so the already-cancelled context wins the pause.
	svc := NewPortfolioService(log, ai, ws, profileRepo, nil, 30*time.Second)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := svc.Assemble(cancelled); !errors.Is(err, context.Canceled) {
		t.Fatalf("Assemble = %v, want context.Canceled", err)
	}
}
