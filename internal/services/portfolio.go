package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devlogai/devlog-backend/internal/clients/openai"
	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/repos"
	"github.com/devlogai/devlog-backend/internal/sse"
	"github.com/devlogai/devlog-backend/internal/types"
)

// summaryContextLimit bounds the transcript characters sent per module
// summary request.
const summaryContextLimit = 15000

// PortfolioService assembles the final learning-log page from every completed
// node, reusing per-node summary fragments cached on the workspace graph.
type PortfolioService interface {
	// Assemble generates any missing module summaries, then the combined
	// document, commits it to the stored roadmap, and returns the HTML.
	Assemble(ctx context.Context) (string, error)
}

type portfolioService struct {
	log         *logger.Logger
	aiClient    openai.Client
	workspace   WorkspaceService
	profileRepo repos.ProfileRepo
	hub         *sse.Hub

	// Flat throttle between summary requests; not a retry/backoff.
	pacing time.Duration
}

func NewPortfolioService(log *logger.Logger, aiClient openai.Client, workspace WorkspaceService, profileRepo repos.ProfileRepo, hub *sse.Hub, pacing time.Duration) PortfolioService {
	return &portfolioService{
		log:         log.With("service", "PortfolioService"),
		aiClient:    aiClient,
		workspace:   workspace,
		profileRepo: profileRepo,
		hub:         hub,
		pacing:      pacing,
	}
}

func (ps *portfolioService) Assemble(ctx context.Context) (string, error) {
	profile, err := ps.profileRepo.Get(ctx, nil)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", ErrNoProfile
	}

	workspace, err := ps.workspace.Current()
	if err != nil {
		return "", err
	}
	completed := workspace.Graph.CompletedNodes()
	if len(completed) == 0 {
		return "", ErrNoCompletedNodes
	}

	// Summary fragments already cached are reused as-is; only the gaps issue
	// model calls. Fragments cached before a later failure stay cached, so a
	// retry resumes where this attempt stopped.
	summaries := make(map[string]string, len(completed))
	for _, node := range completed {
		if node.SummaryHTML != "" {
			summaries[node.ID] = node.SummaryHTML
			continue
		}

		ps.emit(sse.EventPortfolioStep, fmt.Sprintf("Analyzing module: %s...", node.Label))
		html, err := ps.generateModuleSummary(ctx, node)
		if err != nil {
			ps.emit(sse.EventPortfolioFailed, err.Error())
			return "", fmt.Errorf("module summary for %q: %w", node.Label, err)
		}
		if err := ps.workspace.SetNodeSummary(node.ID, html); err != nil {
			return "", err
		}
		summaries[node.ID] = html
		ps.emit(sse.EventPortfolioModule, node.Label)

		if err := ps.pause(ctx); err != nil {
			return "", err
		}
	}

	ps.emit(sse.EventPortfolioStep, "Designing your portfolio...")

	var modulesHTML strings.Builder
	for _, node := range completed {
		fmt.Fprintf(&modulesHTML, "<!-- MODULE: %s -->\n%s\n\n", node.Label, summaries[node.ID])
	}

	system, user := portfolioPrompt(profile, modulesHTML.String())
	raw, err := ps.aiClient.GenerateText(ctx, system, user)
	if err != nil {
		ps.emit(sse.EventPortfolioFailed, err.Error())
		return "", fmt.Errorf("portfolio assembly: %w", err)
	}
	finalHTML := StripCodeFence(raw)

	if _, err := ps.workspace.Commit(ctx, &finalHTML); err != nil {
		return "", err
	}
	ps.emit(sse.EventPortfolioCompleted, nil)
	ps.log.Info("Portfolio assembled", "roadmap_id", workspace.RoadmapID, "modules", len(completed))
	return finalHTML, nil
}

func (ps *portfolioService) generateModuleSummary(ctx context.Context, node types.Node) (string, error) {
	conversation := clampText(transcriptText(node.ChatHistory), summaryContextLimit)
	system, user := moduleSummaryPrompt(node.Label, conversation)
	raw, err := ps.aiClient.GenerateText(ctx, system, user)
	if err != nil {
		return "", err
	}
	return StripCodeFence(raw), nil
}

func (ps *portfolioService) pause(ctx context.Context) error {
	if ps.pacing <= 0 {
		return nil
	}
	timer := time.NewTimer(ps.pacing)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (ps *portfolioService) emit(event sse.Event, data any) {
	if ps.hub != nil {
		ps.hub.Broadcast(sse.ChannelPortfolio, event, data)
	}
}
