package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/services"
)

type PortfolioHandler struct {
	log          *logger.Logger
	portfolioSvc services.PortfolioService
	workspaceSvc services.WorkspaceService
	roadmapSvc   services.RoadmapService
}

func NewPortfolioHandler(
	log *logger.Logger,
	portfolioSvc services.PortfolioService,
	workspaceSvc services.WorkspaceService,
	roadmapSvc services.RoadmapService,
) *PortfolioHandler {
	return &PortfolioHandler{
		log:          log.With("handler", "PortfolioHandler"),
		portfolioSvc: portfolioSvc,
		workspaceSvc: workspaceSvc,
		roadmapSvc:   roadmapSvc,
	}
}

// POST /api/portfolio/generate
// Runs the assembly pipeline; per-module progress goes out over the SSE hub
// while the request is in flight. Closing the request cancels the pipeline.
func (h *PortfolioHandler) GeneratePortfolio(c *gin.Context) {
	html, err := h.portfolioSvc.Assemble(c.Request.Context())
	if err != nil {
		h.log.Error("GeneratePortfolio failed", "error", err)
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"html": html})
}

// GET /api/portfolio
// Returns the last committed document for the checked-out roadmap.
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	workspace, err := h.workspaceSvc.Current()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	roadmap, err := h.roadmapSvc.Get(c.Request.Context(), workspace.RoadmapID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if roadmap.ProjectHTML == "" {
		RespondError(c, http.StatusNotFound, "no_portfolio", errors.New("no portfolio generated yet"))
		return
	}
	RespondOK(c, gin.H{"html": roadmap.ProjectHTML})
}
