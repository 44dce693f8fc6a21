package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/services"
	"github.com/devlogai/devlog-backend/internal/sse"
	"github.com/devlogai/devlog-backend/internal/types"
)

type RoadmapHandler struct {
	log          *logger.Logger
	roadmapSvc   services.RoadmapService
	profileSvc   services.ProfileService
	workspaceSvc services.WorkspaceService
	hub          *sse.Hub
}

func NewRoadmapHandler(
	log *logger.Logger,
	roadmapSvc services.RoadmapService,
	profileSvc services.ProfileService,
	workspaceSvc services.WorkspaceService,
	hub *sse.Hub,
) *RoadmapHandler {
	return &RoadmapHandler{
		log:          log.With("handler", "RoadmapHandler"),
		roadmapSvc:   roadmapSvc,
		profileSvc:   profileSvc,
		workspaceSvc: workspaceSvc,
		hub:          hub,
	}
}

// GET /api/roadmaps
func (h *RoadmapHandler) ListRoadmaps(c *gin.Context) {
	roadmaps, err := h.roadmapSvc.List(c.Request.Context())
	if err != nil {
		h.log.Error("ListRoadmaps failed", "error", err)
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"roadmaps": roadmaps})
}

// POST /api/roadmaps/generate
// Generates a personalized roadmap from the stored profile, persists it and
// checks it out.
func (h *RoadmapHandler) GenerateRoadmap(c *gin.Context) {
	ctx := c.Request.Context()

	profile, err := h.profileSvc.Get(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	graph, err := h.roadmapSvc.Generate(ctx, profile)
	if err != nil {
		h.log.Error("GenerateRoadmap failed", "error", err)
		respondServiceError(c, err)
		return
	}

	title := fmt.Sprintf("Roadmap: %s", profile.Goal)
	description := fmt.Sprintf("Personalized path for a %s %s developer", profile.Level, profile.Role)
	roadmap, err := h.roadmapSvc.Create(ctx, title, description, graph, types.OriginAI)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if _, err := h.workspaceSvc.CheckoutRoadmap(roadmap); err != nil {
		respondServiceError(c, err)
		return
	}
	h.hub.Broadcast(sse.ChannelPortfolio, sse.EventRoadmapSaved, roadmap.ID)
	RespondOK(c, gin.H{"roadmap": roadmap})
}

type templateRoadmapRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
}

// POST /api/roadmaps/template
func (h *RoadmapHandler) CreateFromTemplate(c *gin.Context) {
	var req templateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	tpl, graph, err := h.roadmapSvc.FromTemplate(req.TemplateID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "unknown_template", err)
		return
	}
	roadmap, err := h.roadmapSvc.Create(c.Request.Context(), tpl.Title, tpl.Description, graph, types.OriginTemplate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if _, err := h.workspaceSvc.CheckoutRoadmap(roadmap); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"roadmap": roadmap})
}

// DELETE /api/roadmaps/:id
// Deleting the checked-out roadmap also drops the workspace.
func (h *RoadmapHandler) DeleteRoadmap(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.roadmapSvc.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	h.workspaceSvc.DiscardIf(id)
	RespondOK(c, gin.H{"deleted": id})
}
