package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/services"
	"github.com/devlogai/devlog-backend/internal/types"
)

type WorkspaceHandler struct {
	log          *logger.Logger
	workspaceSvc services.WorkspaceService
}

func NewWorkspaceHandler(log *logger.Logger, workspaceSvc services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{
		log:          log.With("handler", "WorkspaceHandler"),
		workspaceSvc: workspaceSvc,
	}
}

// POST /api/roadmaps/:id/checkout
func (h *WorkspaceHandler) Checkout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	workspace, err := h.workspaceSvc.Checkout(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Checkout failed", "error", err, "roadmap_id", id)
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"workspace": workspace})
}

// GET /api/workspace
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	workspace, err := h.workspaceSvc.Current()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"workspace": workspace})
}

type commitRequest struct {
	ProjectHTML *string `json:"project_html"`
}

// POST /api/workspace/commit
func (h *WorkspaceHandler) Commit(c *gin.Context) {
	var req commitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}
	roadmap, err := h.workspaceSvc.Commit(c.Request.Context(), req.ProjectHTML)
	if err != nil {
		h.log.Error("Commit failed", "error", err)
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"roadmap": roadmap})
}

// POST /api/workspace/discard
func (h *WorkspaceHandler) Discard(c *gin.Context) {
	h.workspaceSvc.Discard()
	RespondOK(c, gin.H{"discarded": true})
}

type nodeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// POST /api/workspace/nodes/:nodeId/status
func (h *WorkspaceHandler) SetNodeStatus(c *gin.Context) {
	var req nodeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	status, err := types.ParseNodeStatus(req.Status)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_status", err)
		return
	}
	if err := h.workspaceSvc.SetNodeStatus(c.Param("nodeId"), status); err != nil {
		respondServiceError(c, err)
		return
	}
	workspace, err := h.workspaceSvc.Current()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"workspace": workspace})
}

type nodeChatRequest struct {
	Messages []types.Message `json:"messages" binding:"required"`
}

// POST /api/workspace/nodes/:nodeId/chat
func (h *WorkspaceHandler) SetNodeChat(c *gin.Context) {
	var req nodeChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.workspaceSvc.SetNodeChat(c.Param("nodeId"), req.Messages); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"updated": c.Param("nodeId")})
}

type nodeSummaryRequest struct {
	HTML string `json:"html" binding:"required"`
}

// POST /api/workspace/nodes/:nodeId/summary
func (h *WorkspaceHandler) SetNodeSummary(c *gin.Context) {
	var req nodeSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.workspaceSvc.SetNodeSummary(c.Param("nodeId"), req.HTML); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"updated": c.Param("nodeId")})
}
