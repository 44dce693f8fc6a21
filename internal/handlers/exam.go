package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/services"
)

type ExamHandler struct {
	log          *logger.Logger
	examSvc      services.ExamService
	profileSvc   services.ProfileService
	workspaceSvc services.WorkspaceService
}

func NewExamHandler(
	log *logger.Logger,
	examSvc services.ExamService,
	profileSvc services.ProfileService,
	workspaceSvc services.WorkspaceService,
) *ExamHandler {
	return &ExamHandler{
		log:          log.With("handler", "ExamHandler"),
		examSvc:      examSvc,
		profileSvc:   profileSvc,
		workspaceSvc: workspaceSvc,
	}
}

type startExamRequest struct {
	NodeID string `json:"node_id" binding:"required"`
}

// POST /api/exam/start
// One question per node attempt. The question is ephemeral: the client holds
// it and submits it back with the answer.
func (h *ExamHandler) StartExam(c *gin.Context) {
	var req startExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ctx := c.Request.Context()

	workspace, err := h.workspaceSvc.Current()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	node, err := workspace.Graph.GetNode(req.NodeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	profile, err := h.profileSvc.Get(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	question, err := h.examSvc.StartExam(ctx, node.Label, profile)
	if err != nil {
		h.log.Error("StartExam failed", "error", err, "node_id", req.NodeID)
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"node_id": node.ID, "topic": node.Label, "exam": question})
}

type submitExamRequest struct {
	NodeID   string `json:"node_id" binding:"required"`
	Topic    string `json:"topic" binding:"required"`
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// POST /api/exam/submit
// A passing verdict completes the node, which unlocks its direct successors.
func (h *ExamHandler) SubmitExam(c *gin.Context) {
	var req submitExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := h.examSvc.Submit(c.Request.Context(), req.NodeID, req.Topic, req.Question, req.Answer)
	if err != nil {
		h.log.Error("SubmitExam failed", "error", err, "node_id", req.NodeID)
		respondServiceError(c, err)
		return
	}

	workspace, err := h.workspaceSvc.Current()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"result": result, "workspace": workspace})
}
