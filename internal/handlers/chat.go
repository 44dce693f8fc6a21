package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/services"
)

// ChatHandler exposes the tutoring chat. The live chat context maps to a
// sink: a roadmap node's history, or the legacy session when started as the
// general mentor. Completed turns are written back to that sink.
type ChatHandler struct {
	log          *logger.Logger
	tutorSvc     services.TutorService
	profileSvc   services.ProfileService
	workspaceSvc services.WorkspaceService
	sessionSvc   services.SessionService

	mu      sync.Mutex
	current *services.ChatContext
	nodeID  string // empty when the sink is the session
}

func NewChatHandler(
	log *logger.Logger,
	tutorSvc services.TutorService,
	profileSvc services.ProfileService,
	workspaceSvc services.WorkspaceService,
	sessionSvc services.SessionService,
) *ChatHandler {
	return &ChatHandler{
		log:          log.With("handler", "ChatHandler"),
		tutorSvc:     tutorSvc,
		profileSvc:   profileSvc,
		workspaceSvc: workspaceSvc,
		sessionSvc:   sessionSvc,
	}
}

type startTopicChatRequest struct {
	NodeID string `json:"node_id" binding:"required"`
}

// POST /api/chat/topic/start
// Opens a tutoring context over a roadmap node, seeded with its stored chat.
func (h *ChatHandler) StartTopicChat(c *gin.Context) {
	var req startTopicChatRequest
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

	handle, err := h.tutorSvc.StartTopicChat(node.ChatHistory, node.Label, profile)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.mu.Lock()
	h.current = handle
	h.nodeID = node.ID
	h.mu.Unlock()

	RespondOK(c, gin.H{
		"context_id": handle.ID,
		"topic":      handle.Topic,
		"history":    handle.History(),
	})
}

// POST /api/chat/mentor/start
// Opens the general mentor context over the legacy session transcript.
func (h *ChatHandler) StartMentorChat(c *gin.Context) {
	ctx := c.Request.Context()

	session, err := h.sessionSvc.Ensure(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	history, err := session.History()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	profile, err := h.profileSvc.Get(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	handle, err := h.tutorSvc.StartMentorChat(history, profile)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.mu.Lock()
	h.current = handle
	h.nodeID = ""
	h.mu.Unlock()

	RespondOK(c, gin.H{
		"context_id": handle.ID,
		"history":    handle.History(),
	})
}

type sendChatRequest struct {
	ContextID string `json:"context_id" binding:"required"`
	Text      string `json:"text" binding:"required"`
}

// POST /api/chat/send
// Streams the model reply as SSE delta events, then persists the turn to the
// context's sink.
func (h *ChatHandler) Send(c *gin.Context) {
	var req sendChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	contextID, err := uuid.Parse(req.ContextID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_context_id", err)
		return
	}

	h.mu.Lock()
	handle := h.current
	nodeID := h.nodeID
	h.mu.Unlock()

	if handle == nil {
		respondServiceError(c, services.ErrChatNotStarted)
		return
	}
	if handle.ID != contextID {
		respondServiceError(c, services.ErrStaleChatContext)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		RespondError(c, http.StatusInternalServerError, "streaming_unsupported", nil)
		return
	}
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	ctx := c.Request.Context()
	reply, err := h.tutorSvc.Send(ctx, handle, req.Text, func(delta string) {
		writeSSEEvent(c, flusher, "delta", delta)
	})
	if err != nil {
		h.log.Error("Chat send failed", "error", err, "context_id", contextID)
		writeSSEEvent(c, flusher, "error", err.Error())
		return
	}

	if err := h.persistTurn(c, handle, nodeID); err != nil {
		h.log.Error("Failed to persist chat turn", "error", err, "node_id", nodeID)
		writeSSEEvent(c, flusher, "error", err.Error())
		return
	}
	writeSSEEvent(c, flusher, "done", reply)
}

func (h *ChatHandler) persistTurn(c *gin.Context, handle *services.ChatContext, nodeID string) error {
	if nodeID != "" {
		return h.workspaceSvc.SetNodeChat(nodeID, handle.History())
	}
	_, err := h.sessionSvc.RecordTurn(c.Request.Context(), handle.History())
	return err
}

func writeSSEEvent(c *gin.Context, flusher http.Flusher, event, data string) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, payload)
	flusher.Flush()
}
