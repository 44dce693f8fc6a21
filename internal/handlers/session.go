package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/services"
)

// SessionHandler serves the roadmap-independent conversation mode. Each send
// opens a fresh mentor context over the stored transcript, so no explicit
// handle crosses the API here.
type SessionHandler struct {
	log        *logger.Logger
	sessionSvc services.SessionService
	tutorSvc   services.TutorService
	profileSvc services.ProfileService
}

func NewSessionHandler(
	log *logger.Logger,
	sessionSvc services.SessionService,
	tutorSvc services.TutorService,
	profileSvc services.ProfileService,
) *SessionHandler {
	return &SessionHandler{
		log:        log.With("handler", "SessionHandler"),
		sessionSvc: sessionSvc,
		tutorSvc:   tutorSvc,
		profileSvc: profileSvc,
	}
}

// GET /api/session
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.sessionSvc.Current(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"session": session})
}

type sessionSendRequest struct {
	Text string `json:"text" binding:"required"`
}

// POST /api/session/send
// Streams the mentor reply as SSE deltas and records the completed turn.
func (h *SessionHandler) Send(c *gin.Context) {
	var req sessionSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
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

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		RespondError(c, http.StatusInternalServerError, "streaming_unsupported", nil)
		return
	}
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	reply, err := h.tutorSvc.Send(ctx, handle, req.Text, func(delta string) {
		writeSSEEvent(c, flusher, "delta", delta)
	})
	if err != nil {
		h.log.Error("Session send failed", "error", err)
		writeSSEEvent(c, flusher, "error", err.Error())
		return
	}

	if _, err := h.sessionSvc.RecordTurn(ctx, handle.History()); err != nil {
		h.log.Error("Failed to record session turn", "error", err)
		writeSSEEvent(c, flusher, "error", err.Error())
		return
	}
	writeSSEEvent(c, flusher, "done", reply)
}

type sessionPageRequest struct {
	IncludeErrors *bool `json:"include_errors"`
}

// POST /api/session/page
// Generates the learning-log page from the session transcript. The optional
// include_errors flag is persisted before generation.
func (h *SessionHandler) GeneratePage(c *gin.Context) {
	var req sessionPageRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}
	ctx := c.Request.Context()

	if req.IncludeErrors != nil {
		if _, err := h.sessionSvc.SetIncludeErrors(ctx, *req.IncludeErrors); err != nil {
			respondServiceError(c, err)
			return
		}
	}
	html, err := h.sessionSvc.GeneratePage(ctx)
	if err != nil {
		h.log.Error("GeneratePage failed", "error", err)
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"html": html})
}
