package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devlogai/devlog-backend/internal/repos"
	"github.com/devlogai/devlog-backend/internal/services"
	"github.com/devlogai/devlog-backend/internal/types"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondServiceError maps the service sentinels onto HTTP statuses so every
// handler reports them uniformly.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repos.ErrRoadmapNotFound):
		RespondError(c, http.StatusNotFound, "roadmap_not_found", err)
	case errors.Is(err, types.ErrNodeNotFound):
		RespondError(c, http.StatusNotFound, "node_not_found", err)
	case errors.Is(err, types.ErrBackwardTransition):
		RespondError(c, http.StatusConflict, "backward_transition", err)
	case errors.Is(err, services.ErrNoWorkspace):
		RespondError(c, http.StatusConflict, "no_workspace", err)
	case errors.Is(err, services.ErrNoProfile):
		RespondError(c, http.StatusConflict, "no_profile", err)
	case errors.Is(err, services.ErrNoCompletedNodes):
		RespondError(c, http.StatusConflict, "no_completed_nodes", err)
	case errors.Is(err, services.ErrChatNotStarted):
		RespondError(c, http.StatusConflict, "chat_not_started", err)
	case errors.Is(err, services.ErrStaleChatContext):
		RespondError(c, http.StatusConflict, "stale_chat_context", err)
	case errors.Is(err, services.ErrBadModelJSON):
		RespondError(c, http.StatusBadGateway, "bad_model_output", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
