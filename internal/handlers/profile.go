package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/services"
	"github.com/devlogai/devlog-backend/internal/types"
)

type ProfileHandler struct {
	log        *logger.Logger
	profileSvc services.ProfileService
}

func NewProfileHandler(log *logger.Logger, profileSvc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		log:        log.With("handler", "ProfileHandler"),
		profileSvc: profileSvc,
	}
}

// GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileSvc.Get(c.Request.Context())
	if err != nil {
		h.log.Error("GetProfile failed", "error", err)
		respondServiceError(c, err)
		return
	}
	if profile == nil {
		RespondError(c, http.StatusNotFound, "no_profile", services.ErrNoProfile)
		return
	}
	RespondOK(c, gin.H{"profile": profile})
}

type setProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Role  string `json:"role" binding:"required"`
	Level string `json:"level" binding:"required"`
	Goal  string `json:"goal" binding:"required"`
}

// PUT /api/profile
// Onboarding. Re-onboarding overwrites the single profile row.
func (h *ProfileHandler) SetProfile(c *gin.Context) {
	var req setProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	saved, err := h.profileSvc.Set(c.Request.Context(), &types.UserProfile{
		Name:  req.Name,
		Role:  types.UserRole(req.Role),
		Level: types.ExperienceLevel(req.Level),
		Goal:  req.Goal,
	})
	if err != nil {
		h.log.Error("SetProfile failed", "error", err)
		RespondError(c, http.StatusBadRequest, "invalid_profile", err)
		return
	}
	RespondOK(c, gin.H{"profile": saved})
}
