package handlers

import (
	"net/http"

	"github.com/devmatch-hq/devmatch/internal/middlewares"
	"github.com/devmatch-hq/devmatch/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UpsertProfile creates the caller's profile, or updates it in place.
func (h *Handlers) UpsertProfile(c *gin.Context) {
	var in services.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.Upsert(c.Request.Context(), middlewares.CurrentUser(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *Handlers) GetMyProfile(c *gin.Context) {
	profile, err := h.profiles.GetByUser(c.Request.Context(), middlewares.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *Handlers) GetProfileByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	profile, err := h.profiles.GetByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
