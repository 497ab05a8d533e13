package handlers

import (
	"net/http"

	"github.com/devmatch-hq/devmatch/internal/membership"
	"github.com/devmatch-hq/devmatch/internal/middlewares"
	"github.com/devmatch-hq/devmatch/internal/models"
	"github.com/devmatch-hq/devmatch/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handlers) CreateHackathon(c *gin.Context) {
	var in services.HackathonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hackathon, err := h.hackathons.Create(c.Request.Context(), middlewares.CurrentUser(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Hackathon created successfully",
		"hackathon": hackathon,
	})
}

func (h *Handlers) GetHackathons(c *gin.Context) {
	filter := services.HackathonFilter{
		Status: models.HackathonStatus(c.Query("status")),
		Mode:   models.HackathonMode(c.Query("mode")),
		Tech:   c.Query("tech"),
	}
	hackathons, err := h.hackathons.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hackathons": hackathons})
}

// GetFeaturedHackathons returns hackathons curated onto the landing page.
func (h *Handlers) GetFeaturedHackathons(c *gin.Context) {
	hackathons, err := h.hackathons.List(c.Request.Context(), services.HackathonFilter{Featured: true})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hackathons": hackathons})
}

func (h *Handlers) GetOrganizedHackathons(c *gin.Context) {
	hackathons, err := h.hackathons.ListOrganized(c.Request.Context(), middlewares.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hackathons": hackathons})
}

func (h *Handlers) GetRegisteredHackathons(c *gin.Context) {
	hackathons, err := h.hackathons.ListRegistered(c.Request.Context(), middlewares.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hackathons": hackathons})
}

func (h *Handlers) GetHackathon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hackathon id"})
		return
	}

	hackathon, err := h.hackathons.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hackathon": hackathon})
}

func (h *Handlers) UpdateHackathon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hackathon id"})
		return
	}

	var patch services.HackathonPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hackathon, err := h.hackathons.Update(c.Request.Context(), id, middlewares.CurrentUser(c), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Hackathon updated successfully",
		"hackathon": hackathon,
	})
}

func (h *Handlers) DeleteHackathon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hackathon id"})
		return
	}

	if err := h.hackathons.Delete(c.Request.Context(), id, middlewares.CurrentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Hackathon deleted successfully"})
}

// RegisterForHackathon submits a pending registration, subject to the
// registration window and team size cap.
func (h *Handlers) RegisterForHackathon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hackathon id"})
		return
	}

	var payload membership.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hackathon, err := h.hackathons.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	req, err := h.engine.Submit(c.Request.Context(), membership.ForHackathon(hackathon),
		middlewares.CurrentUser(c), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Successfully registered for hackathon",
		"registration": req,
	})
}

func (h *Handlers) ListRegistrations(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hackathon id"})
		return
	}

	hackathon, err := h.hackathons.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	reqs, err := h.engine.ListRequests(c.Request.Context(), membership.ForHackathon(hackathon),
		middlewares.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": reqs})
}

// DecideRegistration approves or rejects a pending registration; approval
// adds the requester to the participant set with their team name.
func (h *Handlers) DecideRegistration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hackathon id"})
		return
	}
	registrationID, err := uuid.Parse(c.Param("registrationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration id"})
		return
	}

	var in struct {
		Status models.RequestStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hackathon, err := h.hackathons.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	req, err := h.engine.Decide(c.Request.Context(), membership.ForHackathon(hackathon),
		registrationID, middlewares.CurrentUser(c), in.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Registration " + string(req.Status),
		"registration": req,
	})
}
