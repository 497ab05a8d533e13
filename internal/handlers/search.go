package handlers

import (
	"net/http"

	"github.com/devmatch-hq/devmatch/internal/elastic"
	"github.com/gin-gonic/gin"
)

// Search queries the search indexes for users, projects or hackathons.
func (h *Handlers) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	hits, err := elastic.Search(c.Request.Context(), h.es, c.Query("kind"), query, 20)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hits": hits})
}
