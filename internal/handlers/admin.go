package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/devmatch-hq/devmatch/internal/models"
	"github.com/devmatch-hq/devmatch/internal/workers"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListOutbox exposes recent sync events for operational inspection.
func (h *Handlers) ListOutbox(c *gin.Context) {
	var outboxes []models.Outbox
	if err := h.db.Order("id desc").Limit(100).Find(&outboxes).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outbox": outboxes})
}

func (h *Handlers) ListDLQ(c *gin.Context) {
	var dlq []models.DLQ
	if err := h.db.Order("id desc").Limit(100).Find(&dlq).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dlq": dlq})
}

// RetryDLQEntry replays one dead-lettered sync event immediately.
func (h *Handlers) RetryDLQEntry(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dlq id"})
		return
	}

	var d models.DLQ
	if err := h.db.First(&d, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "dlq entry not found"})
		return
	}

	ob := models.Outbox{
		ID:         d.OutboxID,
		EntityType: d.EntityType,
		Op:         d.Op,
	}
	if eid, err := uuid.Parse(d.EntityID); err == nil {
		ob.EntityID = eid
	}

	bi, _ := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client: h.es, Index: "", FlushBytes: 5 << 20, NumWorkers: 2,
	})
	if err := h.Sync.Replay(c.Request.Context(), bi, ob); err != nil {
		workers.PutDLQ(h.db, ob, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "retry failed: " + err.Error()})
		return
	}

	now := time.Now()
	h.db.Model(&models.DLQ{}).Where("id = ?", id).
		Updates(map[string]any{"resolved": true, "retried_at": &now})
	c.JSON(http.StatusOK, gin.H{"status": "retried"})
}
