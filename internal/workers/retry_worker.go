package workers

import (
	"context"
	"log"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/devmatch-hq/devmatch/internal/metrics"
	"github.com/devmatch-hq/devmatch/internal/models"
	"github.com/google/uuid"
)

// RetryDLQ periodically replays unresolved DLQ entries.
func (w *SyncWorker) RetryDLQ(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var dlqs []models.DLQ
			if err := w.DB.Where("resolved = false").Limit(50).Find(&dlqs).Error; err != nil {
				log.Printf("DLQ fetch error: %v", err)
				continue
			}
			for _, d := range dlqs {
				log.Printf("Retrying DLQ id=%d entity=%s op=%s", d.ID, d.EntityType, d.Op)
				entityID, err := uuid.Parse(d.EntityID)
				if err != nil {
					log.Printf("DLQ id=%d has invalid entity id %q", d.ID, d.EntityID)
					continue
				}
				ob := models.Outbox{
					ID:         d.OutboxID,
					EntityType: d.EntityType,
					EntityID:   entityID,
					Op:         d.Op,
				}
				bi, _ := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
					Client: w.ES, Index: "", FlushBytes: 5 << 20, NumWorkers: 2,
				})
				if err := w.Replay(ctx, bi, ob); err == nil {
					now := time.Now()
					w.DB.Model(&models.DLQ{}).Where("id = ?", d.ID).Updates(map[string]any{
						"resolved":   true,
						"retried_at": &now,
					})
					metrics.ProcessedEvents.Inc()
					log.Printf("DLQ id=%d resolved", d.ID)
				}
			}
		}
	}
}
