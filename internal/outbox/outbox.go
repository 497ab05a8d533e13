package outbox

import (
	"encoding/json"
	"log"

	"github.com/devmatch-hq/devmatch/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AddEvent inserts one sync event into the outbox, inside the caller's
// transaction so the event commits with the entity change.
func AddEvent(tx *gorm.DB, entityType string, entityID uuid.UUID, op string, payload any) error {
	var data []byte
	if payload != nil {
		data, _ = json.Marshal(payload)
	}

	event := models.Outbox{
		EntityType: entityType,
		EntityID:   entityID,
		Op:         op,
		Payload:    datatypes.JSON(data),
	}

	if err := tx.Create(&event).Error; err != nil {
		log.Printf("Failed to create outbox event: %v", err)
		return err
	}
	return nil
}

// AddBatchEvents inserts events for many entities of one type. Used when a
// sweep touches many rows at once, e.g. hackathon status transitions.
func AddBatchEvents(tx *gorm.DB, entityType string, op string, ids []uuid.UUID) error {
	for _, id := range ids {
		event := models.Outbox{
			EntityType: entityType,
			EntityID:   id,
			Op:         op,
		}
		if err := tx.Create(&event).Error; err != nil {
			log.Printf("Failed to insert batch outbox for %s: %v", entityType, err)
			return err
		}
	}
	return nil
}
