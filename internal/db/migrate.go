package db

import (
	"log"

	"github.com/devmatch-hq/devmatch/internal/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Hackathon{},
		&models.HackathonParticipant{},
		&models.MembershipRequest{},
		&models.Outbox{},
		&models.DLQ{},
	)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// Partial unique index: at most one pending request per (user, entity).
	// Concurrent submits race on the read-side check; this makes the loser
	// fail at insert time.
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`
			CREATE UNIQUE INDEX IF NOT EXISTS idx_pending_request
			ON membership_requests (kind, entity_id, user_id)
			WHERE status = 'pending'`).Error; err != nil {
			log.Fatalf("pending-request index failed: %v", err)
		}
	}

	log.Println("database migrated successfully")
}
