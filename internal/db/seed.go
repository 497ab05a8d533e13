package db

import (
	"encoding/json"
	"log"
	"time"

	"github.com/devmatch-hq/devmatch/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seed inserts a demo user, project and hackathon into an empty database.
func Seed(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Data already exists, skipping seed.")
		return
	}

	db.Transaction(func(tx *gorm.DB) error {
		hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := models.User{
			Name:         "Demo User",
			Username:     "demo",
			Email:        "demo@example.com",
			PasswordHash: string(hash),
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		stack, _ := json.Marshal([]string{"Go", "React"})
		project := models.Project{
			OwnerID:     user.ID,
			Title:       "Voice for All",
			Description: "Assistive speech tooling",
			TechStack:   datatypes.JSON(stack),
			Status:      models.ProjectPlanning,
			StartDate:   time.Now(),
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		member := models.ProjectMember{ProjectID: project.ID, UserID: user.ID, JoinedAt: time.Now()}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		tracks, _ := json.Marshal([]string{"AI", "Web"})
		hackathon := models.Hackathon{
			OrganizerID:           user.ID,
			Title:                 "DevFest",
			Description:           "48 hour build sprint",
			Mode:                  models.ModeOffline,
			Venue:                 "Bengaluru",
			StartDate:             time.Now().Add(7 * 24 * time.Hour),
			EndDate:               time.Now().Add(9 * 24 * time.Hour),
			RegistrationStartDate: time.Now(),
			RegistrationEndDate:   time.Now().Add(6 * 24 * time.Hour),
			MinTeamSize:           1,
			MaxTeamSize:           4,
			PrizePool:             "$5000",
			TechStack:             datatypes.JSON(tracks),
		}
		if err := tx.Create(&hackathon).Error; err != nil {
			return err
		}

		log.Println("Sample data inserted successfully.")
		return nil
	})
}
