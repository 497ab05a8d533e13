package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/devmatch-hq/devmatch/internal/apperrors"
	"github.com/devmatch-hq/devmatch/internal/models"
	"github.com/devmatch-hq/devmatch/internal/outbox"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

type ProfileInput struct {
	Bio                 string          `json:"bio"`
	GithubID            string          `json:"github_id"`
	TechnicalBackground string          `json:"technical_background"`
	Skills              []string        `json:"skills"`
	Education           json.RawMessage `json:"education,omitempty"`
	Experience          json.RawMessage `json:"experience,omitempty"`
	Achievements        json.RawMessage `json:"achievements,omitempty"`
}

// Upsert creates the user's profile on first submission and updates it in
// place afterwards. First creation flips the user's has_profile flag.
func (s *ProfileService) Upsert(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.Profile, error) {
	var missing []string
	if in.Bio == "" {
		missing = append(missing, "bio")
	}
	if in.GithubID == "" {
		missing = append(missing, "github_id")
	}
	if in.TechnicalBackground == "" {
		missing = append(missing, "technical_background")
	}
	if len(in.Skills) == 0 {
		missing = append(missing, "skills")
	}
	if len(missing) > 0 {
		return nil, apperrors.Validation("missing required fields", missing...)
	}

	skills, _ := json.Marshal(in.Skills)

	var profile models.Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&profile, "user_id = ?", userID).Error
		created := errors.Is(err, gorm.ErrRecordNotFound)
		if err != nil && !created {
			return err
		}

		profile.UserID = userID
		profile.Bio = in.Bio
		profile.GithubID = in.GithubID
		profile.TechnicalBackground = in.TechnicalBackground
		profile.Skills = datatypes.JSON(skills)
		if in.Education != nil {
			profile.Education = datatypes.JSON(in.Education)
		}
		if in.Experience != nil {
			profile.Experience = datatypes.JSON(in.Experience)
		}
		if in.Achievements != nil {
			profile.Achievements = datatypes.JSON(in.Achievements)
		}

		if err := tx.Save(&profile).Error; err != nil {
			return err
		}
		if created {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				Update("has_profile", true).Error; err != nil {
				return err
			}
		}
		// Skills live on the profile but are indexed on the user document.
		return outbox.AddEvent(tx, "user", userID, "UPSERT", nil)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileService) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("profile not found")
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
