package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/devmatch-hq/devmatch/internal/apperrors"
	"github.com/devmatch-hq/devmatch/internal/metrics"
	"github.com/devmatch-hq/devmatch/internal/models"
	"github.com/devmatch-hq/devmatch/internal/outbox"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type HackathonService struct {
	db *gorm.DB
}

func NewHackathonService(db *gorm.DB) *HackathonService {
	return &HackathonService{db: db}
}

type HackathonInput struct {
	Title                 string               `json:"title"`
	Description           string               `json:"description"`
	Mode                  models.HackathonMode `json:"mode"`
	Venue                 string               `json:"venue"`
	StartDate             time.Time            `json:"start_date"`
	EndDate               time.Time            `json:"end_date"`
	RegistrationStartDate time.Time            `json:"registration_start_date"`
	RegistrationEndDate   time.Time            `json:"registration_end_date"`
	MinTeamSize           int                  `json:"min_team_size"`
	MaxTeamSize           int                  `json:"max_team_size"`
	PrizePool             string               `json:"prize_pool"`
	TechStack             []string             `json:"tech_stack"`
	Featured              bool                 `json:"featured"`
}

func validateHackathon(in HackathonInput) error {
	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Description == "" {
		missing = append(missing, "description")
	}
	if in.Mode == "" {
		missing = append(missing, "mode")
	}
	if in.StartDate.IsZero() {
		missing = append(missing, "start_date")
	}
	if in.EndDate.IsZero() {
		missing = append(missing, "end_date")
	}
	if in.RegistrationStartDate.IsZero() {
		missing = append(missing, "registration_start_date")
	}
	if in.RegistrationEndDate.IsZero() {
		missing = append(missing, "registration_end_date")
	}
	if in.MaxTeamSize <= 0 {
		missing = append(missing, "max_team_size")
	}
	// Venue is required exactly when the event has a physical presence.
	if in.Mode != "" && in.Mode != models.ModeOnline && in.Venue == "" {
		missing = append(missing, "venue")
	}
	if len(missing) > 0 {
		return apperrors.Validation("missing required fields", missing...)
	}
	if !in.Mode.Valid() {
		return apperrors.Validation("mode must be online, offline or hybrid", "mode")
	}
	return nil
}

func (s *HackathonService) Create(ctx context.Context, organizerID uuid.UUID, in HackathonInput) (*models.Hackathon, error) {
	if err := validateHackathon(in); err != nil {
		return nil, err
	}
	if in.MinTeamSize <= 0 {
		in.MinTeamSize = 1
	}

	stack, _ := json.Marshal(in.TechStack)
	hackathon := &models.Hackathon{
		OrganizerID:           organizerID,
		Title:                 in.Title,
		Description:           in.Description,
		Mode:                  in.Mode,
		Venue:                 in.Venue,
		StartDate:             in.StartDate,
		EndDate:               in.EndDate,
		RegistrationStartDate: in.RegistrationStartDate,
		RegistrationEndDate:   in.RegistrationEndDate,
		MinTeamSize:           in.MinTeamSize,
		MaxTeamSize:           in.MaxTeamSize,
		PrizePool:             in.PrizePool,
		TechStack:             datatypes.JSON(stack),
		Status:                models.HackathonUpcoming,
		Featured:              in.Featured,
	}
	if in.Mode == models.ModeOnline {
		hackathon.Venue = ""
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(hackathon).Error; err != nil {
			return err
		}
		return outbox.AddEvent(tx, "hackathon", hackathon.ID, "UPSERT", nil)
	})
	if err != nil {
		return nil, err
	}
	return hackathon, nil
}

func (s *HackathonService) Get(ctx context.Context, id uuid.UUID) (*models.Hackathon, error) {
	var hackathon models.Hackathon
	err := s.db.WithContext(ctx).
		Preload("Organizer").
		Preload("Participants").
		Preload("Participants.User").
		First(&hackathon, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("hackathon not found")
	}
	if err != nil {
		return nil, err
	}
	return &hackathon, nil
}

type HackathonFilter struct {
	Status   models.HackathonStatus
	Mode     models.HackathonMode
	Tech     string
	Featured bool
}

func (s *HackathonService) List(ctx context.Context, f HackathonFilter) ([]models.Hackathon, error) {
	q := s.db.WithContext(ctx).Preload("Organizer").Order("start_date ASC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Mode != "" {
		q = q.Where("mode = ?", f.Mode)
	}
	if f.Featured {
		q = q.Where("featured = ?", true)
	}
	if f.Tech != "" {
		// Tags are stored as a JSON string array; match the quoted element.
		q = q.Where("tech_stack LIKE ?", `%"`+f.Tech+`"%`)
	}

	var hackathons []models.Hackathon
	if err := q.Find(&hackathons).Error; err != nil {
		return nil, err
	}
	return hackathons, nil
}

func (s *HackathonService) ListOrganized(ctx context.Context, organizerID uuid.UUID) ([]models.Hackathon, error) {
	var hackathons []models.Hackathon
	err := s.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("start_date ASC").
		Find(&hackathons).Error
	if err != nil {
		return nil, err
	}
	return hackathons, nil
}

// ListRegistered returns hackathons the user is a participant of. Pending
// and rejected registrations do not appear here.
func (s *HackathonService) ListRegistered(ctx context.Context, userID uuid.UUID) ([]models.Hackathon, error) {
	var hackathons []models.Hackathon
	err := s.db.WithContext(ctx).Preload("Organizer").
		Where("id IN (?)",
			s.db.Model(&models.HackathonParticipant{}).Select("hackathon_id").
				Where("user_id = ?", userID)).
		Order("start_date ASC").
		Find(&hackathons).Error
	if err != nil {
		return nil, err
	}
	return hackathons, nil
}

type HackathonPatch struct {
	Title                 *string               `json:"title"`
	Description           *string               `json:"description"`
	Mode                  *models.HackathonMode `json:"mode"`
	Venue                 *string               `json:"venue"`
	StartDate             *time.Time            `json:"start_date"`
	EndDate               *time.Time            `json:"end_date"`
	RegistrationStartDate *time.Time            `json:"registration_start_date"`
	RegistrationEndDate   *time.Time            `json:"registration_end_date"`
	MinTeamSize           *int                  `json:"min_team_size"`
	MaxTeamSize           *int                  `json:"max_team_size"`
	PrizePool             *string               `json:"prize_pool"`
	TechStack             []string              `json:"tech_stack"`
	Featured              *bool                 `json:"featured"`
}

func (s *HackathonService) Update(ctx context.Context, id, callerID uuid.UUID, patch HackathonPatch) (*models.Hackathon, error) {
	var hackathon models.Hackathon
	err := s.db.WithContext(ctx).First(&hackathon, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("hackathon not found")
	}
	if err != nil {
		return nil, err
	}
	if hackathon.OrganizerID != callerID {
		return nil, apperrors.Forbidden("not authorized to update this hackathon")
	}

	if patch.Title != nil {
		hackathon.Title = *patch.Title
	}
	if patch.Description != nil {
		hackathon.Description = *patch.Description
	}
	if patch.Mode != nil {
		if !patch.Mode.Valid() {
			return nil, apperrors.Validation("mode must be online, offline or hybrid", "mode")
		}
		hackathon.Mode = *patch.Mode
	}
	if patch.Venue != nil {
		hackathon.Venue = *patch.Venue
	}
	if patch.StartDate != nil {
		hackathon.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		hackathon.EndDate = *patch.EndDate
	}
	if patch.RegistrationStartDate != nil {
		hackathon.RegistrationStartDate = *patch.RegistrationStartDate
	}
	if patch.RegistrationEndDate != nil {
		hackathon.RegistrationEndDate = *patch.RegistrationEndDate
	}
	if patch.MinTeamSize != nil {
		hackathon.MinTeamSize = *patch.MinTeamSize
	}
	if patch.MaxTeamSize != nil {
		hackathon.MaxTeamSize = *patch.MaxTeamSize
	}
	if patch.PrizePool != nil {
		hackathon.PrizePool = *patch.PrizePool
	}
	if patch.TechStack != nil {
		stack, _ := json.Marshal(patch.TechStack)
		hackathon.TechStack = datatypes.JSON(stack)
	}
	if patch.Featured != nil {
		hackathon.Featured = *patch.Featured
	}

	if hackathon.Title == "" || hackathon.Description == "" {
		return nil, apperrors.Validation("title and description are required", "title", "description")
	}
	// The venue rule holds against the effective mode after the merge.
	if hackathon.Mode != models.ModeOnline && hackathon.Venue == "" {
		return nil, apperrors.Validation("venue is required for offline and hybrid hackathons", "venue")
	}
	if hackathon.Mode == models.ModeOnline {
		hackathon.Venue = ""
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&hackathon).Error; err != nil {
			return err
		}
		return outbox.AddEvent(tx, "hackathon", hackathon.ID, "UPSERT", nil)
	})
	if err != nil {
		return nil, err
	}
	return &hackathon, nil
}

// Delete removes a hackathon with its participants and registrations.
func (s *HackathonService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	var hackathon models.Hackathon
	err := s.db.WithContext(ctx).First(&hackathon, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("hackathon not found")
	}
	if err != nil {
		return err
	}
	if hackathon.OrganizerID != callerID {
		return apperrors.Forbidden("not authorized to delete this hackathon")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hackathon_id = ?", id).Delete(&models.HackathonParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("kind = ? AND entity_id = ?", models.KindHackathon, id).
			Delete(&models.MembershipRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&hackathon).Error; err != nil {
			return err
		}
		return outbox.AddEvent(tx, "hackathon", id, "DELETE", nil)
	})
}

// RecomputeStatuses advances hackathon statuses by wall clock: upcoming
// becomes ongoing once started, ongoing becomes completed once ended. Both
// updates are conditional, so running it again without entity changes is a
// no-op. Transitioned hackathons are queued for reindexing.
func (s *HackathonService) RecomputeStatuses(ctx context.Context, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.transition(tx, models.HackathonOngoing,
			"status = ? AND start_date <= ? AND end_date > ?",
			models.HackathonUpcoming, now, now); err != nil {
			return err
		}
		return s.transition(tx, models.HackathonCompleted,
			"status = ? AND end_date <= ?", models.HackathonOngoing, now)
	})
}

func (s *HackathonService) transition(tx *gorm.DB, to models.HackathonStatus, cond string, args ...any) error {
	var ids []uuid.UUID
	if err := tx.Model(&models.Hackathon{}).Where(cond, args...).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Model(&models.Hackathon{}).Where("id IN ?", ids).
		Update("status", to).Error; err != nil {
		return err
	}
	if err := outbox.AddBatchEvents(tx, "hackathon", "UPSERT", ids); err != nil {
		return err
	}
	metrics.StatusTransitions.WithLabelValues(string(to)).Add(float64(len(ids)))
	return nil
}
