package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/devmatch-hq/devmatch/internal/apperrors"
	"github.com/devmatch-hq/devmatch/internal/models"
	"github.com/devmatch-hq/devmatch/internal/outbox"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type ProjectInput struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	TechStack   []string             `json:"tech_stack"`
	Status      models.ProjectStatus `json:"status"`
	GithubLink  string               `json:"github_link"`
	DemoLink    string               `json:"demo_link"`
	StartDate   time.Time            `json:"start_date"`
	EndDate     *time.Time           `json:"end_date"`
}

// Create validates the input and creates the project with the owner seeded
// into the member set.
func (s *ProjectService) Create(ctx context.Context, ownerID uuid.UUID, in ProjectInput) (*models.Project, error) {
	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Description == "" {
		missing = append(missing, "description")
	}
	if len(in.TechStack) == 0 {
		missing = append(missing, "tech_stack")
	}
	if in.StartDate.IsZero() {
		missing = append(missing, "start_date")
	}
	if len(missing) > 0 {
		return nil, apperrors.Validation("missing required fields", missing...)
	}
	if in.Status == "" {
		in.Status = models.ProjectPlanning
	}
	if !in.Status.Valid() {
		return nil, apperrors.Validation("invalid project status", "status")
	}

	stack, _ := json.Marshal(in.TechStack)
	project := &models.Project{
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		TechStack:   datatypes.JSON(stack),
		Status:      in.Status,
		GithubLink:  in.GithubLink,
		DemoLink:    in.DemoLink,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		member := models.ProjectMember{ProjectID: project.ID, UserID: ownerID, JoinedAt: time.Now()}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return outbox.AddEvent(tx, "project", project.ID, "UPSERT", nil)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members").
		Preload("Members.User").
		First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("project not found")
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

type ProjectFilter struct {
	Status models.ProjectStatus
	Tech   string
}

func (s *ProjectService) List(ctx context.Context, f ProjectFilter) ([]models.Project, error) {
	q := s.db.WithContext(ctx).Preload("Owner").Order("created_at DESC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Tech != "" {
		// Tags are stored as a JSON string array; match the quoted element.
		q = q.Where("tech_stack LIKE ?", `%"`+f.Tech+`"%`)
	}

	var projects []models.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListMine returns projects the user owns or has joined.
func (s *ProjectService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.WithContext(ctx).Preload("Owner").
		Where("owner_id = ? OR id IN (?)", userID,
			s.db.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

type ProjectPatch struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	TechStack   []string              `json:"tech_stack"`
	Status      *models.ProjectStatus `json:"status"`
	GithubLink  *string               `json:"github_link"`
	DemoLink    *string               `json:"demo_link"`
	StartDate   *time.Time            `json:"start_date"`
	EndDate     *time.Time            `json:"end_date"`
}

func (s *ProjectService) Update(ctx context.Context, id, callerID uuid.UUID, patch ProjectPatch) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("project not found")
	}
	if err != nil {
		return nil, err
	}
	if project.OwnerID != callerID {
		return nil, apperrors.Forbidden("not authorized to update this project")
	}

	if patch.Title != nil {
		project.Title = *patch.Title
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.TechStack != nil {
		stack, _ := json.Marshal(patch.TechStack)
		project.TechStack = datatypes.JSON(stack)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, apperrors.Validation("invalid project status", "status")
		}
		project.Status = *patch.Status
	}
	if patch.GithubLink != nil {
		project.GithubLink = *patch.GithubLink
	}
	if patch.DemoLink != nil {
		project.DemoLink = *patch.DemoLink
	}
	if patch.StartDate != nil {
		project.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		project.EndDate = patch.EndDate
	}
	if project.Title == "" || project.Description == "" {
		return nil, apperrors.Validation("title and description are required", "title", "description")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&project).Error; err != nil {
			return err
		}
		return outbox.AddEvent(tx, "project", project.ID, "UPSERT", nil)
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes a project with its members and collaboration requests.
func (s *ProjectService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	var project models.Project
	err := s.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("project not found")
	}
	if err != nil {
		return err
	}
	if project.OwnerID != callerID {
		return apperrors.Forbidden("not authorized to delete this project")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("kind = ? AND entity_id = ?", models.KindProject, id).
			Delete(&models.MembershipRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&project).Error; err != nil {
			return err
		}
		return outbox.AddEvent(tx, "project", id, "DELETE", nil)
	})
}
