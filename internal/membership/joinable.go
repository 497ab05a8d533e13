package membership

import (
	"time"

	"github.com/devmatch-hq/devmatch/internal/apperrors"
	"github.com/devmatch-hq/devmatch/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Payload carries the free-form part of a membership request. Projects use
// Message; hackathon registrations also carry team details.
type Payload struct {
	Message     string `json:"message"`
	TeamName    string `json:"team_name"`
	TeamSize    int    `json:"team_size"`
	ProjectIdea string `json:"project_idea"`
}

// Joinable abstracts an entity users can request to join. Projects and
// hackathons differ only in admission policy (registration window, team
// size cap) and in how an accepted member is recorded.
type Joinable interface {
	Kind() models.MembershipKind
	ParentID() uuid.UUID
	OwnerID() uuid.UUID

	// Admit checks entity-specific submission constraints.
	Admit(now time.Time, p Payload) error
	// Grant records the accepted membership inside tx.
	Grant(tx *gorm.DB, req *models.MembershipRequest) error
	// IsMember reports whether the user already belongs to the entity.
	IsMember(tx *gorm.DB, userID uuid.UUID) (bool, error)
}

// ForProject adapts a project to the engine. Projects have no admission
// window and no capacity cap.
func ForProject(p *models.Project) Joinable { return projectJoinable{p} }

// ForHackathon adapts a hackathon to the engine.
func ForHackathon(h *models.Hackathon) Joinable { return hackathonJoinable{h} }

type projectJoinable struct {
	p *models.Project
}

func (j projectJoinable) Kind() models.MembershipKind { return models.KindProject }
func (j projectJoinable) ParentID() uuid.UUID         { return j.p.ID }
func (j projectJoinable) OwnerID() uuid.UUID          { return j.p.OwnerID }

func (j projectJoinable) Admit(now time.Time, p Payload) error { return nil }

func (j projectJoinable) Grant(tx *gorm.DB, req *models.MembershipRequest) error {
	member := models.ProjectMember{
		ProjectID: j.p.ID,
		UserID:    req.UserID,
		JoinedAt:  time.Now(),
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
}

func (j projectJoinable) IsMember(tx *gorm.DB, userID uuid.UUID) (bool, error) {
	var n int64
	err := tx.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", j.p.ID, userID).
		Count(&n).Error
	return n > 0, err
}

type hackathonJoinable struct {
	h *models.Hackathon
}

func (j hackathonJoinable) Kind() models.MembershipKind { return models.KindHackathon }
func (j hackathonJoinable) ParentID() uuid.UUID         { return j.h.ID }
func (j hackathonJoinable) OwnerID() uuid.UUID          { return j.h.OrganizerID }

// Admit enforces the registration window, inclusive at both instants, and
// the team size cap.
func (j hackathonJoinable) Admit(now time.Time, p Payload) error {
	if now.Before(j.h.RegistrationStartDate) || now.After(j.h.RegistrationEndDate) {
		return apperrors.Conflict("registration is not open")
	}
	if p.TeamSize > 0 && j.h.MaxTeamSize > 0 && p.TeamSize > j.h.MaxTeamSize {
		return apperrors.Conflict("team size exceeds the maximum for this hackathon")
	}
	return nil
}

func (j hackathonJoinable) Grant(tx *gorm.DB, req *models.MembershipRequest) error {
	participant := models.HackathonParticipant{
		HackathonID:  j.h.ID,
		UserID:       req.UserID,
		TeamName:     req.TeamName,
		RegisteredAt: time.Now(),
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&participant).Error
}

func (j hackathonJoinable) IsMember(tx *gorm.DB, userID uuid.UUID) (bool, error) {
	var n int64
	err := tx.Model(&models.HackathonParticipant{}).
		Where("hackathon_id = ? AND user_id = ?", j.h.ID, userID).
		Count(&n).Error
	return n > 0, err
}
