package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ---------------- USERS ----------------

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	HasProfile   bool      `gorm:"default:false" json:"has_profile"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Projects []Project `gorm:"foreignKey:OwnerID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ---------------- PROFILES ----------------

// Profile is 1:1 with User, created on first submission and updated in
// place afterwards.
type Profile struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Bio                 string         `gorm:"not null" json:"bio"`
	GithubID            string         `gorm:"not null" json:"github_id"`
	TechnicalBackground string         `gorm:"not null" json:"technical_background"`
	Skills              datatypes.JSON `json:"skills"` // []string
	Education           datatypes.JSON `json:"education,omitempty"`
	Experience          datatypes.JSON `json:"experience,omitempty"`
	Achievements        datatypes.JSON `json:"achievements,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ---------------- PROJECTS ----------------

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectCompleted ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted:
		return true
	}
	return false
}

type Project struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;index;not null" json:"owner_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"not null" json:"description"`
	TechStack   datatypes.JSON `json:"tech_stack"` // []string
	Status      ProjectStatus  `gorm:"default:planning" json:"status"`
	GithubLink  string         `json:"github_link,omitempty"`
	DemoLink    string         `json:"demo_link,omitempty"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     *time.Time     `json:"end_date,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Owner   *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProjectMember is an accepted collaborator. The owner is seeded as a
// member at project creation.
type ProjectMember struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_project_member;not null" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_project_member;not null" json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// ---------------- HACKATHONS ----------------

type HackathonMode string

const (
	ModeOnline  HackathonMode = "online"
	ModeOffline HackathonMode = "offline"
	ModeHybrid  HackathonMode = "hybrid"
)

func (m HackathonMode) Valid() bool {
	switch m {
	case ModeOnline, ModeOffline, ModeHybrid:
		return true
	}
	return false
}

type HackathonStatus string

const (
	HackathonUpcoming  HackathonStatus = "upcoming"
	HackathonOngoing   HackathonStatus = "ongoing"
	HackathonCompleted HackathonStatus = "completed"
)

type Hackathon struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizerID           uuid.UUID       `gorm:"type:uuid;index;not null" json:"organizer_id"`
	Title                 string          `gorm:"not null" json:"title"`
	Description           string          `gorm:"not null" json:"description"`
	Mode                  HackathonMode   `gorm:"not null" json:"mode"`
	Venue                 string          `json:"venue,omitempty"` // required unless mode is online
	StartDate             time.Time       `gorm:"index" json:"start_date"`
	EndDate               time.Time       `json:"end_date"`
	RegistrationStartDate time.Time       `json:"registration_start_date"`
	RegistrationEndDate   time.Time       `json:"registration_end_date"`
	MinTeamSize           int             `gorm:"default:1" json:"min_team_size"`
	MaxTeamSize           int             `gorm:"not null" json:"max_team_size"`
	PrizePool             string          `json:"prize_pool,omitempty"`
	TechStack             datatypes.JSON  `json:"tech_stack"` // []string
	Status                HackathonStatus `gorm:"default:upcoming;index" json:"status"`
	Featured              bool            `gorm:"default:false;index" json:"featured"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`

	Organizer    *User                  `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	Participants []HackathonParticipant `gorm:"foreignKey:HackathonID" json:"participants,omitempty"`
}

func (h *Hackathon) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// HackathonParticipant is an accepted registration.
type HackathonParticipant struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	HackathonID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_hackathon_participant;not null" json:"hackathon_id"`
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_hackathon_participant;not null" json:"user_id"`
	TeamName     string    `json:"team_name,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// ---------------- MEMBERSHIP REQUESTS ----------------

type MembershipKind string

const (
	KindProject   MembershipKind = "project"
	KindHackathon MembershipKind = "hackathon"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// MembershipRequest is a user's attempt to join a project or hackathon.
// pending is the only non-terminal state. A partial unique index on
// (kind, entity_id, user_id) WHERE status = 'pending' backs the single
// pending request per (user, entity) rule; see db.Migrate.
type MembershipRequest struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Kind        MembershipKind `gorm:"index:idx_request_entity;not null" json:"kind"`
	EntityID    uuid.UUID      `gorm:"type:uuid;index:idx_request_entity;not null" json:"entity_id"`
	UserID      uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id"`
	Status      RequestStatus  `gorm:"default:pending" json:"status"`
	Message     string         `json:"message,omitempty"`
	TeamName    string         `json:"team_name,omitempty"`
	TeamSize    int            `json:"team_size,omitempty"`
	ProjectIdea string         `json:"project_idea,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (r *MembershipRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ---------------- OUTBOX (for search sync events) ----------------

type Outbox struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	EntityType string         `gorm:"index;not null" json:"entity_type"` // user | project | hackathon
	EntityID   uuid.UUID      `gorm:"type:uuid;not null" json:"entity_id"`
	Op         string         `gorm:"not null" json:"op"` // UPSERT | DELETE
	Payload    datatypes.JSON `json:"payload,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	Processed  bool           `gorm:"default:false" json:"processed"`
}
