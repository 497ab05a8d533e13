package elastic

import (
	"encoding/json"
	"time"

	"github.com/devmatch-hq/devmatch/internal/models"
	"github.com/google/uuid"
)

type UserDoc struct {
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Skills    []string  `json:"skills"`
	Bio       string    `json:"bio"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BuildUserDoc flattens a user and their optional profile into one search
// document.
func BuildUserDoc(u models.User, p *models.Profile) ([]byte, error) {
	doc := UserDoc{
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		UpdatedAt: u.UpdatedAt,
	}
	if p != nil {
		doc.Bio = p.Bio
		_ = json.Unmarshal(p.Skills, &doc.Skills)
	}
	return json.Marshal(doc)
}

type ProjectDoc struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TechStack   []string  `json:"tech_stack"`
	Status      string    `json:"status"`
	OwnerID     uuid.UUID `json:"owner_id"`
	TeamMembers []string  `json:"team_members"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func BuildProjectDoc(p models.Project, members []models.ProjectMember) ([]byte, error) {
	var stack []string
	_ = json.Unmarshal(p.TechStack, &stack)
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID.String())
	}
	return json.Marshal(ProjectDoc{
		Title:       p.Title,
		Description: p.Description,
		TechStack:   stack,
		Status:      string(p.Status),
		OwnerID:     p.OwnerID,
		TeamMembers: ids,
		UpdatedAt:   p.UpdatedAt,
	})
}

type HackathonDoc struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Mode        string    `json:"mode"`
	Venue       string    `json:"venue"`
	TechStack   []string  `json:"tech_stack"`
	Status      string    `json:"status"`
	Featured    bool      `json:"featured"`
	OrganizerID uuid.UUID `json:"organizer_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func BuildHackathonDoc(h models.Hackathon) ([]byte, error) {
	var stack []string
	_ = json.Unmarshal(h.TechStack, &stack)
	return json.Marshal(HackathonDoc{
		Title:       h.Title,
		Description: h.Description,
		Mode:        string(h.Mode),
		Venue:       h.Venue,
		TechStack:   stack,
		Status:      string(h.Status),
		Featured:    h.Featured,
		OrganizerID: h.OrganizerID,
		StartDate:   h.StartDate,
		EndDate:     h.EndDate,
		UpdatedAt:   h.UpdatedAt,
	})
}
