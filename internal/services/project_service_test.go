package services

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/devmatch-hq/devmatch/internal/apperrors"
	"github.com/devmatch-hq/devmatch/internal/models"
)

func validProjectInput() ProjectInput {
	return ProjectInput{
		Title:       "Voice for All",
		Description: "Assistive speech tooling",
		TechStack:   []string{"Go", "React"},
		StartDate:   time.Now(),
	}
}

func TestCreateProjectSeedsOwnerMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)
	owner := createTestUser(t, db, "alice")

	p, err := svc.Create(context.Background(), owner.ID, validProjectInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Status != models.ProjectPlanning {
		t.Errorf("status = %s, want planning default", p.Status)
	}

	var members int64
	db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", p.ID, owner.ID).
		Count(&members)
	if members != 1 {
		t.Errorf("owner member rows = %d, want 1", members)
	}

	var events int64
	db.Model(&models.Outbox{}).
		Where("entity_type = ? AND entity_id = ?", "project", p.ID).
		Count(&events)
	if events != 1 {
		t.Errorf("outbox events = %d, want 1", events)
	}
}

func TestCreateProjectMissingFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)
	owner := createTestUser(t, db, "alice")

	_, err := svc.Create(context.Background(), owner.ID, ProjectInput{Title: "x"})
	e := apperrors.As(err)
	if e == nil || e.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"description", "tech_stack", "start_date"} {
		if !slices.Contains(e.Fields, field) {
			t.Errorf("fields = %v, want to contain %s", e.Fields, field)
		}
	}
}

func TestUpdateProjectNonOwnerForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)
	owner := createTestUser(t, db, "alice")
	other := createTestUser(t, db, "bob")

	p, err := svc.Create(context.Background(), owner.ID, validProjectInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "hijacked"
	_, err = svc.Update(context.Background(), p.ID, other.ID, ProjectPatch{Title: &title})
	e := apperrors.As(err)
	if e == nil || e.Code != apperrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateProjectInvalidStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)
	owner := createTestUser(t, db, "alice")

	p, err := svc.Create(context.Background(), owner.ID, validProjectInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := models.ProjectStatus("archived")
	_, err = svc.Update(context.Background(), p.ID, owner.ID, ProjectPatch{Status: &bad})
	e := apperrors.As(err)
	if e == nil || e.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)
	owner := createTestUser(t, db, "alice")
	requester := createTestUser(t, db, "bob")

	p, err := svc.Create(context.Background(), owner.ID, validProjectInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	req := models.MembershipRequest{
		Kind:     models.KindProject,
		EntityID: p.ID,
		UserID:   requester.ID,
		Status:   models.RequestPending,
	}
	if err := db.Create(&req).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}

	if err := svc.Delete(context.Background(), p.ID, owner.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var remaining int64
	db.Model(&models.MembershipRequest{}).
		Where("kind = ? AND entity_id = ?", models.KindProject, p.ID).
		Count(&remaining)
	if remaining != 0 {
		t.Errorf("requests after delete = %d, want 0", remaining)
	}
	db.Model(&models.ProjectMember{}).Where("project_id = ?", p.ID).Count(&remaining)
	if remaining != 0 {
		t.Errorf("members after delete = %d, want 0", remaining)
	}
}

func TestListProjectsFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)
	owner := createTestUser(t, db, "alice")

	in := validProjectInput()
	if _, err := svc.Create(context.Background(), owner.ID, in); err != nil {
		t.Fatalf("create planning: %v", err)
	}
	in2 := validProjectInput()
	in2.Title = "Shipped Thing"
	in2.Status = models.ProjectCompleted
	in2.TechStack = []string{"Rust"}
	if _, err := svc.Create(context.Background(), owner.ID, in2); err != nil {
		t.Fatalf("create completed: %v", err)
	}

	completed, err := svc.List(context.Background(), ProjectFilter{Status: models.ProjectCompleted})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(completed) != 1 || completed[0].Title != "Shipped Thing" {
		t.Errorf("status filter returned %d projects", len(completed))
	}

	goProjects, err := svc.List(context.Background(), ProjectFilter{Tech: "Go"})
	if err != nil {
		t.Fatalf("list by tech: %v", err)
	}
	if len(goProjects) != 1 || goProjects[0].Title != "Voice for All" {
		t.Errorf("tech filter returned %d projects", len(goProjects))
	}
}

func TestListMineIncludesJoinedProjects(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)
	owner := createTestUser(t, db, "alice")
	joiner := createTestUser(t, db, "bob")

	p, err := svc.Create(context.Background(), owner.ID, validProjectInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	member := models.ProjectMember{ProjectID: p.ID, UserID: joiner.ID, JoinedAt: time.Now()}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}

	mine, err := svc.ListMine(context.Background(), joiner.ID)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != p.ID {
		t.Errorf("joiner sees %d projects, want the joined one", len(mine))
	}
}
