package services

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/devmatch-hq/devmatch/internal/apperrors"
	"github.com/devmatch-hq/devmatch/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Hackathon{},
		&models.HackathonParticipant{},
		&models.MembershipRequest{},
		&models.Outbox{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Name:         username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func validHackathonInput() HackathonInput {
	return HackathonInput{
		Title:                 "DevFest",
		Description:           "48 hour sprint",
		Mode:                  models.ModeOffline,
		Venue:                 "Bengaluru",
		StartDate:             time.Now().Add(7 * 24 * time.Hour),
		EndDate:               time.Now().Add(9 * 24 * time.Hour),
		RegistrationStartDate: time.Now(),
		RegistrationEndDate:   time.Now().Add(6 * 24 * time.Hour),
		MaxTeamSize:           4,
		TechStack:             []string{"Go", "React"},
	}
}

func TestCreateHackathonOfflineRequiresVenue(t *testing.T) {
	db := newTestDB(t)
	svc := NewHackathonService(db)
	organizer := createTestUser(t, db, "alice")

	in := validHackathonInput()
	in.Venue = ""
	_, err := svc.Create(context.Background(), organizer.ID, in)
	e := apperrors.As(err)
	if e == nil || e.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !slices.Contains(e.Fields, "venue") {
		t.Errorf("fields = %v, want to contain venue", e.Fields)
	}
}

func TestCreateHackathonOnlineIgnoresVenue(t *testing.T) {
	db := newTestDB(t)
	svc := NewHackathonService(db)
	organizer := createTestUser(t, db, "alice")

	in := validHackathonInput()
	in.Mode = models.ModeOnline
	in.Venue = "should be dropped"
	h, err := svc.Create(context.Background(), organizer.ID, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if h.Venue != "" {
		t.Errorf("venue = %q, want empty for online mode", h.Venue)
	}
	if h.Status != models.HackathonUpcoming {
		t.Errorf("status = %s, want upcoming", h.Status)
	}
	if h.MinTeamSize != 1 {
		t.Errorf("min team size = %d, want default 1", h.MinTeamSize)
	}
}

func TestCreateHackathonMissingFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewHackathonService(db)
	organizer := createTestUser(t, db, "alice")

	_, err := svc.Create(context.Background(), organizer.ID, HackathonInput{Title: "x"})
	e := apperrors.As(err)
	if e == nil || e.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"description", "mode", "start_date", "end_date", "max_team_size"} {
		if !slices.Contains(e.Fields, field) {
			t.Errorf("fields = %v, want to contain %s", e.Fields, field)
		}
	}
}

func TestUpdateHackathonVenueRuleOnModeChange(t *testing.T) {
	db := newTestDB(t)
	svc := NewHackathonService(db)
	organizer := createTestUser(t, db, "alice")

	in := validHackathonInput()
	in.Mode = models.ModeOnline
	in.Venue = ""
	h, err := svc.Create(context.Background(), organizer.ID, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	offline := models.ModeOffline
	_, err = svc.Update(context.Background(), h.ID, organizer.ID, HackathonPatch{Mode: &offline})
	e := apperrors.As(err)
	if e == nil || e.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error when going offline without venue, got %v", err)
	}

	venue := "Berlin"
	updated, err := svc.Update(context.Background(), h.ID, organizer.ID,
		HackathonPatch{Mode: &offline, Venue: &venue})
	if err != nil {
		t.Fatalf("update with venue: %v", err)
	}
	if updated.Mode != models.ModeOffline || updated.Venue != "Berlin" {
		t.Errorf("got mode=%s venue=%q", updated.Mode, updated.Venue)
	}
}

func TestUpdateHackathonEmptyTitleRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewHackathonService(db)
	organizer := createTestUser(t, db, "alice")

	h, err := svc.Create(context.Background(), organizer.ID, validHackathonInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	empty := ""
	_, err = svc.Update(context.Background(), h.ID, organizer.ID, HackathonPatch{Title: &empty})
	e := apperrors.As(err)
	if e == nil || e.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error for empty title, got %v", err)
	}

	_, err = svc.Update(context.Background(), h.ID, organizer.ID, HackathonPatch{Description: &empty})
	e = apperrors.As(err)
	if e == nil || e.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error for empty description, got %v", err)
	}
}

func TestFeaturedHackathons(t *testing.T) {
	db := newTestDB(t)
	svc := NewHackathonService(db)
	organizer := createTestUser(t, db, "alice")

	in := validHackathonInput()
	in.Featured = true
	featured, err := svc.Create(context.Background(), organizer.ID, in)
	if err != nil {
		t.Fatalf("create featured: %v", err)
	}
	in2 := validHackathonInput()
	in2.Title = "Plain Fest"
	if _, err := svc.Create(context.Background(), organizer.ID, in2); err != nil {
		t.Fatalf("create plain: %v", err)
	}

	got, err := svc.List(context.Background(), HackathonFilter{Featured: true})
	if err != nil {
		t.Fatalf("list featured: %v", err)
	}
	if len(got) != 1 || got[0].ID != featured.ID {
		t.Errorf("featured filter returned %d hackathons", len(got))
	}

	// Curation can be toggled by the organizer.
	off := false
	if _, err := svc.Update(context.Background(), featured.ID, organizer.ID,
		HackathonPatch{Featured: &off}); err != nil {
		t.Fatalf("unfeature: %v", err)
	}
	got, err = svc.List(context.Background(), HackathonFilter{Featured: true})
	if err != nil {
		t.Fatalf("list after unfeature: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("featured filter returned %d hackathons after unfeature, want 0", len(got))
	}
}

func TestUpdateHackathonNonOrganizerForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := NewHackathonService(db)
	organizer := createTestUser(t, db, "alice")
	other := createTestUser(t, db, "bob")

	h, err := svc.Create(context.Background(), organizer.ID, validHackathonInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "hijacked"
	_, err = svc.Update(context.Background(), h.ID, other.ID, HackathonPatch{Title: &title})
	e := apperrors.As(err)
	if e == nil || e.Code != apperrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestDeleteHackathonCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewHackathonService(db)
	organizer := createTestUser(t, db, "alice")
	registrant := createTestUser(t, db, "bob")

	h, err := svc.Create(context.Background(), organizer.ID, validHackathonInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	req := models.MembershipRequest{
		Kind:     models.KindHackathon,
		EntityID: h.ID,
		UserID:   registrant.ID,
		Status:   models.RequestPending,
	}
	if err := db.Create(&req).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}

	if err := svc.Delete(context.Background(), h.ID, organizer.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var requests int64
	db.Model(&models.MembershipRequest{}).
		Where("kind = ? AND entity_id = ?", models.KindHackathon, h.ID).
		Count(&requests)
	if requests != 0 {
		t.Errorf("requests after delete = %d, want 0", requests)
	}
	var hackathons int64
	db.Model(&models.Hackathon{}).Where("id = ?", h.ID).Count(&hackathons)
	if hackathons != 0 {
		t.Errorf("hackathon rows after delete = %d, want 0", hackathons)
	}
}

func TestRecomputeStatusesIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewHackathonService(db)
	organizer := createTestUser(t, db, "alice")

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	mk := func(title string, start, end time.Time, status models.HackathonStatus) *models.Hackathon {
		h := &models.Hackathon{
			OrganizerID:           organizer.ID,
			Title:                 title,
			Description:           "d",
			Mode:                  models.ModeOnline,
			StartDate:             start,
			EndDate:               end,
			RegistrationStartDate: start.Add(-48 * time.Hour),
			RegistrationEndDate:   start,
			MinTeamSize:           1,
			MaxTeamSize:           4,
			Status:                status,
		}
		if err := db.Create(h).Error; err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
		return h
	}

	future := mk("future", now.Add(24*time.Hour), now.Add(48*time.Hour), models.HackathonUpcoming)
	running := mk("running", now.Add(-24*time.Hour), now.Add(24*time.Hour), models.HackathonUpcoming)
	ended := mk("ended", now.Add(-72*time.Hour), now.Add(-24*time.Hour), models.HackathonOngoing)

	if err := svc.RecomputeStatuses(context.Background(), now); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	status := func(h *models.Hackathon) models.HackathonStatus {
		var got models.Hackathon
		if err := db.First(&got, "id = ?", h.ID).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		return got.Status
	}

	if s := status(future); s != models.HackathonUpcoming {
		t.Errorf("future status = %s, want upcoming", s)
	}
	if s := status(running); s != models.HackathonOngoing {
		t.Errorf("running status = %s, want ongoing", s)
	}
	if s := status(ended); s != models.HackathonCompleted {
		t.Errorf("ended status = %s, want completed", s)
	}

	// A second run with no entity changes must not transition anything.
	if err := svc.RecomputeStatuses(context.Background(), now); err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	if s := status(future); s != models.HackathonUpcoming {
		t.Errorf("future status after rerun = %s, want upcoming", s)
	}
	if s := status(running); s != models.HackathonOngoing {
		t.Errorf("running status after rerun = %s, want ongoing", s)
	}
	if s := status(ended); s != models.HackathonCompleted {
		t.Errorf("ended status after rerun = %s, want completed", s)
	}
}

func TestListRegisteredHackathons(t *testing.T) {
	db := newTestDB(t)
	svc := NewHackathonService(db)
	organizer := createTestUser(t, db, "alice")
	registrant := createTestUser(t, db, "bob")

	h1, err := svc.Create(context.Background(), organizer.ID, validHackathonInput())
	if err != nil {
		t.Fatalf("create h1: %v", err)
	}
	in2 := validHackathonInput()
	in2.Title = "Other Fest"
	h2, err := svc.Create(context.Background(), organizer.ID, in2)
	if err != nil {
		t.Fatalf("create h2: %v", err)
	}

	participant := models.HackathonParticipant{
		HackathonID:  h1.ID,
		UserID:       registrant.ID,
		TeamName:     "gophers",
		RegisteredAt: time.Now(),
	}
	if err := db.Create(&participant).Error; err != nil {
		t.Fatalf("seed participant: %v", err)
	}

	got, err := svc.ListRegistered(context.Background(), registrant.ID)
	if err != nil {
		t.Fatalf("list registered: %v", err)
	}
	if len(got) != 1 || got[0].ID != h1.ID {
		t.Errorf("registered = %d hackathons, want only the accepted one", len(got))
	}

	// A registration that never became a membership does not show up.
	req := models.MembershipRequest{
		Kind:     models.KindHackathon,
		EntityID: h2.ID,
		UserID:   registrant.ID,
		Status:   models.RequestRejected,
	}
	if err := db.Create(&req).Error; err != nil {
		t.Fatalf("seed rejected request: %v", err)
	}
	got, err = svc.ListRegistered(context.Background(), registrant.ID)
	if err != nil {
		t.Fatalf("list registered after rejection: %v", err)
	}
	if len(got) != 1 || got[0].ID != h1.ID {
		t.Errorf("rejected registration leaked into the registered view: got %d hackathons", len(got))
	}
}
