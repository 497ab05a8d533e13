package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/devmatch-hq/devmatch/internal/apperrors"
	"github.com/devmatch-hq/devmatch/internal/models"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Username: "alice",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "s3cret" {
		t.Error("password stored in plain text")
	}

	got, err := svc.Authenticate(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated user id mismatch")
	}

	if _, err := svc.Authenticate(context.Background(), "alice", "wrong"); err == nil {
		t.Error("expected failure with wrong password")
	}
	if _, err := svc.Authenticate(context.Background(), "nobody", "s3cret"); err == nil {
		t.Error("expected failure with unknown username")
	}
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	in := RegisterInput{Name: "Alice", Email: "alice@example.com", Username: "alice", Password: "x"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("register: %v", err)
	}

	in.Username = "alice2"
	_, err := svc.Register(context.Background(), in) // same email
	e := apperrors.As(err)
	if e == nil || e.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
}

func TestProfileUpsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	user := createTestUser(t, db, "alice")

	in := ProfileInput{
		Bio:                 "gopher",
		GithubID:            "alice-gh",
		TechnicalBackground: "backend",
		Skills:              []string{"Go", "Postgres"},
	}
	profile, err := svc.Upsert(context.Background(), user.ID, in)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	var reloaded models.User
	if err := db.First(&reloaded, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if !reloaded.HasProfile {
		t.Error("has_profile not set after first upsert")
	}

	in.Bio = "senior gopher"
	updated, err := svc.Upsert(context.Background(), user.ID, in)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if updated.ID != profile.ID {
		t.Error("second upsert created a new profile instead of updating")
	}
	if updated.Bio != "senior gopher" {
		t.Errorf("bio = %q after update", updated.Bio)
	}

	var skills []string
	if err := json.Unmarshal(updated.Skills, &skills); err != nil {
		t.Fatalf("unmarshal skills: %v", err)
	}
	if len(skills) != 2 || skills[0] != "Go" {
		t.Errorf("skills = %v", skills)
	}

	var count int64
	db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("profile rows = %d, want 1", count)
	}
}

func TestProfileUpsertMissingFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	user := createTestUser(t, db, "alice")

	_, err := svc.Upsert(context.Background(), user.ID, ProfileInput{Bio: "gopher"})
	e := apperrors.As(err)
	if e == nil || e.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
