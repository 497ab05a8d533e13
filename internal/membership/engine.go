// Package membership implements the request/approve/reject protocol shared
// by projects and hackathons: a user asks to join, the owner decides, and
// acceptance adds the user to the member set in the same transaction.
package membership

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/devmatch-hq/devmatch/internal/apperrors"
	"github.com/devmatch-hq/devmatch/internal/metrics"
	"github.com/devmatch-hq/devmatch/internal/models"
	"github.com/devmatch-hq/devmatch/internal/outbox"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Engine struct {
	db *gorm.DB

	// Now is the clock used for admission checks. Tests override it.
	Now func() time.Time
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, Now: time.Now}
}

// Submit files a pending request for userID to join ent. It fails with
// Conflict when the user is already a member, already has a pending
// request, or the entity's admission policy refuses the payload.
func (e *Engine) Submit(ctx context.Context, ent Joinable, userID uuid.UUID, p Payload) (*models.MembershipRequest, error) {
	if err := ent.Admit(e.Now(), p); err != nil {
		return nil, err
	}

	req := &models.MembershipRequest{
		Kind:        ent.Kind(),
		EntityID:    ent.ParentID(),
		UserID:      userID,
		Status:      models.RequestPending,
		Message:     p.Message,
		TeamName:    p.TeamName,
		TeamSize:    p.TeamSize,
		ProjectIdea: p.ProjectIdea,
	}

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := ent.IsMember(tx, userID)
		if err != nil {
			return err
		}
		if member {
			return apperrors.Conflict("already a member")
		}

		var pending int64
		if err := tx.Model(&models.MembershipRequest{}).
			Where("kind = ? AND entity_id = ? AND user_id = ? AND status = ?",
				ent.Kind(), ent.ParentID(), userID, models.RequestPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return apperrors.Conflict("request already pending")
		}

		if err := tx.Create(req).Error; err != nil {
			if isUniqueViolation(err) {
				return apperrors.Conflict("request already pending")
			}
			return err
		}

		return outbox.AddEvent(tx, string(ent.Kind()), ent.ParentID(), "UPSERT", nil)
	})
	if err != nil {
		return nil, err
	}

	metrics.RequestsSubmitted.WithLabelValues(string(ent.Kind())).Inc()
	return req, nil
}

// Decide transitions a pending request to accepted or rejected. Only the
// entity owner may decide. Accepting grants membership atomically; deciding
// an already-decided request fails with Conflict, which makes a repeated
// accept safe to detect.
func (e *Engine) Decide(ctx context.Context, ent Joinable, requestID, deciderID uuid.UUID, decision models.RequestStatus) (*models.MembershipRequest, error) {
	if decision != models.RequestAccepted && decision != models.RequestRejected {
		return nil, apperrors.Validation("decision must be accepted or rejected", "status")
	}
	if deciderID != ent.OwnerID() {
		return nil, apperrors.Forbidden("only the owner may decide requests")
	}

	var req models.MembershipRequest
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&req, "id = ? AND kind = ? AND entity_id = ?",
			requestID, ent.Kind(), ent.ParentID()).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("request not found")
		}
		if err != nil {
			return err
		}

		// Conditional update so a concurrent decision loses cleanly.
		res := tx.Model(&models.MembershipRequest{}).
			Where("id = ? AND status = ?", requestID, models.RequestPending).
			Update("status", decision)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflict("request is no longer pending")
		}
		req.Status = decision

		if decision == models.RequestAccepted {
			if err := ent.Grant(tx, &req); err != nil {
				return err
			}
		}

		return outbox.AddEvent(tx, string(ent.Kind()), ent.ParentID(), "UPSERT", nil)
	})
	if err != nil {
		return nil, err
	}

	switch decision {
	case models.RequestAccepted:
		metrics.RequestsAccepted.WithLabelValues(string(ent.Kind())).Inc()
	case models.RequestRejected:
		metrics.RequestsRejected.WithLabelValues(string(ent.Kind())).Inc()
	}
	return &req, nil
}

// ListRequests returns the entity's requests in submission order. The owner
// sees everything; anyone else sees only their own requests.
func (e *Engine) ListRequests(ctx context.Context, ent Joinable, callerID uuid.UUID) ([]models.MembershipRequest, error) {
	q := e.db.WithContext(ctx).
		Where("kind = ? AND entity_id = ?", ent.Kind(), ent.ParentID()).
		Order("created_at ASC")
	if callerID != ent.OwnerID() {
		q = q.Where("user_id = ?", callerID)
	}

	var reqs []models.MembershipRequest
	if err := q.Preload("User").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
