package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/findin/findin-backend/internal/dto"
	"github.com/findin/findin-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidDecision = errors.New("invalid decision: must be APPROVED or REJECTED")

// VerificationNotifier tells a user the outcome of their review.
type VerificationNotifier interface {
	NotifyVerificationStatus(ctx context.Context, user *models.User, status string) error
}

type VerificationService struct {
	db       *gorm.DB
	notifier VerificationNotifier
}

func NewVerificationService(db *gorm.DB, notifier VerificationNotifier) *VerificationService {
	return &VerificationService{db: db, notifier: notifier}
}

// Queue lists users awaiting a verification decision.
func (s *VerificationService) Queue(ctx context.Context) ([]dto.VerificationQueueEntry, error) {
	var pending []models.User
	err := s.db.WithContext(ctx).
		Where("verification_status = ?", models.VerificationPending).
		Order("created_at ASC").
		Find(&pending).Error
	if err != nil {
		return nil, err
	}

	queue := make([]dto.VerificationQueueEntry, len(pending))
	for i, u := range pending {
		queue[i] = dto.VerificationQueueEntry{
			ID:          u.ID.String(),
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			Email:       u.Email,
			Phone:       u.Phone,
			City:        u.City,
			State:       u.State,
			UserType:    u.UserType,
			Notes:       u.VerificationNotes,
			SubmittedAt: u.CreatedAt,
		}
	}
	return queue, nil
}

// Decide applies an admin's approve/reject decision, audit-logs it and
// notifies the reviewed user.
func (s *VerificationService) Decide(ctx context.Context, actorID uuid.UUID, userID uuid.UUID, req *dto.VerificationDecisionRequest) error {
	status := strings.ToUpper(req.Status)
	if status != models.VerificationApproved && status != models.VerificationRejected {
		return ErrInvalidDecision
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	updates := map[string]interface{}{
		"verification_status": status,
		"is_verified":         status == models.VerificationApproved,
		"verification_notes":  req.Notes,
		"updated_at":          time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return err
	}

	user.VerificationStatus = status
	user.IsVerified = status == models.VerificationApproved
	user.VerificationNotes = req.Notes

	entityID := userID.String()
	appendAudit(s.db, actorID, "REVIEW_VERIFICATION", models.AuditEntityUser, &entityID, map[string]interface{}{
		"status": status,
		"notes":  req.Notes,
	})

	if err := s.notifier.NotifyVerificationStatus(ctx, &user, status); err != nil {
		slog.Error("verification status notification failed", "user_id", entityID, "error", err)
	}

	return nil
}
