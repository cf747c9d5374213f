package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/findin/findin-backend/internal/dto"
	"github.com/findin/findin-backend/internal/models"
	"github.com/findin/findin-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAuthorNotVerified = errors.New("author account is not verified")

// CommentNotifier is the slice of the dispatcher comment creation triggers.
type CommentNotifier interface {
	NotifyNewComment(ctx context.Context, report *models.Report, author *models.User, commenterName string) error
}

type CommentService struct {
	db       *gorm.DB
	reports  ReportStorage
	users    UserGetter
	notifier CommentNotifier
}

func NewCommentService(db *gorm.DB, reports ReportStorage, users UserGetter, notifier CommentNotifier) *CommentService {
	return &CommentService{db: db, reports: reports, users: users, notifier: notifier}
}

// CreateComment stores a sighting/tip by a verified user and notifies the
// report author, unless they commented on their own report.
func (s *CommentService) CreateComment(ctx context.Context, commenter *models.User, req *dto.CreateCommentRequest) (*models.Comment, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, errors.New("content is required")
	}
	if !commenter.IsVerified || commenter.VerificationStatus != models.VerificationApproved {
		return nil, ErrAuthorNotVerified
	}

	report, err := s.reports.FindReportByID(ctx, req.ReportID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		ID:        uuid.New(),
		ReportID:  report.ID,
		AuthorID:  commenter.ID,
		Content:   req.Content,
		Location:  req.Location,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if report.AuthorID != commenter.ID {
		if author, err := s.users.FindUserByID(ctx, report.AuthorID); err == nil {
			commenterName := strings.TrimSpace(commenter.FirstName + " " + commenter.LastName)
			if err := s.notifier.NotifyNewComment(ctx, report, author, commenterName); err != nil {
				slog.Error("new comment notification failed", "report_id", report.ID.String(), "error", err)
			}
		}
	}

	return comment, nil
}
