package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/findin/findin-backend/internal/channels"
	"github.com/findin/findin-backend/internal/models"
)

// UserDirectory is the audience source for notification fan-out.
type UserDirectory interface {
	FindVerifiedApprovedUsers(ctx context.Context) ([]models.User, error)
	FindVerifiedApprovedUsersByRole(ctx context.Context, roles []string) ([]models.User, error)
}

// NotificationStore persists notification records.
type NotificationStore interface {
	InsertNotification(ctx context.Context, n *models.Notification) error
}

// NotificationService computes the audience for an event, persists one
// notification per (event, recipient) and best-effort delivers it over the
// recipient's enabled channels. Persistence has priority over delivery: a
// failed SMS or email never rolls back the stored record, and a failed
// recipient never blocks the rest of the audience.
type NotificationService struct {
	users         UserDirectory
	notifications NotificationStore
	sms           channels.Sender
	email         channels.Sender
}

func NewNotificationService(users UserDirectory, notifications NotificationStore, sms, email channels.Sender) *NotificationService {
	return &NotificationService{
		users:         users,
		notifications: notifications,
		sms:           sms,
		email:         email,
	}
}

// NotifyRadiusExpansion alerts the entire verified population that a
// report's search radius grew. The audience is intentionally not filtered
// by geography: user locations are not modeled, so "newly included users"
// cannot be computed.
func (s *NotificationService) NotifyRadiusExpansion(ctx context.Context, report *models.Report, newRadius float64) error {
	audience, err := s.users.FindVerifiedApprovedUsers(ctx)
	if err != nil {
		return fmt.Errorf("load radius expansion audience: %w", err)
	}

	for i := range audience {
		user := &audience[i]
		s.dispatch(ctx, user, &models.Notification{
			Type:     models.NotificationRadiusExpanded,
			Title:    "Search Radius Expanded",
			Message:  fmt.Sprintf("Search radius for %q expanded to %g km", report.Title, newRadius),
			UserID:   user.ID,
			ReportID: &report.ID,
		})
	}
	return nil
}

// NotifyReportCreated alerts responders (police, NGO, medical, government)
// that a new report was filed. Citizens are not part of this audience.
func (s *NotificationService) NotifyReportCreated(ctx context.Context, report *models.Report) error {
	audience, err := s.users.FindVerifiedApprovedUsersByRole(ctx, models.ResponderRoles)
	if err != nil {
		return fmt.Errorf("load report creation audience: %w", err)
	}

	for i := range audience {
		user := &audience[i]
		s.dispatch(ctx, user, &models.Notification{
			Type:     models.NotificationReportCreated,
			Title:    "New Report Filed",
			Message:  fmt.Sprintf("New %s report %q near %s", report.Category, report.Title, report.Location),
			UserID:   user.ID,
			ReportID: &report.ID,
		})
	}
	return nil
}

// NotifyNewComment tells the report author someone commented.
func (s *NotificationService) NotifyNewComment(ctx context.Context, report *models.Report, author *models.User, commenterName string) error {
	return s.SaveNotification(ctx, author, &models.Notification{
		Type:     models.NotificationNewComment,
		Title:    "New Comment on Your Report",
		Message:  fmt.Sprintf("%s commented on %q", commenterName, report.Title),
		UserID:   author.ID,
		ReportID: &report.ID,
	})
}

// NotifyReportResolved tells the report author the report was resolved.
func (s *NotificationService) NotifyReportResolved(ctx context.Context, report *models.Report, author *models.User) error {
	return s.SaveNotification(ctx, author, &models.Notification{
		Type:     models.NotificationReportResolved,
		Title:    "Report Resolved",
		Message:  fmt.Sprintf("Your report %q has been marked resolved", report.Title),
		UserID:   author.ID,
		ReportID: &report.ID,
	})
}

// NotifyVerificationStatus tells a user the outcome of their verification
// review.
func (s *NotificationService) NotifyVerificationStatus(ctx context.Context, user *models.User, status string) error {
	message := "Your identity verification was approved. You can now file reports and comment."
	if status == models.VerificationRejected {
		message = "Your identity verification was rejected. Please contact support or re-submit your details."
	}
	return s.SaveNotification(ctx, user, &models.Notification{
		Type:    models.NotificationVerificationStatus,
		Title:   "Verification Update",
		Message: message,
		UserID:  user.ID,
	})
}

// SaveNotification persists the record first, then attempts delivery over
// each channel the recipient opted into. Channel failures are logged and
// swallowed; the persisted record is the source of truth. The in-app/push
// surface is the record itself.
func (s *NotificationService) SaveNotification(ctx context.Context, recipient *models.User, n *models.Notification) error {
	if err := s.notifications.InsertNotification(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	prefs := recipient.PreferredChannels.Data()

	if prefs.SMS && recipient.Phone != nil && *recipient.Phone != "" {
		if err := s.sms.Send(ctx, *recipient.Phone, "", n.Message); err != nil {
			slog.Error("sms delivery failed", "user_id", recipient.ID.String(), "type", n.Type, "error", err)
		}
	}

	if prefs.Email && recipient.Email != "" {
		if err := s.email.Send(ctx, recipient.Email, n.Title, n.Message); err != nil {
			slog.Error("email delivery failed", "user_id", recipient.ID.String(), "type", n.Type, "error", err)
		}
	}

	return nil
}

// dispatch is the per-recipient step of a fan-out: persistence failures are
// logged and do not stop the remaining recipients.
func (s *NotificationService) dispatch(ctx context.Context, recipient *models.User, n *models.Notification) {
	if err := s.SaveNotification(ctx, recipient, n); err != nil {
		slog.Error("notification dispatch failed", "user_id", recipient.ID.String(), "type", n.Type, "error", err)
	}
}
