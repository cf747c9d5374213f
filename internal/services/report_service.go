package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/findin/findin-backend/internal/dto"
	"github.com/findin/findin-backend/internal/models"
	"github.com/findin/findin-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrReportNotActive = errors.New("report is not active")
	ErrRadiusNotWider  = errors.New("new radius must be wider than the current radius")
	ErrInvalidStatus   = errors.New("invalid status: must be ACTIVE, RESOLVED or EXPIRED")
)

// ReportStorage is the report persistence the service depends on.
type ReportStorage interface {
	InsertReport(ctx context.Context, report *models.Report) error
	FindReportByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	ListReports(ctx context.Context) ([]models.Report, error)
	UpdateReportStatus(ctx context.Context, id uuid.UUID, status string, now time.Time) (*models.Report, error)
	UpdateReportRadius(ctx context.Context, id uuid.UUID, entry models.RadiusExpansion) error
}

// UserGetter resolves users for author lookups.
type UserGetter interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ReportNotifier is the slice of the dispatcher the report flows trigger.
type ReportNotifier interface {
	NotifyReportCreated(ctx context.Context, report *models.Report) error
	NotifyReportResolved(ctx context.Context, report *models.Report, author *models.User) error
	NotifyRadiusExpansion(ctx context.Context, report *models.Report, newRadius float64) error
}

type ReportService struct {
	db       *gorm.DB
	reports  ReportStorage
	users    UserGetter
	notifier ReportNotifier
}

func NewReportService(db *gorm.DB, reports ReportStorage, users UserGetter, notifier ReportNotifier) *ReportService {
	return &ReportService{db: db, reports: reports, users: users, notifier: notifier}
}

// CreateReport persists a new ACTIVE report with its initial radius and
// seeded history entry, then fires the responder fan-out exactly once.
// A fan-out failure does not fail the creation; the report is durable.
func (s *ReportService) CreateReport(ctx context.Context, author *models.User, req *dto.CreateReportRequest) (*models.Report, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, errors.New("title and description are required")
	}
	if strings.TrimSpace(req.Category) == "" || strings.TrimSpace(req.Location) == "" {
		return nil, errors.New("category and location are required")
	}
	if strings.TrimSpace(req.ContactInfo) == "" {
		return nil, errors.New("contact info is required")
	}

	initialRadius := req.InitialRadius
	if initialRadius <= 0 {
		initialRadius = 5
	}
	priority := req.Priority
	if priority == "" {
		priority = "MEDIUM"
	}

	var lastSeen *time.Time
	if req.LastSeen != nil && *req.LastSeen != "" {
		parsed, err := time.Parse(time.RFC3339, *req.LastSeen)
		if err != nil {
			return nil, fmt.Errorf("invalid last_seen timestamp: %w", err)
		}
		lastSeen = &parsed
	}

	now := time.Now().UTC()
	initialReason := "Initial radius"
	report := &models.Report{
		ID:               uuid.New(),
		Title:            req.Title,
		Description:      req.Description,
		Category:         strings.ToUpper(req.Category),
		SubCategory:      req.SubCategory,
		Priority:         priority,
		Status:           models.ReportActive,
		Location:         req.Location,
		City:             req.City,
		State:            req.State,
		Pincode:          req.Pincode,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		InitialRadius:    initialRadius,
		CurrentRadius:    initialRadius,
		ContactInfo:      req.ContactInfo,
		EmergencyContact: req.EmergencyContact,
		Reward:           req.Reward,
		LastSeen:         lastSeen,
		Age:              req.Age,
		Gender:           req.Gender,
		Height:           req.Height,
		Build:            req.Build,
		Clothing:         req.Clothing,
		SpecialMarks:     req.SpecialMarks,
		AuthorID:         author.ID,
		AuthorName:       strings.TrimSpace(author.FirstName + " " + author.LastName),
		AuthorType:       author.UserType,
		LastRadiusExpand: &now,
		RadiusHistory: []models.RadiusExpansion{{
			Radius:     initialRadius,
			ExpandedAt: now,
			ExpandedBy: models.ExpandedBySystem,
			Reason:     &initialReason,
		}},
	}

	if err := s.reports.InsertReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if err := s.notifier.NotifyReportCreated(ctx, report); err != nil {
		slog.Error("report creation fan-out failed", "report_id", report.ID.String(), "error", err)
	}

	return report, nil
}

func (s *ReportService) ListReports(ctx context.Context) ([]dto.ReportListItem, error) {
	reports, err := s.reports.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return []dto.ReportListItem{}, nil
	}

	reportIDs := make([]uuid.UUID, len(reports))
	authorIDs := make([]uuid.UUID, 0, len(reports))
	for i, r := range reports {
		reportIDs[i] = r.ID
		authorIDs = append(authorIDs, r.AuthorID)
	}

	type commentCount struct {
		ReportID uuid.UUID
		Count    int64
	}
	var counts []commentCount
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Select("report_id, COUNT(*) AS count").
		Where("report_id IN ?", reportIDs).
		Group("report_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	countMap := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		countMap[c.ReportID] = c.Count
	}

	var authors []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", authorIDs).Find(&authors).Error; err != nil {
		return nil, err
	}
	authorMap := make(map[uuid.UUID]*models.User, len(authors))
	for i := range authors {
		authorMap[authors[i].ID] = &authors[i]
	}

	items := make([]dto.ReportListItem, len(reports))
	for i, r := range reports {
		items[i] = dto.ReportListItem{
			Report:       r,
			CommentCount: countMap[r.ID],
			Author:       authorSummary(&r, authorMap[r.AuthorID]),
		}
	}
	return items, nil
}

func (s *ReportService) GetReport(ctx context.Context, id uuid.UUID) (*dto.ReportDetail, error) {
	report, err := s.reports.FindReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	var author *models.User
	if u, err := s.users.FindUserByID(ctx, report.AuthorID); err == nil {
		author = u
	}

	var comments []models.Comment
	if err := s.db.WithContext(ctx).
		Where("report_id = ?", id).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	commenterIDs := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		commenterIDs = append(commenterIDs, c.AuthorID)
	}
	commenterMap := make(map[uuid.UUID]*models.User)
	if len(commenterIDs) > 0 {
		var commenters []models.User
		if err := s.db.WithContext(ctx).Where("id IN ?", commenterIDs).Find(&commenters).Error; err != nil {
			return nil, err
		}
		for i := range commenters {
			commenterMap[commenters[i].ID] = &commenters[i]
		}
	}

	views := make([]dto.CommentView, len(comments))
	for i, c := range comments {
		name := ""
		if u, ok := commenterMap[c.AuthorID]; ok {
			name = strings.TrimSpace(u.FirstName + " " + u.LastName)
		}
		views[i] = dto.CommentView{
			ID:         c.ID.String(),
			Content:    c.Content,
			Location:   c.Location,
			Latitude:   c.Latitude,
			Longitude:  c.Longitude,
			AuthorID:   c.AuthorID.String(),
			AuthorName: name,
			CreatedAt:  c.CreatedAt,
		}
	}

	return &dto.ReportDetail{
		Report:   *report,
		Author:   authorSummary(report, author),
		Comments: views,
	}, nil
}

// UpdateStatus transitions a report's status. Resolving a previously
// unresolved report notifies its author.
func (s *ReportService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Report, error) {
	status = strings.ToUpper(status)
	switch status {
	case models.ReportActive, models.ReportResolved, models.ReportExpired:
	default:
		return nil, ErrInvalidStatus
	}

	existing, err := s.reports.FindReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	updated, err := s.reports.UpdateReportStatus(ctx, id, status, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if status == models.ReportResolved && existing.Status != models.ReportResolved {
		if author, err := s.users.FindUserByID(ctx, updated.AuthorID); err == nil {
			if err := s.notifier.NotifyReportResolved(ctx, updated, author); err != nil {
				slog.Error("report resolved notification failed", "report_id", id.String(), "error", err)
			}
		}
	}

	return updated, nil
}

// ExpandRadius performs a manual, admin-driven expansion with recorded
// provenance and reason, then triggers the same fan-out as the scheduler.
func (s *ReportService) ExpandRadius(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.ExpandRadiusRequest) (*models.Report, error) {
	report, err := s.reports.FindReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if report.Status != models.ReportActive {
		return nil, ErrReportNotActive
	}
	if req.Radius <= report.CurrentRadius {
		return nil, ErrRadiusNotWider
	}

	now := time.Now().UTC()
	reason := strings.TrimSpace(req.Reason)
	entry := models.RadiusExpansion{
		Radius:     req.Radius,
		ExpandedAt: now,
		ExpandedBy: models.ExpandedByAdmin,
	}
	if reason != "" {
		entry.Reason = &reason
	}

	if err := s.reports.UpdateReportRadius(ctx, id, entry); err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyRadiusExpansion(ctx, report, req.Radius); err != nil {
		slog.Error("manual radius expansion notification failed", "report_id", id.String(), "error", err)
	}

	entityID := id.String()
	appendAudit(s.db, actor.ID, "EXPAND_RADIUS", models.AuditEntityReport, &entityID, map[string]interface{}{
		"radius": req.Radius,
		"reason": reason,
	})

	return s.reports.FindReportByID(ctx, id)
}

// ReportAbuse files an abuse flag against a report and audit-logs it.
func (s *ReportService) ReportAbuse(ctx context.Context, reporterID uuid.UUID, reportID uuid.UUID, req *dto.ReportAbuseRequest) error {
	if strings.TrimSpace(req.Reason) == "" {
		return errors.New("reason is required")
	}

	if _, err := s.reports.FindReportByID(ctx, reportID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrReportNotFound
		}
		return err
	}

	abuse := models.AbuseReport{
		ID:         uuid.New(),
		ReportID:   reportID,
		ReporterID: reporterID,
		Reason:     req.Reason,
		Details:    req.Details,
		Status:     models.AbuseOpen,
	}
	if err := s.db.WithContext(ctx).Create(&abuse).Error; err != nil {
		return fmt.Errorf("failed to file abuse report: %w", err)
	}

	entityID := reportID.String()
	appendAudit(s.db, reporterID, "REPORT_ABUSE", models.AuditEntityReport, &entityID, map[string]interface{}{
		"reason":  req.Reason,
		"details": req.Details,
	})
	return nil
}

func authorSummary(report *models.Report, author *models.User) dto.AuthorSummary {
	if author != nil {
		return dto.AuthorSummary{
			ID:        author.ID.String(),
			FirstName: author.FirstName,
			LastName:  author.LastName,
			UserType:  author.UserType,
			City:      author.City,
			State:     author.State,
		}
	}
	// Author row may be gone; fall back to the denormalized fields.
	return dto.AuthorSummary{
		ID:        report.AuthorID.String(),
		FirstName: report.AuthorName,
		UserType:  report.AuthorType,
		City:      report.City,
		State:     report.State,
	}
}
