package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/findin/findin-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportStore is the durable collection of reports.
type ReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

func (s *ReportStore) FindActiveReports(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	if err := s.db.WithContext(ctx).Where("status = ?", models.ReportActive).Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *ReportStore) FindReportByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (s *ReportStore) InsertReport(ctx context.Context, report *models.Report) error {
	return s.db.WithContext(ctx).Create(report).Error
}

func (s *ReportStore) ListReports(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// UpdateReportRadius widens the report's radius and appends the matching
// history entry in a single UPDATE, so radius, last_radius_expand and
// radius_history can never drift apart.
func (s *ReportStore) UpdateReportRadius(ctx context.Context, id uuid.UUID, entry models.RadiusExpansion) error {
	entryJSON, err := json.Marshal([]models.RadiusExpansion{entry})
	if err != nil {
		return fmt.Errorf("marshal radius history entry: %w", err)
	}

	result := s.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_radius":     entry.Radius,
			"last_radius_expand": entry.ExpandedAt,
			"updated_at":         entry.ExpandedAt,
			"radius_history":     gorm.Expr("COALESCE(radius_history, '[]'::jsonb) || ?::jsonb", string(entryJSON)),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateReportStatus transitions the report's status. ResolvedAt is stamped
// the first time the report becomes RESOLVED and kept on later transitions.
func (s *ReportStore) UpdateReportStatus(ctx context.Context, id uuid.UUID, status string, now time.Time) (*models.Report, error) {
	report, err := s.FindReportByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	if status == models.ReportResolved && report.ResolvedAt == nil {
		updates["resolved_at"] = now
	}

	if err := s.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.FindReportByID(ctx, id)
}
