package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"cleansweep/internal/model"
)

// ReportRepository defines report persistence operations. It enforces storage
// constraints only; business rules live in the report service.
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	// List returns all reports newest first. With withOwner set, each report's
	// Owner is resolved from the users collection.
	List(ctx context.Context, withOwner bool) ([]model.Report, error)
	CountByType(ctx context.Context) (map[model.ReportType]int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func applyReportDefaults(report *model.Report) {
	if report.ID == "" {
		report.ID = newID()
	}
	if report.Severity == "" {
		report.Severity = model.SeverityNotSpecified
	}
	if report.Status == "" {
		report.Status = model.StatusReported
	}
	report.CreatedAt = now()
}

// Create inserts a report, filling id, defaults and the creation timestamp.
func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	applyReportDefaults(report)
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("create report: %w", translateGormError(err))
	}
	return nil
}

// List lists reports newest first.
func (r *reportRepository) List(ctx context.Context, withOwner bool) ([]model.Report, error) {
	reports := []model.Report{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	if !withOwner || len(reports) == 0 {
		return reports, nil
	}

	ids := make([]string, 0, len(reports))
	seen := make(map[string]bool, len(reports))
	for _, rep := range reports {
		if !seen[rep.UserID] {
			seen[rep.UserID] = true
			ids = append(ids, rep.UserID)
		}
	}

	var owners []model.Owner
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("id", "name", "email").
		Where("id IN ?", ids).
		Find(&owners).Error; err != nil {
		return nil, fmt.Errorf("resolve report owners: %w", err)
	}
	byID := make(map[string]model.Owner, len(owners))
	for _, o := range owners {
		byID[o.ID] = o
	}
	for i := range reports {
		if o, ok := byID[reports[i].UserID]; ok {
			reports[i].Owner = &o
		}
	}
	return reports, nil
}

// CountByType counts reports per type.
func (r *reportRepository) CountByType(ctx context.Context) (map[model.ReportType]int64, error) {
	var rows []struct {
		Type  model.ReportType
		Count int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Report{}).
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	counts := map[model.ReportType]int64{model.ReportTypeReport: 0, model.ReportTypeCleanup: 0}
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}
