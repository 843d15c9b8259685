package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"cleansweep/internal/model"
)

// ActivityRepository defines audit log persistence operations.
type ActivityRepository interface {
	CreateBatch(ctx context.Context, logs []model.ActivityLog) error
	Recent(ctx context.Context, limit int) ([]model.ActivityLog, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity log repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// CreateBatch creates multiple log entries in batches of 100.
func (r *activityRepository) CreateBatch(ctx context.Context, logs []model.ActivityLog) error {
	if len(logs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&logs, 100).Error; err != nil {
		return fmt.Errorf("create activity logs: %w", err)
	}
	return nil
}

// Recent returns the newest entries first.
func (r *activityRepository) Recent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	logs := []model.ActivityLog{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return logs, nil
}
