package repository

import (
	"context"

	"gorm.io/gorm"

	"clinicbook/internal/model"
)

// NotificationLogRepository defines notification log persistence operations.
type NotificationLogRepository interface {
	Create(ctx context.Context, entry *model.NotificationLog) error
	CreateBatch(ctx context.Context, entries []model.NotificationLog) error
	ListRecent(ctx context.Context, limit int) ([]model.NotificationLog, error)
}

type notificationLogRepository struct {
	db *gorm.DB
}

// NewNotificationLogRepository creates a new notification log repository.
func NewNotificationLogRepository(db *gorm.DB) NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

// Create inserts a single log entry.
func (r *notificationLogRepository) Create(ctx context.Context, entry *model.NotificationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateBatch inserts multiple log entries at once.
func (r *notificationLogRepository) CreateBatch(ctx context.Context, entries []model.NotificationLog) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

// ListRecent returns the newest log entries.
func (r *notificationLogRepository) ListRecent(ctx context.Context, limit int) ([]model.NotificationLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []model.NotificationLog
	if err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
