package repository

import (
	"context"

	"github.com/Shakeel7G/clock-it/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Notification, error)
}

type notificationRepo struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Notification, error) {
	var notes []model.Notification
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}
