package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) ListAll(ctx context.Context) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Shipment").
		Order("date DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) ListUnreadByUser(ctx context.Context, userID uint) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.WithContext(ctx).
		Preload("Shipment").
		Where("user_id = ? AND viewed = ?", userID, false).
		Order("date DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uint) (*domain.Notification, error) {
	var notification domain.Notification
	err := r.db.WithContext(ctx).First(&notification, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// MarkViewed flips the viewed flag exactly once. The conditional guard
// rejects a second attempt even when it races the first.
func (r *NotificationRepository) MarkViewed(ctx context.Context, id uint) (*domain.Notification, error) {
	res := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("id = ? AND viewed = ?", id, false).
		Update("viewed", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrAlreadyViewed
	}
	return r.GetByID(ctx, id)
}
