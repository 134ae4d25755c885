package repository

import (
	"context"

	"agri_market/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByUserID(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id, userID uint) (bool, error)
	MarkWhatsAppSent(ctx context.Context, id uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) GetByUserID(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	err := query.Order("created_at DESC, id DESC").Find(&notifications).Error
	return notifications, err
}

// MarkAsRead reports false when no notification with that id belongs to the user.
func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).Update("is_read", true)
	return result.RowsAffected > 0, result.Error
}

func (r *notificationRepository) MarkWhatsAppSent(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("whatsapp_sent", true).Error
}
