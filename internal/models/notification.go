package models

import "time"

type Notification struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           uint      `json:"user_id" gorm:"not null;index"`
	Title            string    `json:"title" gorm:"not null"`
	Message          string    `json:"message" gorm:"type:text"`
	IsRead           bool      `json:"is_read" gorm:"default:false"`
	NotificationType string    `json:"notification_type" gorm:"default:'system'"` // order, rental, payment, review, system
	RelatedObjectID  string    `json:"related_object_id"`                         // e.g. ORD-20240101-1A2B3C4D
	WhatsAppSent     bool      `json:"whatsapp_sent" gorm:"column:whatsapp_sent;default:false"`
	CreatedAt        time.Time `json:"created_at"`
}

type NotificationType string

const (
	NotifyOrder   NotificationType = "order"
	NotifyRental  NotificationType = "rental"
	NotifyPayment NotificationType = "payment"
	NotifyReview  NotificationType = "review"
	NotifySystem  NotificationType = "system"
)
