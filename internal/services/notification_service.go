package services

import (
	"context"
	"fmt"
	"log"

	"agri_market/internal/models"
	"agri_market/internal/repository"
)

// MessageSender delivers a text to a phone number. *whatsapp.Client
// implements it.
type MessageSender interface {
	SendTextMessage(ctx context.Context, phone, message string) error
}

type NotificationService interface {
	Notify(ctx context.Context, notification *models.Notification) error
	GetNotifications(ctx context.Context, actor Actor, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id uint, actor Actor) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	sender           MessageSender
}

// NewNotificationService stores notifications and, when sender is not nil,
// pushes each one to the user's WhatsApp number.
func NewNotificationService(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository, sender MessageSender) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		sender:           sender,
	}
}

func (s *notificationService) Notify(ctx context.Context, notification *models.Notification) error {
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}
	if s.sender == nil {
		return nil
	}

	user, err := s.userRepo.GetByID(ctx, notification.UserID)
	if err != nil || user.PhoneNumber == "" {
		return nil
	}

	message := fmt.Sprintf("*%s*\n%s", notification.Title, notification.Message)
	if err := s.sender.SendTextMessage(ctx, user.PhoneNumber, message); err != nil {
		log.Printf("Warning: failed to send WhatsApp notification %d: %v", notification.ID, err)
		return nil
	}

	if err := s.notificationRepo.MarkWhatsAppSent(ctx, notification.ID); err != nil {
		log.Printf("Warning: failed to mark notification %d as sent: %v", notification.ID, err)
		return nil
	}
	notification.WhatsAppSent = true
	return nil
}

func (s *notificationService) GetNotifications(ctx context.Context, actor Actor, unreadOnly bool) ([]models.Notification, error) {
	return s.notificationRepo.GetByUserID(ctx, actor.UserID, unreadOnly)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id uint, actor Actor) error {
	updated, err := s.notificationRepo.MarkAsRead(ctx, id, actor.UserID)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("%w: notification %d", ErrNotFound, id)
	}
	return nil
}
