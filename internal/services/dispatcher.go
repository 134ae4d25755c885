package services

import (
	"context"
	"log"

	"agri_market/internal/events"
	"agri_market/internal/models"
)

// outbox collects what a transaction wants announced once it has committed.
type outbox struct {
	events            []events.Event
	notifications     []models.Notification
	invalidateCatalog bool
}

func (o *outbox) event(eventType, key string, payload interface{}) {
	o.events = append(o.events, events.NewEvent(eventType, key, payload))
}

func (o *outbox) notify(userID uint, kind models.NotificationType, title, message, related string) {
	o.notifications = append(o.notifications, models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		NotificationType: string(kind),
		RelatedObjectID:  related,
	})
}

// Dispatcher performs the post-commit side effects of an outbox. Every step
// is best-effort: failures are logged and never undo the committed change.
type Dispatcher struct {
	publisher     events.Publisher
	notifications NotificationService
	cache         SearchCache
}

func NewDispatcher(publisher events.Publisher, notifications NotificationService, cache SearchCache) *Dispatcher {
	return &Dispatcher{publisher: publisher, notifications: notifications, cache: cache}
}

func (d *Dispatcher) dispatch(ctx context.Context, o *outbox) {
	if d == nil || o == nil {
		return
	}

	if o.invalidateCatalog && d.cache != nil {
		if err := d.cache.Invalidate(ctx); err != nil {
			log.Printf("Warning: failed to invalidate search cache: %v", err)
		}
	}

	if d.notifications != nil {
		for i := range o.notifications {
			if err := d.notifications.Notify(ctx, &o.notifications[i]); err != nil {
				log.Printf("Warning: failed to store notification for user %d: %v", o.notifications[i].UserID, err)
			}
		}
	}

	if d.publisher != nil {
		for _, event := range o.events {
			if err := d.publisher.Publish(ctx, event); err != nil {
				log.Printf("Warning: failed to publish %s event %s: %v", event.Type, event.ID, err)
			}
		}
	}
}
