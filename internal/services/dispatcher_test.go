package services

import (
	"context"
	"testing"

	"agri_market/internal/events"
	"agri_market/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_Dispatch(t *testing.T) {
	f := newFixture(t)
	user := f.user(models.RoleConsumer, nil, nil)

	var out outbox
	out.invalidateCatalog = true
	out.notify(user.ID, models.NotifySystem, "Welcome", "Hello", "")
	out.event(events.ReviewCreated, "supplier-1", nil)

	f.dispatcher.dispatch(f.ctx, &out)

	assert.Equal(t, int64(1), f.cache.generation)
	assert.Equal(t, []string{events.ReviewCreated}, f.publisher.types())
	stored, err := f.repos.Notifications.GetByUserID(f.ctx, user.ID, false)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestDispatcher_NilIsSafe(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() { d.dispatch(context.Background(), &outbox{invalidateCatalog: true}) })

	empty := NewDispatcher(nil, nil, nil)
	assert.NotPanics(t, func() { empty.dispatch(context.Background(), &outbox{invalidateCatalog: true}) })
}
