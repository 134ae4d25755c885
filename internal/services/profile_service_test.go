package services

import (
	"testing"

	"agri_market/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_SupplierLookupAndCreate(t *testing.T) {
	f := newFixture(t)
	user := f.user(models.RoleSupplier, nil, nil)
	service := NewProfileService(f.repos, f.dispatcher)

	_, found, err := service.FindSupplierProfile(f.ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, found, "lookup never creates")

	profile, created, err := service.GetOrCreateSupplierProfile(f.ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, user.Username+"'s Business", profile.BusinessName)
	assert.Equal(t, user.Username, profile.OwnerName)
	assert.Equal(t, "Please update your business profile", profile.Description)

	again, created, err := service.GetOrCreateSupplierProfile(f.ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, profile.ID, again.ID)

	found2, found, err := service.FindSupplierProfile(f.ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, user.ID, found2.User.ID)
}

func TestProfileService_FarmerLookupAndCreate(t *testing.T) {
	f := newFixture(t)
	user := f.user(models.RoleFarmer, nil, nil)
	service := NewProfileService(f.repos, f.dispatcher)

	profile, created, err := service.GetOrCreateFarmerProfile(f.ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, user.Username+"'s Farm", profile.FarmName)

	_, found, err := service.FindFarmerProfile(f.ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found)

	_, _, err = service.GetOrCreateFarmerProfile(f.ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileService_UpdateLocation(t *testing.T) {
	f := newFixture(t)
	user := f.user(models.RoleSupplier, nil, nil)
	service := NewProfileService(f.repos, f.dispatcher)

	updated, err := service.UpdateLocation(f.ctx, user.ID, LocationInput{
		Latitude: ptr(bangaloreLat), Longitude: ptr(bangaloreLon), Address: "MG Road, Bengaluru",
	})
	require.NoError(t, err)
	lat, lon, ok := updated.Location()
	require.True(t, ok)
	assert.Equal(t, bangaloreLat, lat)
	assert.Equal(t, bangaloreLon, lon)
	assert.Equal(t, "MG Road, Bengaluru", updated.Address)
	assert.Equal(t, int64(1), f.cache.generation)

	_, err = service.UpdateLocation(f.ctx, user.ID, LocationInput{Latitude: ptr(95), Longitude: ptr(0)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.UpdateLocation(f.ctx, user.ID, LocationInput{Latitude: ptr(10)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.UpdateLocation(f.ctx, 404, LocationInput{Latitude: ptr(10), Longitude: ptr(10)})
	assert.ErrorIs(t, err, ErrNotFound)
}
