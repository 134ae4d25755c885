package services

import (
	"regexp"
	"testing"

	"agri_market/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rentalSetup struct {
	*fixture
	service   RentalService
	seller    *models.User
	renter    *models.User
	equipment *models.Equipment
}

func newRentalSetup(t *testing.T) *rentalSetup {
	f := newFixture(t)
	seller, supplier := f.supplier(ptr(bangaloreLat), ptr(bangaloreLon))
	return &rentalSetup{
		fixture:   f,
		service:   NewRentalService(f.repos, f.dispatcher),
		seller:    seller,
		renter:    f.user(models.RoleFarmer, nil, nil),
		equipment: f.equipment(supplier.ID, "Mahindra 575", "1500.00"),
	}
}

func (s *rentalSetup) rental(start, end string) *models.Rental {
	s.t.Helper()
	rental, err := s.service.CreateRental(s.ctx, s.actor(s.renter), CreateRentalInput{
		EquipmentID: s.equipment.ID, StartDate: start, EndDate: end,
	})
	require.NoError(s.t, err)
	return rental
}

func (s *rentalSetup) move(rental *models.Rental, status string) (*models.Rental, error) {
	return s.service.UpdateStatus(s.ctx, rental.ID, status, s.actor(s.seller))
}

func (s *rentalSetup) equipmentState() *models.Equipment {
	s.t.Helper()
	equipment, err := s.repos.Equipment.GetByID(s.ctx, s.equipment.ID)
	require.NoError(s.t, err)
	return equipment
}

func TestRentalService_CreateRental(t *testing.T) {
	s := newRentalSetup(t)

	rental := s.rental("2024-01-01", "2024-01-05")

	assert.Regexp(t, regexp.MustCompile(`^RNT-\d{8}-[0-9A-F]{8}$`), rental.RentalNumber)
	assert.Equal(t, 5, rental.RentalDurationDays)
	assert.True(t, rental.TotalAmount.Equal(decimal.RequireFromString("7500")))
	assert.Equal(t, "pending", rental.Status)

	stored, err := s.repos.Rentals.GetByID(s.ctx, rental.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.RentalDurationDays)
}

func TestRentalService_CreateRental_Invalid(t *testing.T) {
	s := newRentalSetup(t)

	tests := []struct {
		name    string
		input   CreateRentalInput
		wantErr error
	}{
		{"bad start date", CreateRentalInput{EquipmentID: s.equipment.ID, StartDate: "01/01/2024", EndDate: "2024-01-05"}, ErrInvalidInput},
		{"end before start", CreateRentalInput{EquipmentID: s.equipment.ID, StartDate: "2024-01-05", EndDate: "2024-01-01"}, ErrInvalidInput},
		{"missing equipment", CreateRentalInput{EquipmentID: 404, StartDate: "2024-01-01", EndDate: "2024-01-01"}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.service.CreateRental(s.ctx, s.actor(s.renter), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := s.service.CreateRental(s.ctx, s.actor(s.seller), CreateRentalInput{
		EquipmentID: s.equipment.ID, StartDate: "2024-01-01", EndDate: "2024-01-01",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, s.repos.Equipment.UpdateStatus(s.ctx, s.equipment.ID, models.EquipmentMaintenance))
	_, err = s.service.CreateRental(s.ctx, s.actor(s.renter), CreateRentalInput{
		EquipmentID: s.equipment.ID, StartDate: "2024-01-01", EndDate: "2024-01-01",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRentalService_Lifecycle(t *testing.T) {
	s := newRentalSetup(t)
	rental := s.rental("2024-03-01", "2024-03-03")

	confirmed, err := s.move(rental, "confirmed")
	require.NoError(t, err)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.Equal(t, "available", s.equipmentState().Status)

	active, err := s.move(rental, "active")
	require.NoError(t, err)
	require.NotNil(t, active.StartedAt)
	assert.Equal(t, "rented", s.equipmentState().Status)

	completed, err := s.move(rental, "completed")
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)

	equipment := s.equipmentState()
	assert.Equal(t, "available", equipment.Status)
	assert.Equal(t, 1, equipment.TotalRentals)

	stored, err := s.repos.Rentals.GetByID(s.ctx, rental.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", stored.Status)
	assert.Equal(t, 3, stored.RentalDurationDays)

	credits, err := s.repos.Financial.GetTransactionsByUser(s.ctx, s.seller.ID)
	require.NoError(t, err)
	require.Len(t, credits, 1)
	assert.True(t, credits[0].Amount.Equal(decimal.RequireFromString("4500")))
	require.NotNil(t, credits[0].RentalID)
	assert.Equal(t, rental.ID, *credits[0].RentalID)
}

func TestRentalService_ActivateRentedEquipment(t *testing.T) {
	s := newRentalSetup(t)
	first := s.rental("2024-03-01", "2024-03-03")
	second := s.rental("2024-03-02", "2024-03-04")

	for _, r := range []*models.Rental{first, second} {
		_, err := s.move(r, "confirmed")
		require.NoError(t, err)
	}
	_, err := s.move(first, "active")
	require.NoError(t, err)

	_, err = s.move(second, "active")
	assert.ErrorIs(t, err, ErrConflict)

	stored, err := s.repos.Rentals.GetByID(s.ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", stored.Status)
	assert.Nil(t, stored.StartedAt)
}

func TestRentalService_CancelReleasesEquipment(t *testing.T) {
	s := newRentalSetup(t)
	rental := s.rental("2024-03-01", "2024-03-03")
	require.NoError(t, s.repos.Equipment.UpdateStatus(s.ctx, s.equipment.ID, models.EquipmentRented))

	_, err := s.service.UpdateStatus(s.ctx, rental.ID, "cancelled", s.actor(s.renter))
	require.NoError(t, err)

	assert.Equal(t, "available", s.equipmentState().Status)
	assert.Equal(t, 0, s.equipmentState().TotalRentals)
}

func TestRentalService_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		path    []string
		next    string
		wantErr error
	}{
		{"unknown status", nil, "returned", ErrInvalidStatus},
		{"pending to active", nil, "active", ErrInvalidTransition},
		{"pending to completed", nil, "completed", ErrInvalidTransition},
		{"active to cancelled", []string{"confirmed", "active"}, "cancelled", ErrInvalidTransition},
		{"completed is terminal", []string{"confirmed", "active", "completed"}, "active", ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newRentalSetup(t)
			rental := s.rental("2024-03-01", "2024-03-01")
			for _, status := range tt.path {
				_, err := s.move(rental, status)
				require.NoError(t, err)
			}
			_, err := s.move(rental, tt.next)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRentalService_Permissions(t *testing.T) {
	s := newRentalSetup(t)
	rental := s.rental("2024-03-01", "2024-03-01")
	stranger := s.user(models.RoleConsumer, nil, nil)

	_, err := s.service.UpdateStatus(s.ctx, rental.ID, "confirmed", s.actor(s.renter))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.service.GetRental(s.ctx, rental.ID, s.actor(stranger))
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := s.service.GetRental(s.ctx, rental.ID, s.actor(s.seller))
	require.NoError(t, err)
	assert.Equal(t, rental.RentalNumber, got.RentalNumber)

	mine, err := s.service.ListRentals(s.ctx, s.actor(s.renter), false)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
