package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agri_market/internal/events"
	"agri_market/internal/models"
	"agri_market/internal/repository"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type RentalService interface {
	CreateRental(ctx context.Context, actor Actor, input CreateRentalInput) (*models.Rental, error)
	GetRental(ctx context.Context, id uint, actor Actor) (*models.Rental, error)
	ListRentals(ctx context.Context, actor Actor, asSeller bool) ([]models.Rental, error)
	UpdateStatus(ctx context.Context, id uint, status string, actor Actor) (*models.Rental, error)
}

type CreateRentalInput struct {
	EquipmentID uint   `json:"equipment_id" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Notes       string `json:"notes"`
}

type RentalStatusChangedPayload struct {
	RentalID     uint   `json:"rental_id"`
	RentalNumber string `json:"rental_number"`
	EquipmentID  uint   `json:"equipment_id"`
	From         string `json:"from"`
	To           string `json:"to"`
	ActorID      uint   `json:"actor_id"`
}

var rentalTransitions = map[models.RentalStatus][]models.RentalStatus{
	models.RentalPending:   {models.RentalConfirmed, models.RentalCancelled, models.RentalRejected},
	models.RentalConfirmed: {models.RentalActive, models.RentalCancelled, models.RentalRejected},
	models.RentalActive:    {models.RentalCompleted},
}

func canMoveRental(from, to models.RentalStatus) bool {
	for _, next := range rentalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type rentalService struct {
	repos      *repository.Repositories
	dispatcher *Dispatcher
	now        func() time.Time
}

func NewRentalService(repos *repository.Repositories, dispatcher *Dispatcher) RentalService {
	return &rentalService{repos: repos, dispatcher: dispatcher, now: time.Now}
}

// NewRentalNumber returns RNT-YYYYMMDD-XXXXXXXX.
func NewRentalNumber(now time.Time) string {
	return referenceNumber("RNT", now)
}

func (s *rentalService) CreateRental(ctx context.Context, actor Actor, input CreateRentalInput) (*models.Rental, error) {
	start, err := time.Parse(dateLayout, strings.TrimSpace(input.StartDate))
	if err != nil {
		return nil, fmt.Errorf("%w: start_date must be YYYY-MM-DD", ErrInvalidInput)
	}
	end, err := time.Parse(dateLayout, strings.TrimSpace(input.EndDate))
	if err != nil {
		return nil, fmt.Errorf("%w: end_date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrInvalidInput)
	}

	equipment, err := s.repos.Equipment.GetByID(ctx, input.EquipmentID)
	if err != nil {
		return nil, notFound(err, "equipment", input.EquipmentID)
	}
	if equipment.Status == string(models.EquipmentMaintenance) {
		return nil, fmt.Errorf("%w: equipment %d is under maintenance", ErrConflict, equipment.ID)
	}
	if profile, found, err := s.repos.Profiles.FindSupplierByUserID(ctx, actor.UserID); err != nil {
		return nil, err
	} else if found && profile.ID == equipment.SupplierID {
		return nil, fmt.Errorf("%w: cannot rent your own equipment", ErrForbidden)
	}

	days := models.RentalDays(start, end)
	rental := &models.Rental{
		RentalNumber:       NewRentalNumber(s.now()),
		SupplierID:         equipment.SupplierID,
		CustomerID:         actor.UserID,
		EquipmentID:        equipment.ID,
		StartDate:          start,
		EndDate:            end,
		RentalDurationDays: days,
		DailyRate:          equipment.DailyRate,
		TotalAmount:        equipment.DailyRate.Mul(decimal.NewFromInt(int64(days))),
		Status:             string(models.RentalPending),
		PaymentStatus:      string(models.PaymentPending),
		Notes:              input.Notes,
	}
	if err := s.repos.Rentals.Create(ctx, rental); err != nil {
		return nil, fmt.Errorf("failed to create rental: %w", err)
	}

	var out outbox
	if supplier, err := s.repos.Profiles.GetSupplierByID(ctx, rental.SupplierID); err == nil {
		out.notify(supplier.UserID, models.NotifyRental, "New rental request",
			fmt.Sprintf("Rental %s: %s from %s to %s", rental.RentalNumber, equipment.Name,
				start.Format(dateLayout), end.Format(dateLayout)), rental.RentalNumber)
	}
	out.event(events.RentalStatusChanged, rental.RentalNumber, RentalStatusChangedPayload{
		RentalID: rental.ID, RentalNumber: rental.RentalNumber, EquipmentID: rental.EquipmentID,
		To: rental.Status, ActorID: actor.UserID,
	})
	s.dispatcher.dispatch(ctx, &out)

	return rental, nil
}

func (s *rentalService) GetRental(ctx context.Context, id uint, actor Actor) (*models.Rental, error) {
	rental, err := s.repos.Rentals.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "rental", id)
	}
	if _, err := rentalParty(ctx, s.repos, rental, actor); err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *rentalService) ListRentals(ctx context.Context, actor Actor, asSeller bool) ([]models.Rental, error) {
	if !asSeller {
		return s.repos.Rentals.GetByCustomerID(ctx, actor.UserID)
	}

	profile, found, err := s.repos.Profiles.FindSupplierByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.Rental{}, nil
	}
	return s.repos.Rentals.GetBySupplierID(ctx, profile.ID)
}

// UpdateStatus moves a rental along its lifecycle and keeps the equipment
// status in step: active rents it out, completed and cancelled release it.
func (s *rentalService) UpdateStatus(ctx context.Context, id uint, status string, actor Actor) (*models.Rental, error) {
	next := models.RentalStatus(status)
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: %q is not a rental status", ErrInvalidStatus, status)
	}

	var out outbox
	var rental *models.Rental
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		rental, err = tx.Rentals.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "rental", id)
		}

		isSeller, err := rentalParty(ctx, tx, rental, actor)
		if err != nil {
			return err
		}
		if !isSeller && next != models.RentalCancelled {
			return fmt.Errorf("%w: renters may only cancel a rental", ErrForbidden)
		}

		current := models.RentalStatus(rental.Status)
		if current == next {
			return nil
		}
		if !canMoveRental(current, next) {
			return fmt.Errorf("%w: rental cannot move from %s to %s", ErrInvalidTransition, current, next)
		}

		now := s.now()
		switch next {
		case models.RentalConfirmed:
			if rental.ConfirmedAt == nil {
				rental.ConfirmedAt = &now
			}
		case models.RentalActive:
			equipment, err := tx.Equipment.GetForUpdate(ctx, rental.EquipmentID)
			if err != nil {
				return notFound(err, "equipment", rental.EquipmentID)
			}
			if equipment.Status != string(models.EquipmentAvailable) {
				return fmt.Errorf("%w: equipment %d is %s", ErrConflict, equipment.ID, equipment.Status)
			}
			if err := tx.Equipment.UpdateStatus(ctx, equipment.ID, models.EquipmentRented); err != nil {
				return fmt.Errorf("failed to update equipment: %w", err)
			}
			if rental.StartedAt == nil {
				rental.StartedAt = &now
			}
			out.invalidateCatalog = true
		case models.RentalCompleted:
			if err := s.releaseEquipment(ctx, tx, rental.EquipmentID); err != nil {
				return err
			}
			if err := tx.Equipment.IncrementRentals(ctx, rental.EquipmentID); err != nil {
				return fmt.Errorf("failed to update equipment: %w", err)
			}
			if rental.CompletedAt == nil {
				rental.CompletedAt = &now
			}
			rentalID := rental.ID
			err := creditSeller(ctx, tx, rental.SupplierID, rental.TotalAmount,
				fmt.Sprintf("Rental %s completed", rental.RentalNumber), rental.RentalNumber, nil, &rentalID)
			if err != nil {
				return err
			}
			out.invalidateCatalog = true
		case models.RentalCancelled:
			if err := s.releaseEquipment(ctx, tx, rental.EquipmentID); err != nil {
				return err
			}
			out.invalidateCatalog = true
		}

		rental.Status = string(next)
		if err := tx.Rentals.Update(ctx, rental); err != nil {
			return fmt.Errorf("failed to update rental: %w", err)
		}

		out.notify(rental.CustomerID, models.NotifyRental, "Rental update",
			fmt.Sprintf("Your rental %s is now %s", rental.RentalNumber, next), rental.RentalNumber)
		out.event(events.RentalStatusChanged, rental.RentalNumber, RentalStatusChangedPayload{
			RentalID: rental.ID, RentalNumber: rental.RentalNumber, EquipmentID: rental.EquipmentID,
			From: string(current), To: string(next), ActorID: actor.UserID,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.dispatch(ctx, &out)
	return rental, nil
}

func (s *rentalService) releaseEquipment(ctx context.Context, tx *repository.Repositories, equipmentID uint) error {
	if _, err := tx.Equipment.GetForUpdate(ctx, equipmentID); err != nil {
		return notFound(err, "equipment", equipmentID)
	}
	if err := tx.Equipment.UpdateStatus(ctx, equipmentID, models.EquipmentAvailable); err != nil {
		return fmt.Errorf("failed to update equipment: %w", err)
	}
	return nil
}

func rentalParty(ctx context.Context, repos *repository.Repositories, rental *models.Rental, actor Actor) (isSeller bool, err error) {
	profile, found, err := repos.Profiles.FindSupplierByUserID(ctx, actor.UserID)
	if err != nil {
		return false, err
	}
	isSeller = found && profile.ID == rental.SupplierID

	if !isSeller && rental.CustomerID != actor.UserID {
		return false, fmt.Errorf("%w: rental %d belongs to another user", ErrForbidden, rental.ID)
	}
	return isSeller, nil
}
