package repository

import (
	"context"

	"agri_market/internal/models"

	"gorm.io/gorm"
)

type RentalRepository interface {
	Create(ctx context.Context, rental *models.Rental) error
	GetByID(ctx context.Context, id uint) (*models.Rental, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Rental, error)
	GetBySupplierID(ctx context.Context, supplierID uint) ([]models.Rental, error)
	GetByCustomerID(ctx context.Context, customerID uint) ([]models.Rental, error)
	Update(ctx context.Context, rental *models.Rental) error
}

type rentalRepository struct {
	db *gorm.DB
}

func NewRentalRepository(db *gorm.DB) RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rental *models.Rental) error {
	return r.db.WithContext(ctx).Omit("Equipment").Create(rental).Error
}

func (r *rentalRepository) GetByID(ctx context.Context, id uint) (*models.Rental, error) {
	var rental models.Rental
	err := r.db.WithContext(ctx).First(&rental, id).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *rentalRepository) GetForUpdate(ctx context.Context, id uint) (*models.Rental, error) {
	var rental models.Rental
	err := forUpdate(r.db.WithContext(ctx)).First(&rental, id).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *rentalRepository) GetBySupplierID(ctx context.Context, supplierID uint) ([]models.Rental, error) {
	var rentals []models.Rental
	err := r.db.WithContext(ctx).Where("supplier_id = ?", supplierID).Order("created_at DESC, id DESC").Find(&rentals).Error
	return rentals, err
}

func (r *rentalRepository) GetByCustomerID(ctx context.Context, customerID uint) ([]models.Rental, error) {
	var rentals []models.Rental
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("created_at DESC, id DESC").Find(&rentals).Error
	return rentals, err
}

// Update saves status, payment and timestamp fields. Dates and the derived
// duration are never rewritten after creation.
func (r *rentalRepository) Update(ctx context.Context, rental *models.Rental) error {
	return r.db.WithContext(ctx).Model(&models.Rental{}).Where("id = ?", rental.ID).Updates(map[string]interface{}{
		"status":         rental.Status,
		"payment_status": rental.PaymentStatus,
		"confirmed_at":   rental.ConfirmedAt,
		"started_at":     rental.StartedAt,
		"completed_at":   rental.CompletedAt,
	}).Error
}
