package repository

import (
	"context"

	"agri_market/internal/models"

	"gorm.io/gorm"
)

type EquipmentRepository interface {
	Create(ctx context.Context, equipment *models.Equipment) error
	GetByID(ctx context.Context, id uint) (*models.Equipment, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Equipment, error)
	GetBySupplierID(ctx context.Context, supplierID uint) ([]models.Equipment, error)
	UpdateStatus(ctx context.Context, id uint, status models.EquipmentStatus) error
	IncrementRentals(ctx context.Context, id uint) error
}

type equipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) EquipmentRepository {
	return &equipmentRepository{db: db}
}

func (r *equipmentRepository) Create(ctx context.Context, equipment *models.Equipment) error {
	return r.db.WithContext(ctx).Omit("Supplier").Create(equipment).Error
}

func (r *equipmentRepository) GetByID(ctx context.Context, id uint) (*models.Equipment, error) {
	var equipment models.Equipment
	err := r.db.WithContext(ctx).First(&equipment, id).Error
	if err != nil {
		return nil, err
	}
	return &equipment, nil
}

func (r *equipmentRepository) GetForUpdate(ctx context.Context, id uint) (*models.Equipment, error) {
	var equipment models.Equipment
	err := forUpdate(r.db.WithContext(ctx)).First(&equipment, id).Error
	if err != nil {
		return nil, err
	}
	return &equipment, nil
}

func (r *equipmentRepository) GetBySupplierID(ctx context.Context, supplierID uint) ([]models.Equipment, error) {
	var equipment []models.Equipment
	err := r.db.WithContext(ctx).Where("supplier_id = ?", supplierID).Order("id").Find(&equipment).Error
	return equipment, err
}

func (r *equipmentRepository) UpdateStatus(ctx context.Context, id uint, status models.EquipmentStatus) error {
	return r.db.WithContext(ctx).Model(&models.Equipment{}).Where("id = ?", id).Update("status", string(status)).Error
}

func (r *equipmentRepository) IncrementRentals(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Equipment{}).Where("id = ?", id).
		Update("total_rentals", gorm.Expr("total_rentals + ?", 1)).Error
}
