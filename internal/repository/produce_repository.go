package repository

import (
	"context"

	"agri_market/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProduceRepository interface {
	Create(ctx context.Context, produce *models.FarmProduce) error
	GetByID(ctx context.Context, id uint) (*models.FarmProduce, error)
	GetForUpdate(ctx context.Context, id uint) (*models.FarmProduce, error)
	GetByFarmerID(ctx context.Context, farmerID uint) ([]models.FarmProduce, error)
	UpdateQuantity(ctx context.Context, id uint, quantity decimal.Decimal) error
}

type produceRepository struct {
	db *gorm.DB
}

func NewProduceRepository(db *gorm.DB) ProduceRepository {
	return &produceRepository{db: db}
}

func (r *produceRepository) Create(ctx context.Context, produce *models.FarmProduce) error {
	return r.db.WithContext(ctx).Omit("Farmer").Create(produce).Error
}

func (r *produceRepository) GetByID(ctx context.Context, id uint) (*models.FarmProduce, error) {
	var produce models.FarmProduce
	err := r.db.WithContext(ctx).First(&produce, id).Error
	if err != nil {
		return nil, err
	}
	return &produce, nil
}

// GetForUpdate reads the produce row and holds its lock until the
// surrounding transaction ends.
func (r *produceRepository) GetForUpdate(ctx context.Context, id uint) (*models.FarmProduce, error) {
	var produce models.FarmProduce
	err := forUpdate(r.db.WithContext(ctx)).First(&produce, id).Error
	if err != nil {
		return nil, err
	}
	return &produce, nil
}

func (r *produceRepository) GetByFarmerID(ctx context.Context, farmerID uint) ([]models.FarmProduce, error) {
	var produce []models.FarmProduce
	err := r.db.WithContext(ctx).Where("farmer_id = ?", farmerID).Order("id").Find(&produce).Error
	return produce, err
}

func (r *produceRepository) UpdateQuantity(ctx context.Context, id uint, quantity decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&models.FarmProduce{}).Where("id = ?", id).Update("available_quantity", quantity).Error
}
