package repository

import (
	"context"

	"agri_market/internal/models"

	"gorm.io/gorm"
)

// StockLogRepository is append-only: there is no update or delete.
type StockLogRepository interface {
	Create(ctx context.Context, entry *models.StockLog) error
	GetByProductID(ctx context.Context, productID uint) ([]models.StockLog, error)
	CreateProduceLog(ctx context.Context, entry *models.ProduceLog) error
	GetByProduceID(ctx context.Context, produceID uint) ([]models.ProduceLog, error)
}

type stockLogRepository struct {
	db *gorm.DB
}

func NewStockLogRepository(db *gorm.DB) StockLogRepository {
	return &stockLogRepository{db: db}
}

func (r *stockLogRepository) Create(ctx context.Context, entry *models.StockLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *stockLogRepository) GetByProductID(ctx context.Context, productID uint) ([]models.StockLog, error) {
	var entries []models.StockLog
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id").Find(&entries).Error
	return entries, err
}

func (r *stockLogRepository) CreateProduceLog(ctx context.Context, entry *models.ProduceLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *stockLogRepository) GetByProduceID(ctx context.Context, produceID uint) ([]models.ProduceLog, error) {
	var entries []models.ProduceLog
	err := r.db.WithContext(ctx).Where("produce_id = ?", produceID).Order("id").Find(&entries).Error
	return entries, err
}
