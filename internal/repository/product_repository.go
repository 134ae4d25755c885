package repository

import (
	"context"

	"agri_market/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Product, error)
	GetBySupplierID(ctx context.Context, supplierID uint) ([]models.Product, error)
	UpdateStock(ctx context.Context, id uint, quantity int) error
	UpdateAvailability(ctx context.Context, id uint, isAvailable bool) error
	UpdateRating(ctx context.Context, id uint, rating decimal.Decimal, totalReviews int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Supplier").Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetForUpdate reads the product and holds its row lock until the
// surrounding transaction ends.
func (r *productRepository) GetForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := forUpdate(r.db.WithContext(ctx)).First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetBySupplierID(ctx context.Context, supplierID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Where("supplier_id = ?", supplierID).Order("created_at DESC, id DESC").Find(&products).Error
	return products, err
}

func (r *productRepository) UpdateStock(ctx context.Context, id uint, quantity int) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("stock_quantity", quantity).Error
}

func (r *productRepository) UpdateAvailability(ctx context.Context, id uint, isAvailable bool) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("is_available", isAvailable).Error
}

func (r *productRepository) UpdateRating(ctx context.Context, id uint, rating decimal.Decimal, totalReviews int) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating":        rating,
		"total_reviews": totalReviews,
	}).Error
}
