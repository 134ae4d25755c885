package repository

import (
	"context"

	"agri_market/internal/models"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Order, error)
	GetBySellerID(ctx context.Context, sellerID uint) ([]models.Order, error)
	GetByCustomerID(ctx context.Context, customerID uint) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Product", "Produce").Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetForUpdate(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := forUpdate(r.db.WithContext(ctx)).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetBySellerID lists product and produce orders sold by the user.
func (r *orderRepository) GetBySellerID(ctx context.Context, sellerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).Order("created_at DESC, id DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetByCustomerID(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("created_at DESC, id DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Product", "Produce").Save(order).Error
}
