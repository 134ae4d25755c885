package repository

import (
	"context"

	"agri_market/internal/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	CreateSupplierReview(ctx context.Context, review *models.SupplierReview) error
	CreateProductReview(ctx context.Context, review *models.ProductReview) error
	SupplierReviewExists(ctx context.Context, supplierID, reviewerID uint) (bool, error)
	ProductReviewExists(ctx context.Context, productID, reviewerID uint) (bool, error)
	SupplierRatings(ctx context.Context, supplierID uint) ([]int, error)
	ProductRatings(ctx context.Context, productID uint) ([]int, error)
	GetBySupplierID(ctx context.Context, supplierID uint) ([]models.SupplierReview, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) CreateSupplierReview(ctx context.Context, review *models.SupplierReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) CreateProductReview(ctx context.Context, review *models.ProductReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) SupplierReviewExists(ctx context.Context, supplierID, reviewerID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SupplierReview{}).
		Where("supplier_id = ? AND reviewer_id = ?", supplierID, reviewerID).Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) ProductReviewExists(ctx context.Context, productID, reviewerID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductReview{}).
		Where("product_id = ? AND reviewer_id = ?", productID, reviewerID).Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) SupplierRatings(ctx context.Context, supplierID uint) ([]int, error) {
	var ratings []int
	err := r.db.WithContext(ctx).Model(&models.SupplierReview{}).
		Where("supplier_id = ?", supplierID).Pluck("rating", &ratings).Error
	return ratings, err
}

func (r *reviewRepository) ProductRatings(ctx context.Context, productID uint) ([]int, error) {
	var ratings []int
	err := r.db.WithContext(ctx).Model(&models.ProductReview{}).
		Where("product_id = ?", productID).Pluck("rating", &ratings).Error
	return ratings, err
}

func (r *reviewRepository) GetBySupplierID(ctx context.Context, supplierID uint) ([]models.SupplierReview, error) {
	var reviews []models.SupplierReview
	err := r.db.WithContext(ctx).Where("supplier_id = ?", supplierID).Order("created_at DESC, id DESC").Find(&reviews).Error
	return reviews, err
}
