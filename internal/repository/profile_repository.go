package repository

import (
	"context"
	"errors"

	"agri_market/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProfileRepository gives explicit profile lookups: the Find methods report
// absence through found=false instead of an error.
type ProfileRepository interface {
	FindSupplierByUserID(ctx context.Context, userID uint) (*models.SupplierProfile, bool, error)
	FindFarmerByUserID(ctx context.Context, userID uint) (*models.FarmerProfile, bool, error)
	GetSupplierByID(ctx context.Context, id uint) (*models.SupplierProfile, error)
	GetSupplierForUpdate(ctx context.Context, id uint) (*models.SupplierProfile, error)
	GetFarmerByID(ctx context.Context, id uint) (*models.FarmerProfile, error)
	CreateSupplier(ctx context.Context, profile *models.SupplierProfile) error
	CreateFarmer(ctx context.Context, profile *models.FarmerProfile) error
	UpdateSupplierRating(ctx context.Context, id uint, rating decimal.Decimal, totalReviews int) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindSupplierByUserID(ctx context.Context, userID uint) (*models.SupplierProfile, bool, error) {
	var profile models.SupplierProfile
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &profile, true, nil
}

func (r *profileRepository) FindFarmerByUserID(ctx context.Context, userID uint) (*models.FarmerProfile, bool, error) {
	var profile models.FarmerProfile
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &profile, true, nil
}

func (r *profileRepository) GetSupplierByID(ctx context.Context, id uint) (*models.SupplierProfile, error) {
	var profile models.SupplierProfile
	err := r.db.WithContext(ctx).First(&profile, id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetSupplierForUpdate(ctx context.Context, id uint) (*models.SupplierProfile, error) {
	var profile models.SupplierProfile
	err := forUpdate(r.db.WithContext(ctx)).First(&profile, id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetFarmerByID(ctx context.Context, id uint) (*models.FarmerProfile, error) {
	var profile models.FarmerProfile
	err := r.db.WithContext(ctx).First(&profile, id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) CreateSupplier(ctx context.Context, profile *models.SupplierProfile) error {
	return r.db.WithContext(ctx).Omit("User").Create(profile).Error
}

func (r *profileRepository) CreateFarmer(ctx context.Context, profile *models.FarmerProfile) error {
	return r.db.WithContext(ctx).Omit("User").Create(profile).Error
}

func (r *profileRepository) UpdateSupplierRating(ctx context.Context, id uint, rating decimal.Decimal, totalReviews int) error {
	return r.db.WithContext(ctx).Model(&models.SupplierProfile{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating":        rating,
		"total_reviews": totalReviews,
	}).Error
}
