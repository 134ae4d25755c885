package repository

import (
	"context"
	"fmt"

	"agri_market/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogRepository is the read side used by proximity search. It returns
// every active listing of a kind with its owner's location; distance
// filtering happens in the caller.
type CatalogRepository interface {
	ListActive(ctx context.Context, kind models.ListingKind, category string) ([]models.Listing, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListActive(ctx context.Context, kind models.ListingKind, category string) ([]models.Listing, error) {
	switch kind {
	case models.KindProduct:
		return r.listProducts(ctx, category)
	case models.KindEquipment:
		return r.listEquipment(ctx, category)
	case models.KindProduce:
		return r.listProduce(ctx, category)
	}
	return nil, fmt.Errorf("unknown listing kind %q", kind)
}

func (r *catalogRepository) listProducts(ctx context.Context, category string) ([]models.Listing, error) {
	query := r.db.WithContext(ctx).Preload("Supplier.User").Where("is_available = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var products []models.Product
	if err := query.Order("id").Find(&products).Error; err != nil {
		return nil, err
	}

	listings := make([]models.Listing, 0, len(products))
	for _, p := range products {
		listings = append(listings, models.Listing{
			ID:                p.ID,
			Kind:              models.KindProduct,
			OwnerID:           p.SupplierID,
			OwnerName:         p.Supplier.BusinessName,
			Name:              p.Name,
			Category:          p.Category,
			Price:             p.Price,
			Unit:              p.Unit,
			AvailableQuantity: decimal.NewFromInt(int64(p.StockQuantity)),
			IsAvailable:       p.IsAvailable,
			Latitude:          p.Supplier.User.Latitude,
			Longitude:         p.Supplier.User.Longitude,
			Address:           p.Supplier.User.Address,
		})
	}
	return listings, nil
}

func (r *catalogRepository) listEquipment(ctx context.Context, equipmentType string) ([]models.Listing, error) {
	query := r.db.WithContext(ctx).Preload("Supplier.User").Where("status = ?", string(models.EquipmentAvailable))
	if equipmentType != "" {
		query = query.Where("equipment_type = ?", equipmentType)
	}

	var equipment []models.Equipment
	if err := query.Order("id").Find(&equipment).Error; err != nil {
		return nil, err
	}

	listings := make([]models.Listing, 0, len(equipment))
	for _, e := range equipment {
		listings = append(listings, models.Listing{
			ID:                e.ID,
			Kind:              models.KindEquipment,
			OwnerID:           e.SupplierID,
			OwnerName:         e.Supplier.BusinessName,
			Name:              e.Name,
			Category:          e.EquipmentType,
			Price:             e.DailyRate,
			Unit:              "day",
			AvailableQuantity: decimal.NewFromInt(1),
			IsAvailable:       true,
			Latitude:          e.Supplier.User.Latitude,
			Longitude:         e.Supplier.User.Longitude,
			Address:           e.Supplier.User.Address,
		})
	}
	return listings, nil
}

func (r *catalogRepository) listProduce(ctx context.Context, category string) ([]models.Listing, error) {
	query := r.db.WithContext(ctx).Preload("Farmer.User").Where("is_available = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var produce []models.FarmProduce
	if err := query.Order("id").Find(&produce).Error; err != nil {
		return nil, err
	}

	listings := make([]models.Listing, 0, len(produce))
	for _, p := range produce {
		ownerName := p.Farmer.FarmName
		if ownerName == "" {
			ownerName = p.Farmer.User.Username
		}
		listings = append(listings, models.Listing{
			ID:                p.ID,
			Kind:              models.KindProduce,
			OwnerID:           p.FarmerID,
			OwnerName:         ownerName,
			Name:              p.Name,
			Category:          p.Category,
			Price:             p.PricePerUnit,
			Unit:              p.Unit,
			AvailableQuantity: p.AvailableQuantity,
			IsAvailable:       p.IsAvailable,
			Latitude:          p.Farmer.User.Latitude,
			Longitude:         p.Farmer.User.Longitude,
			Address:           p.Farmer.User.Address,
		})
	}
	return listings, nil
}
