package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agri_market/internal/models"
	"agri_market/internal/repository"

	"github.com/shopspring/decimal"
)

type CatalogService interface {
	CreateProduct(ctx context.Context, actor Actor, input ProductInput) (*models.Product, error)
	CreateEquipment(ctx context.Context, actor Actor, input EquipmentInput) (*models.Equipment, error)
	CreateProduce(ctx context.Context, actor Actor, input ProduceInput) (*models.FarmProduce, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	GetMyProducts(ctx context.Context, actor Actor) ([]models.Product, error)
	SetProductAvailability(ctx context.Context, id uint, actor Actor, isAvailable bool) (*models.Product, error)
}

type ProductInput struct {
	Name              string           `json:"name" binding:"required"`
	Category          string           `json:"category" binding:"required"`
	Description       string           `json:"description"`
	Price             decimal.Decimal  `json:"price"`
	Unit              string           `json:"unit" binding:"required"`
	StockQuantity     int              `json:"stock_quantity"`
	IsRental          bool             `json:"is_rental"`
	RentalPricePerDay *decimal.Decimal `json:"rental_price_per_day"`
}

type EquipmentInput struct {
	Name          string          `json:"name" binding:"required"`
	EquipmentType string          `json:"equipment_type" binding:"required"`
	Description   string          `json:"description"`
	DailyRate     decimal.Decimal `json:"daily_rate"`
	Condition     string          `json:"condition"`
}

type ProduceInput struct {
	Name              string          `json:"name" binding:"required"`
	Category          string          `json:"category" binding:"required"`
	Description       string          `json:"description"`
	PricePerUnit      decimal.Decimal `json:"price_per_unit"`
	Unit              string          `json:"unit" binding:"required"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	HarvestDate       string          `json:"harvest_date"`
}

type catalogService struct {
	repos      *repository.Repositories
	dispatcher *Dispatcher
}

func NewCatalogService(repos *repository.Repositories, dispatcher *Dispatcher) CatalogService {
	return &catalogService{repos: repos, dispatcher: dispatcher}
}

// CreateProduct lists a product for the actor's supplier profile. Opening
// stock goes through the ledger as a restock so the log accounts for it.
func (s *catalogService) CreateProduct(ctx context.Context, actor Actor, input ProductInput) (*models.Product, error) {
	if !models.ProductCategory(input.Category).IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, input.Category)
	}
	if !input.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if input.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock_quantity must not be negative", ErrInvalidInput)
	}

	var out outbox
	var product *models.Product
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		supplier, err := requireSupplierProfile(ctx, tx, actor)
		if err != nil {
			return err
		}

		product = &models.Product{
			SupplierID:        supplier.ID,
			Name:              strings.TrimSpace(input.Name),
			Category:          input.Category,
			Description:       input.Description,
			Price:             input.Price,
			Unit:              input.Unit,
			IsAvailable:       true,
			IsRental:          input.IsRental,
			RentalPricePerDay: input.RentalPricePerDay,
		}
		if err := tx.Products.Create(ctx, product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		if input.StockQuantity > 0 {
			entry, err := applyStockChange(ctx, tx, product, input.StockQuantity, models.StockRestock, actor.UserID, "Opening stock")
			if err != nil {
				return err
			}
			recordStockEvent(&out, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out.invalidateCatalog = true
	s.dispatcher.dispatch(ctx, &out)
	return product, nil
}

func (s *catalogService) CreateEquipment(ctx context.Context, actor Actor, input EquipmentInput) (*models.Equipment, error) {
	if !input.DailyRate.IsPositive() {
		return nil, fmt.Errorf("%w: daily_rate must be positive", ErrInvalidInput)
	}
	condition := input.Condition
	if condition == "" {
		condition = "good"
	}

	supplier, err := requireSupplierProfile(ctx, s.repos, actor)
	if err != nil {
		return nil, err
	}

	equipment := &models.Equipment{
		SupplierID:    supplier.ID,
		Name:          strings.TrimSpace(input.Name),
		EquipmentType: input.EquipmentType,
		Description:   input.Description,
		DailyRate:     input.DailyRate,
		Condition:     condition,
		Status:        string(models.EquipmentAvailable),
	}
	if err := s.repos.Equipment.Create(ctx, equipment); err != nil {
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}

	s.dispatcher.dispatch(ctx, &outbox{invalidateCatalog: true})
	return equipment, nil
}

// CreateProduce lists produce for the actor's farmer profile, opening the
// quantity through the produce ledger.
func (s *catalogService) CreateProduce(ctx context.Context, actor Actor, input ProduceInput) (*models.FarmProduce, error) {
	if !input.PricePerUnit.IsPositive() {
		return nil, fmt.Errorf("%w: price_per_unit must be positive", ErrInvalidInput)
	}
	if input.AvailableQuantity.IsNegative() {
		return nil, fmt.Errorf("%w: available_quantity must not be negative", ErrInvalidInput)
	}

	var harvest *time.Time
	if input.HarvestDate != "" {
		date, err := time.Parse(dateLayout, input.HarvestDate)
		if err != nil {
			return nil, fmt.Errorf("%w: harvest_date must be YYYY-MM-DD", ErrInvalidInput)
		}
		harvest = &date
	}

	var out outbox
	var produce *models.FarmProduce
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		farmer, found, err := tx.Profiles.FindFarmerByUserID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: farmer profile required", ErrForbidden)
		}

		produce = &models.FarmProduce{
			FarmerID:          farmer.ID,
			Name:              strings.TrimSpace(input.Name),
			Category:          input.Category,
			Description:       input.Description,
			PricePerUnit:      input.PricePerUnit,
			Unit:              input.Unit,
			AvailableQuantity: decimal.Zero,
			IsAvailable:       true,
			HarvestDate:       harvest,
		}
		if err := tx.Produce.Create(ctx, produce); err != nil {
			return fmt.Errorf("failed to create produce: %w", err)
		}

		if input.AvailableQuantity.IsPositive() {
			entry, err := applyProduceChange(ctx, tx, produce, input.AvailableQuantity, models.StockRestock, actor.UserID, "Opening stock")
			if err != nil {
				return err
			}
			recordProduceEvent(&out, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out.invalidateCatalog = true
	s.dispatcher.dispatch(ctx, &out)
	return produce, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return product, nil
}

func (s *catalogService) GetMyProducts(ctx context.Context, actor Actor) ([]models.Product, error) {
	supplier, err := requireSupplierProfile(ctx, s.repos, actor)
	if err != nil {
		return nil, err
	}
	return s.repos.Products.GetBySupplierID(ctx, supplier.ID)
}

func (s *catalogService) SetProductAvailability(ctx context.Context, id uint, actor Actor, isAvailable bool) (*models.Product, error) {
	product, err := s.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	if err := requireSupplierOwner(ctx, s.repos, actor, product.SupplierID); err != nil {
		return nil, err
	}

	if err := s.repos.Products.UpdateAvailability(ctx, id, isAvailable); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	product.IsAvailable = isAvailable

	s.dispatcher.dispatch(ctx, &outbox{invalidateCatalog: true})
	return product, nil
}

func requireSupplierProfile(ctx context.Context, repos *repository.Repositories, actor Actor) (*models.SupplierProfile, error) {
	supplier, found, err := repos.Profiles.FindSupplierByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: supplier profile required", ErrForbidden)
	}
	return supplier, nil
}
