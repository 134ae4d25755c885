package services

import (
	"context"
	"fmt"

	"agri_market/internal/events"
	"agri_market/internal/models"
	"agri_market/internal/repository"

	"github.com/shopspring/decimal"
)

type InventoryService interface {
	AdjustStock(ctx context.Context, productID uint, delta int, changeType models.StockChangeType, actor Actor, note string) (int, error)
	GetStockLogs(ctx context.Context, productID uint, actor Actor) ([]models.StockLog, error)
	GetInventoryStats(ctx context.Context, actor Actor) (*InventoryStats, error)
	AdjustProduce(ctx context.Context, produceID uint, delta decimal.Decimal, changeType models.StockChangeType, actor Actor, note string) (decimal.Decimal, error)
	GetProduceLogs(ctx context.Context, produceID uint, actor Actor) ([]models.ProduceLog, error)
}

type InventoryStats struct {
	TotalProducts     int `json:"total_products"`
	TotalStock        int `json:"total_stock"`
	LowStockProducts  int `json:"low_stock_products"`
	OutOfStock        int `json:"out_of_stock_products"`
	LowStockThreshold int `json:"low_stock_threshold"`
}

// StockAdjustedPayload is the body of a stock.adjusted event.
type StockAdjustedPayload struct {
	ProductID     uint   `json:"product_id"`
	ChangeType    string `json:"change_type"`
	Delta         int    `json:"delta"`
	PreviousStock int    `json:"previous_stock"`
	CurrentStock  int    `json:"current_stock"`
	ActorID       uint   `json:"actor_id"`
}

// ProduceAdjustedPayload is the body of a produce.adjusted event.
type ProduceAdjustedPayload struct {
	ProduceID        uint            `json:"produce_id"`
	ChangeType       string          `json:"change_type"`
	Delta            decimal.Decimal `json:"delta"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	CurrentQuantity  decimal.Decimal `json:"current_quantity"`
	ActorID          uint            `json:"actor_id"`
}

type inventoryService struct {
	repos             *repository.Repositories
	dispatcher        *Dispatcher
	lowStockThreshold int
}

func NewInventoryService(repos *repository.Repositories, dispatcher *Dispatcher, lowStockThreshold int) InventoryService {
	return &inventoryService{repos: repos, dispatcher: dispatcher, lowStockThreshold: lowStockThreshold}
}

func (s *inventoryService) AdjustStock(ctx context.Context, productID uint, delta int, changeType models.StockChangeType, actor Actor, note string) (int, error) {
	if err := validateAdjustment(delta, changeType); err != nil {
		return 0, err
	}

	var out outbox
	var newQuantity int
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		product, err := tx.Products.GetForUpdate(ctx, productID)
		if err != nil {
			return notFound(err, "product", productID)
		}
		if err := requireSupplierOwner(ctx, tx, actor, product.SupplierID); err != nil {
			return err
		}

		entry, err := applyStockChange(ctx, tx, product, delta, changeType, actor.UserID, note)
		if err != nil {
			return err
		}
		newQuantity = entry.CurrentStock
		recordStockEvent(&out, entry)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.dispatcher.dispatch(ctx, &out)
	return newQuantity, nil
}

func (s *inventoryService) GetStockLogs(ctx context.Context, productID uint, actor Actor) ([]models.StockLog, error) {
	product, err := s.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product", productID)
	}
	if err := requireSupplierOwner(ctx, s.repos, actor, product.SupplierID); err != nil {
		return nil, err
	}
	return s.repos.StockLogs.GetByProductID(ctx, productID)
}

func (s *inventoryService) GetInventoryStats(ctx context.Context, actor Actor) (*InventoryStats, error) {
	profile, err := requireSupplierProfile(ctx, s.repos, actor)
	if err != nil {
		return nil, err
	}

	products, err := s.repos.Products.GetBySupplierID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	stats := &InventoryStats{TotalProducts: len(products), LowStockThreshold: s.lowStockThreshold}
	for _, p := range products {
		stats.TotalStock += p.StockQuantity
		if p.StockQuantity == 0 {
			stats.OutOfStock++
		}
		if p.StockQuantity < s.lowStockThreshold {
			stats.LowStockProducts++
		}
	}
	return stats, nil
}

func (s *inventoryService) AdjustProduce(ctx context.Context, produceID uint, delta decimal.Decimal, changeType models.StockChangeType, actor Actor, note string) (decimal.Decimal, error) {
	if err := validateProduceAdjustment(delta, changeType); err != nil {
		return decimal.Zero, err
	}

	var out outbox
	var newQuantity decimal.Decimal
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		produce, err := tx.Produce.GetForUpdate(ctx, produceID)
		if err != nil {
			return notFound(err, "produce", produceID)
		}
		if err := requireFarmerOwner(ctx, tx, actor, produce.FarmerID); err != nil {
			return err
		}

		entry, err := applyProduceChange(ctx, tx, produce, delta, changeType, actor.UserID, note)
		if err != nil {
			return err
		}
		newQuantity = entry.CurrentQuantity
		recordProduceEvent(&out, entry)
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.dispatcher.dispatch(ctx, &out)
	return newQuantity, nil
}

func (s *inventoryService) GetProduceLogs(ctx context.Context, produceID uint, actor Actor) ([]models.ProduceLog, error) {
	produce, err := s.repos.Produce.GetByID(ctx, produceID)
	if err != nil {
		return nil, notFound(err, "produce", produceID)
	}
	if err := requireFarmerOwner(ctx, s.repos, actor, produce.FarmerID); err != nil {
		return nil, err
	}
	return s.repos.StockLogs.GetByProduceID(ctx, produceID)
}

func validateAdjustment(delta int, changeType models.StockChangeType) error {
	if delta == 0 {
		return fmt.Errorf("%w: delta must not be zero", ErrInvalidAdjustment)
	}
	return validateChangeType(changeType)
}

func validateProduceAdjustment(delta decimal.Decimal, changeType models.StockChangeType) error {
	if delta.IsZero() {
		return fmt.Errorf("%w: delta must not be zero", ErrInvalidAdjustment)
	}
	return validateChangeType(changeType)
}

func validateChangeType(changeType models.StockChangeType) error {
	if !changeType.IsValid() {
		return fmt.Errorf("%w: unknown change type %q", ErrInvalidAdjustment, changeType)
	}
	return nil
}

// applyStockChange moves the stock of a product that the caller has already
// locked inside tx and appends the matching ledger entry. A change that
// would take the stock below zero writes nothing.
func applyStockChange(ctx context.Context, tx *repository.Repositories, product *models.Product, delta int, changeType models.StockChangeType, actorID uint, note string) (*models.StockLog, error) {
	if err := validateAdjustment(delta, changeType); err != nil {
		return nil, err
	}

	previous := product.StockQuantity
	current := previous + delta
	if current < 0 {
		return nil, fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, previous, -delta)
	}

	if err := tx.Products.UpdateStock(ctx, product.ID, current); err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	entry := &models.StockLog{
		ProductID:       product.ID,
		ChangeType:      string(changeType),
		QuantityChanged: delta,
		PreviousStock:   previous,
		CurrentStock:    current,
		UpdatedBy:       actorID,
		Notes:           note,
	}
	if err := tx.StockLogs.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to write stock log: %w", err)
	}

	product.StockQuantity = current
	return entry, nil
}

func recordStockEvent(out *outbox, entry *models.StockLog) {
	out.invalidateCatalog = true
	out.event(events.StockAdjusted, fmt.Sprintf("product-%d", entry.ProductID), StockAdjustedPayload{
		ProductID:     entry.ProductID,
		ChangeType:    entry.ChangeType,
		Delta:         entry.QuantityChanged,
		PreviousStock: entry.PreviousStock,
		CurrentStock:  entry.CurrentStock,
		ActorID:       entry.UpdatedBy,
	})
}

// applyProduceChange is applyStockChange for a produce row already locked
// inside tx.
func applyProduceChange(ctx context.Context, tx *repository.Repositories, produce *models.FarmProduce, delta decimal.Decimal, changeType models.StockChangeType, actorID uint, note string) (*models.ProduceLog, error) {
	if err := validateProduceAdjustment(delta, changeType); err != nil {
		return nil, err
	}

	previous := produce.AvailableQuantity
	current := previous.Add(delta)
	if current.IsNegative() {
		return nil, fmt.Errorf("%w: available %s, requested %s", ErrInsufficientStock, previous.String(), delta.Neg().String())
	}

	if err := tx.Produce.UpdateQuantity(ctx, produce.ID, current); err != nil {
		return nil, fmt.Errorf("failed to update produce quantity: %w", err)
	}

	entry := &models.ProduceLog{
		ProduceID:        produce.ID,
		ChangeType:       string(changeType),
		QuantityChanged:  delta,
		PreviousQuantity: previous,
		CurrentQuantity:  current,
		UpdatedBy:        actorID,
		Notes:            note,
	}
	if err := tx.StockLogs.CreateProduceLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to write produce log: %w", err)
	}

	produce.AvailableQuantity = current
	return entry, nil
}

func recordProduceEvent(out *outbox, entry *models.ProduceLog) {
	out.invalidateCatalog = true
	out.event(events.ProduceAdjusted, fmt.Sprintf("produce-%d", entry.ProduceID), ProduceAdjustedPayload{
		ProduceID:        entry.ProduceID,
		ChangeType:       entry.ChangeType,
		Delta:            entry.QuantityChanged,
		PreviousQuantity: entry.PreviousQuantity,
		CurrentQuantity:  entry.CurrentQuantity,
		ActorID:          entry.UpdatedBy,
	})
}

// requireSupplierOwner checks that the actor owns the supplier profile.
func requireSupplierOwner(ctx context.Context, repos *repository.Repositories, actor Actor, supplierID uint) error {
	profile, found, err := repos.Profiles.FindSupplierByUserID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if !found || profile.ID != supplierID {
		return fmt.Errorf("%w: not the owner of supplier %d", ErrForbidden, supplierID)
	}
	return nil
}

func requireFarmerOwner(ctx context.Context, repos *repository.Repositories, actor Actor, farmerID uint) error {
	profile, found, err := repos.Profiles.FindFarmerByUserID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if !found || profile.ID != farmerID {
		return fmt.Errorf("%w: not the owner of farmer %d", ErrForbidden, farmerID)
	}
	return nil
}
