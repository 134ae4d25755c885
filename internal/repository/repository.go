package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repositories bundles every repository built on the same *gorm.DB, so a
// service can run several of them inside one transaction.
type Repositories struct {
	db *gorm.DB

	Users         UserRepository
	Profiles      ProfileRepository
	Catalog       CatalogRepository
	Products      ProductRepository
	Equipment     EquipmentRepository
	Produce       ProduceRepository
	StockLogs     StockLogRepository
	Orders        OrderRepository
	Rentals       RentalRepository
	Reviews       ReviewRepository
	Notifications NotificationRepository
	Financial     FinancialRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		Users:         NewUserRepository(db),
		Profiles:      NewProfileRepository(db),
		Catalog:       NewCatalogRepository(db),
		Products:      NewProductRepository(db),
		Equipment:     NewEquipmentRepository(db),
		Produce:       NewProduceRepository(db),
		StockLogs:     NewStockLogRepository(db),
		Orders:        NewOrderRepository(db),
		Rentals:       NewRentalRepository(db),
		Reviews:       NewReviewRepository(db),
		Notifications: NewNotificationRepository(db),
		Financial:     NewFinancialRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single database
// transaction. Returning an error from fn rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// forUpdate adds a row lock; dialects without row locks ignore it.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
