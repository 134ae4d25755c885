package database

import (
	"fmt"
	"log"

	"agri_market/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	// Configure GORM
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate all models
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database connected and migrated successfully")
	return db, nil
}

// AutoMigrate creates or updates the schema for every persisted model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.SupplierProfile{},
		&models.FarmerProfile{},
		&models.Product{},
		&models.Equipment{},
		&models.FarmProduce{},
		&models.StockLog{},
		&models.ProduceLog{},
		&models.Order{},
		&models.Rental{},
		&models.SupplierReview{},
		&models.ProductReview{},
		&models.Notification{},
		&models.Transaction{},
		&models.PayoutRequest{},
	}
}
