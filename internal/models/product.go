package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                uint             `json:"id" gorm:"primaryKey"`
	SupplierID        uint             `json:"supplier_id" gorm:"not null;index"`
	Supplier          SupplierProfile  `json:"-"`
	Name              string           `json:"name" gorm:"not null"`
	Category          string           `json:"category" gorm:"not null;index"`
	Description       string           `json:"description" gorm:"type:text"`
	Price             decimal.Decimal  `json:"price" gorm:"type:decimal(10,2);not null"`
	Unit              string           `json:"unit" gorm:"not null"`
	StockQuantity     int              `json:"stock_quantity" gorm:"not null;default:0"`
	IsAvailable       bool             `json:"is_available" gorm:"default:true"`
	IsRental          bool             `json:"is_rental" gorm:"default:false"`
	RentalPricePerDay *decimal.Decimal `json:"rental_price_per_day" gorm:"type:decimal(10,2)"`
	Rating            decimal.Decimal  `json:"rating" gorm:"type:decimal(3,2);default:0"`
	TotalReviews      int              `json:"total_reviews" gorm:"default:0"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

type ProductCategory string

const (
	CategorySeeds      ProductCategory = "seeds"
	CategoryFertilizer ProductCategory = "fertilizer"
	CategoryManure     ProductCategory = "manure"
	CategoryPlantFood  ProductCategory = "plant_food"
	CategoryTractor    ProductCategory = "tractor"
	CategoryEquipment  ProductCategory = "equipment"
	CategoryPesticide  ProductCategory = "pesticide"
	CategoryTools      ProductCategory = "tools"
	CategoryOther      ProductCategory = "other"
)

func (c ProductCategory) IsValid() bool {
	switch c {
	case CategorySeeds, CategoryFertilizer, CategoryManure, CategoryPlantFood, CategoryTractor,
		CategoryEquipment, CategoryPesticide, CategoryTools, CategoryOther:
		return true
	}
	return false
}

type Equipment struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	SupplierID    uint            `json:"supplier_id" gorm:"not null;index"`
	Supplier      SupplierProfile `json:"-"`
	Name          string          `json:"name" gorm:"not null"`
	EquipmentType string          `json:"equipment_type" gorm:"not null;index"` // tractor, harvester, sprayer, ...
	Description   string          `json:"description" gorm:"type:text"`
	DailyRate     decimal.Decimal `json:"daily_rate" gorm:"type:decimal(10,2);not null"`
	Condition     string          `json:"condition" gorm:"default:'good'"`
	Status        string          `json:"status" gorm:"default:'available';index"`
	TotalRentals  int             `json:"total_rentals" gorm:"default:0"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Equipment) TableName() string {
	return "equipment"
}

type EquipmentStatus string

const (
	EquipmentAvailable   EquipmentStatus = "available"
	EquipmentRented      EquipmentStatus = "rented"
	EquipmentMaintenance EquipmentStatus = "maintenance"
)

// FarmProduce is agricultural produce listed by a farmer.
type FarmProduce struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	FarmerID          uint            `json:"farmer_id" gorm:"not null;index"`
	Farmer            FarmerProfile   `json:"-"`
	Name              string          `json:"name" gorm:"not null"`
	Category          string          `json:"category" gorm:"not null;index"` // paddy, rice, wheat, vegetables, fruits, pulses, spices, other
	Description       string          `json:"description" gorm:"type:text"`
	PricePerUnit      decimal.Decimal `json:"price_per_unit" gorm:"type:decimal(10,2);not null"`
	Unit              string          `json:"unit" gorm:"not null"`
	AvailableQuantity decimal.Decimal `json:"available_quantity" gorm:"type:decimal(10,2);not null"`
	IsAvailable       bool            `json:"is_available" gorm:"default:true"`
	HarvestDate       *time.Time      `json:"harvest_date"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (FarmProduce) TableName() string {
	return "farm_produce"
}
