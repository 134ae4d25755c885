package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierProfile is the business side of a supplier user. Rating and
// TotalReviews are derived from SupplierReview rows.
type SupplierProfile struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	UserID        uint            `json:"user_id" gorm:"uniqueIndex;not null"`
	User          User            `json:"user"`
	ShopName      string          `json:"shop_name"`
	OwnerName     string          `json:"owner_name"`
	BusinessName  string          `json:"business_name" gorm:"not null"`
	Description   string          `json:"description" gorm:"type:text"`
	Village       string          `json:"village"`
	District      string          `json:"district"`
	State         string          `json:"state"`
	PinCode       string          `json:"pin_code"`
	BusinessTypes string          `json:"business_types"` // comma-separated: seeds,fertilizer,manure,equipment_rental
	Rating        decimal.Decimal `json:"rating" gorm:"type:decimal(3,2);default:0"`
	TotalReviews  int             `json:"total_reviews" gorm:"default:0"`
	IsActive      bool            `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type FarmerProfile struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	UserID     uint            `json:"user_id" gorm:"uniqueIndex;not null"`
	User       User            `json:"user"`
	FarmName   string          `json:"farm_name"`
	FarmSize   decimal.Decimal `json:"farm_size" gorm:"type:decimal(10,2);default:0"` // acres
	CropsGrown string          `json:"crops_grown" gorm:"type:text"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
