package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLog is an append-only record of one stock change on a product.
// CurrentStock always equals PreviousStock + QuantityChanged.
type StockLog struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ProductID       uint      `json:"product_id" gorm:"not null;index"`
	ChangeType      string    `json:"change_type" gorm:"not null"`
	QuantityChanged int       `json:"quantity_changed" gorm:"not null"`
	PreviousStock   int       `json:"previous_stock" gorm:"not null"`
	CurrentStock    int       `json:"current_stock" gorm:"not null"`
	UpdatedBy       uint      `json:"updated_by" gorm:"not null"`
	Notes           string    `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProduceLog is the ledger for farm produce. Produce is sold by weight, so
// quantities are decimals; otherwise it follows StockLog.
type ProduceLog struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	ProduceID        uint            `json:"produce_id" gorm:"not null;index"`
	ChangeType       string          `json:"change_type" gorm:"not null"`
	QuantityChanged  decimal.Decimal `json:"quantity_changed" gorm:"type:decimal(10,2);not null"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity" gorm:"type:decimal(10,2);not null"`
	CurrentQuantity  decimal.Decimal `json:"current_quantity" gorm:"type:decimal(10,2);not null"`
	UpdatedBy        uint            `json:"updated_by" gorm:"not null"`
	Notes            string          `json:"notes" gorm:"type:text"`
	CreatedAt        time.Time       `json:"created_at"`
}

type StockChangeType string

const (
	StockRestock    StockChangeType = "restock"
	StockSale       StockChangeType = "sale"
	StockAdjustment StockChangeType = "adjustment"
	StockReturn     StockChangeType = "return"
	StockDamaged    StockChangeType = "damaged"
)

func (t StockChangeType) IsValid() bool {
	switch t {
	case StockRestock, StockSale, StockAdjustment, StockReturn, StockDamaged:
		return true
	}
	return false
}
