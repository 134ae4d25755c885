package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	OrderNumber     string          `json:"order_number" gorm:"unique;not null"`
	ListingKind     string          `json:"listing_kind" gorm:"not null;default:'product'"` // product, produce
	SellerID        uint            `json:"seller_id" gorm:"not null;index"`                // user behind the supplier or farmer profile
	SupplierID      *uint           `json:"supplier_id,omitempty" gorm:"index"`
	FarmerID        *uint           `json:"farmer_id,omitempty" gorm:"index"`
	CustomerID      uint            `json:"customer_id" gorm:"not null;index"`
	ProductID       *uint           `json:"product_id,omitempty" gorm:"index"`
	Product         *Product        `json:"-"`
	ProduceID       *uint           `json:"produce_id,omitempty" gorm:"index"`
	Produce         *FarmProduce    `json:"-"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	UnitPrice       decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	Status          string          `json:"status" gorm:"default:'pending'"`
	PaymentStatus   string          `json:"payment_status" gorm:"default:'pending'"`
	DeliveryMethod  string          `json:"delivery_method" gorm:"default:'delivery'"`
	DeliveryAddress string          `json:"delivery_address" gorm:"type:text"`
	Notes           string          `json:"notes" gorm:"type:text"`
	ConfirmedAt     *time.Time      `json:"confirmed_at"`
	DeliveredAt     *time.Time      `json:"delivered_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderReady      OrderStatus = "ready"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRejected   OrderStatus = "rejected"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderReady, OrderDelivered, OrderCancelled, OrderRejected:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type DeliveryMethod string

const (
	DeliveryPickup DeliveryMethod = "pickup"
	DeliveryHome   DeliveryMethod = "delivery"
)
