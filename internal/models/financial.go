package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a finance ledger line for a user. Credits are written when an
// order is delivered or a rental completes.
type Transaction struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"user_id" gorm:"not null;index"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	TransactionType string          `json:"transaction_type" gorm:"not null"` // credit, debit
	Description     string          `json:"description"`
	OrderID         *uint           `json:"order_id" gorm:"index"`
	RentalID        *uint           `json:"rental_id" gorm:"index"`
	Status          string          `json:"status" gorm:"default:'completed'"`
	ReferenceID     string          `json:"reference_id"`
	CreatedAt       time.Time       `json:"created_at"`
}

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

type EarningsSummary struct {
	TotalEarnings    decimal.Decimal `json:"total_earnings"`
	TodayEarnings    decimal.Decimal `json:"today_earnings"`
	TransactionCount int64           `json:"transaction_count"`
}

// PayoutRequest asks for earned credits to be paid out to a bank account.
// Pending and approved requests hold their amount against the balance.
type PayoutRequest struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"not null;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	BankDetails string          `json:"bank_details" gorm:"type:text;not null"`
	Status      string          `json:"status" gorm:"default:'pending'"`
	AdminNote   string          `json:"admin_note" gorm:"type:text"`
	ProcessedAt *time.Time      `json:"processed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type PayoutStatus string

const (
	PayoutPending   PayoutStatus = "pending"
	PayoutApproved  PayoutStatus = "approved"
	PayoutProcessed PayoutStatus = "processed"
	PayoutRejected  PayoutStatus = "rejected"
)
