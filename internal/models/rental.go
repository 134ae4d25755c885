package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Rental struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	RentalNumber       string          `json:"rental_number" gorm:"unique;not null"`
	SupplierID         uint            `json:"supplier_id" gorm:"not null;index"`
	CustomerID         uint            `json:"customer_id" gorm:"not null;index"`
	EquipmentID        uint            `json:"equipment_id" gorm:"not null;index"`
	Equipment          Equipment       `json:"-"`
	StartDate          time.Time       `json:"start_date" gorm:"not null"`
	EndDate            time.Time       `json:"end_date" gorm:"not null"`
	RentalDurationDays int             `json:"rental_duration_days" gorm:"not null"` // fixed at creation
	DailyRate          decimal.Decimal `json:"daily_rate" gorm:"type:decimal(10,2);not null"`
	TotalAmount        decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	Status             string          `json:"status" gorm:"default:'pending'"`
	PaymentStatus      string          `json:"payment_status" gorm:"default:'pending'"`
	Notes              string          `json:"notes" gorm:"type:text"`
	ConfirmedAt        *time.Time      `json:"confirmed_at"`
	StartedAt          *time.Time      `json:"started_at"`
	CompletedAt        *time.Time      `json:"completed_at"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type RentalStatus string

const (
	RentalPending   RentalStatus = "pending"
	RentalConfirmed RentalStatus = "confirmed"
	RentalActive    RentalStatus = "active"
	RentalCompleted RentalStatus = "completed"
	RentalCancelled RentalStatus = "cancelled"
	RentalRejected  RentalStatus = "rejected"
)

func (s RentalStatus) IsValid() bool {
	switch s {
	case RentalPending, RentalConfirmed, RentalActive, RentalCompleted, RentalCancelled, RentalRejected:
		return true
	}
	return false
}

// RentalDays counts calendar days from start to end, both inclusive.
func RentalDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}
