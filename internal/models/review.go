package models

import "time"

type SupplierReview struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SupplierID uint      `json:"supplier_id" gorm:"not null;uniqueIndex:idx_supplier_reviewer"`
	ReviewerID uint      `json:"reviewer_id" gorm:"not null;uniqueIndex:idx_supplier_reviewer"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}

type ProductReview struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ProductID  uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_product_reviewer"`
	ReviewerID uint      `json:"reviewer_id" gorm:"not null;uniqueIndex:idx_product_reviewer"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReviewSubject string

const (
	SubjectSupplier ReviewSubject = "supplier"
	SubjectProduct  ReviewSubject = "product"
)
