package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Username     string         `json:"username" gorm:"unique;not null"`
	Email        string         `json:"email"`
	PhoneNumber  string         `json:"phone_number" gorm:"unique;not null"`
	PasswordHash string         `json:"-"`
	Role         string         `json:"role" gorm:"not null"` // farmer, supplier, consumer
	Address      string         `json:"address" gorm:"type:text"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	IsVerified   bool           `json:"is_verified" gorm:"default:false"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

type UserRole string

const (
	RoleFarmer   UserRole = "farmer"
	RoleSupplier UserRole = "supplier"
	RoleConsumer UserRole = "consumer"
)

// Location reports the user's coordinates; ok is false unless both are set.
func (u *User) Location() (lat, lon float64, ok bool) {
	if u == nil || u.Latitude == nil || u.Longitude == nil {
		return 0, 0, false
	}
	return *u.Latitude, *u.Longitude, true
}
