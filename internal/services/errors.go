package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrInvalidQuery      = errors.New("invalid query")
	ErrInvalidAdjustment = errors.New("invalid adjustment")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
)

// notFound turns gorm.ErrRecordNotFound into ErrNotFound naming the missing
// entity. Other errors pass through untouched.
func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, entity, id)
	}
	return err
}

// Actor is the already-authenticated caller of a mutating operation.
type Actor struct {
	UserID uint
	Role   string
}
