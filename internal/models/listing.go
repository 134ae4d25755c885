package models

import "github.com/shopspring/decimal"

// Listing is the read-only view of a product, equipment or produce row that
// catalog search works on. It is not persisted.
type Listing struct {
	ID                uint            `json:"id"`
	Kind              ListingKind     `json:"kind"`
	OwnerID           uint            `json:"owner_id"`
	OwnerName         string          `json:"owner_name"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	Unit              string          `json:"unit,omitempty"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	IsAvailable       bool            `json:"is_available"`
	Latitude          *float64        `json:"latitude"`
	Longitude         *float64        `json:"longitude"`
	Address           string          `json:"address,omitempty"`
}

type ListingKind string

const (
	KindProduct   ListingKind = "product"
	KindEquipment ListingKind = "equipment"
	KindProduce   ListingKind = "produce"
)

func (k ListingKind) IsValid() bool {
	switch k {
	case KindProduct, KindEquipment, KindProduce:
		return true
	}
	return false
}
