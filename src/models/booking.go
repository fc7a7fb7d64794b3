package models

import (
	"tabo/src/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Booking struct {
	ID          uint                `gorm:"primarykey" json:"id"`
	Reference   string              `gorm:"uniqueIndex" json:"reference,omitempty"`
	ListingID   uint                `json:"listing_id,omitempty"`
	Status      types.BookingStatus `gorm:"default:'pending'" json:"status,omitempty"`
	SeatsTaken  uint                `json:"seats_taken,omitempty"`
	Breakdown   *types.BreakdownSet `gorm:"type:jsonb" json:"breakdown,omitempty"`
	UnitPrice   decimal.Decimal     `gorm:"type:decimal(12,2)" json:"unit_price"`
	TotalAmount decimal.Decimal     `gorm:"type:decimal(12,2)" json:"total_amount"`
	Discount    decimal.Decimal     `gorm:"type:decimal(12,2)" json:"discount"`
	FinalAmount decimal.Decimal     `gorm:"type:decimal(12,2)" json:"final_amount"`
	Currency    string              `json:"currency,omitempty"`
	UserID      uint                `json:"user_id,omitempty"`
	AgencyID    uint                `json:"agency_id,omitempty"`
	TenantID    *uuid.UUID          `gorm:"type:uuid" json:"-"`

	TransactionID *uuid.UUID `gorm:"type:uuid" json:"transaction_id,omitempty"`

	Listing    *Listing     `gorm:"foreignKey:listing_id" json:"listing,omitempty"`
	User       *User        `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Agency     *Agency      `gorm:"foreignKey:agency_id" json:"agency,omitempty"`
	Passengers []*Passenger `gorm:"foreignKey:booking_id" json:"passengers,omitempty"`

	types.Timestamps
}
