package models

import (
	"tabo/src/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	BookingID   uint                    `json:"booking_id,omitempty"`
	Currency    string                  `json:"currency,omitempty"`
	Amount      decimal.Decimal         `gorm:"type:decimal(12,2)" json:"amount"`
	ReferenceID string                  `json:"reference_id,omitempty"`
	Status      types.TransactionStatus `gorm:"default:'pending'" json:"status,omitempty"`
	AgencyID    uint                    `json:"agency_id,omitempty"`
	Metadata    types.JSONB             `gorm:"type:jsonb" json:"metadata,omitempty"`

	types.Timestamps

	Booking Booking `gorm:"foreignKey:booking_id" json:"-"`
}
