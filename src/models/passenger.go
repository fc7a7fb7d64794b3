package models

import (
	"tabo/src/types"

	"github.com/google/uuid"
)

// Passenger is one persisted applicant record from a submitted booking.
// Position preserves the category-major ordering of the dialog's list.
type Passenger struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	BookingID uint        `json:"booking_id,omitempty"`
	Category  string      `json:"category,omitempty"`
	Position  uint        `json:"position"`
	Fields    types.JSONB `gorm:"type:jsonb" json:"fields,omitempty"`
	TenantID  *uuid.UUID  `gorm:"type:uuid" json:"-"`

	Booking Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}
