package models

import (
	"time"

	"tabo/src/types"

	"github.com/shopspring/decimal"
)

// Listing is a bookable inventory block offered on the inter-agency
// marketplace: a ticket-seat group or a visa-quota group. Categories and
// Rules are the declarative booking configuration the dialog snapshots at
// open.
type Listing struct {
	ID          uint                 `gorm:"primarykey;uniqueIndex:listingslug" json:"id"`
	Kind        types.ListingKind    `json:"kind,omitempty"`
	Title       string               `json:"title,omitempty"`
	Slug        string               `gorm:"uniqueIndex:listingslug" json:"slug"`
	Origin      string               `json:"origin,omitempty"`
	Destination string               `json:"destination,omitempty"`
	Country     string               `json:"country,omitempty"`
	Airline     string               `json:"airline,omitempty"`
	DepartsAt   *time.Time           `json:"departs_at,omitempty"`
	UnitPrice   decimal.Decimal      `gorm:"type:decimal(12,2)" json:"unit_price"`
	Currency    string               `json:"currency,omitempty"`
	SeatsTotal  uint                 `json:"seats_total"`
	Status      types.ListingStatus  `gorm:"default:'draft'" json:"status,omitempty"`
	Categories  *types.CategorySet   `gorm:"type:jsonb" json:"categories,omitempty"`
	Rules       *types.RuleSet       `gorm:"type:jsonb" json:"rules,omitempty"`
	Metadata    *types.Metadata      `gorm:"type:jsonb" json:"metadata,omitempty"`
	AgencyID    uint                 `json:"agency_id,omitempty"`

	Agency   *Agency   `gorm:"foreignKey:agency_id" json:"agency,omitempty"`
	Bookings []Booking `gorm:"foreignKey:listing_id" json:"bookings,omitempty"`

	Stats *ListingStats `gorm:"-" json:"stats,omitempty"`

	types.Timestamps
}

type ListingStats struct {
	ListingID uint `json:"listing_id,omitempty"`
	Free      uint `json:"free"`
	Committed uint `json:"committed"`
}
