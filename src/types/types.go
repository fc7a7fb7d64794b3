package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tabo/src/booking"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

// CategorySet and RuleSet persist a listing's declarative booking rules as
// jsonb columns.
type CategorySet []booking.Category

func (s CategorySet) Value() (driver.Value, error) {
	valueString, err := json.Marshal(s)
	return string(valueString), err
}
func (s *CategorySet) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, s)
}

type RuleSet []booking.FieldRule

func (s RuleSet) Value() (driver.Value, error) {
	valueString, err := json.Marshal(s)
	return string(valueString), err
}
func (s *RuleSet) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, s)
}

type BreakdownSet []booking.CategoryBreakdown

func (s BreakdownSet) Value() (driver.Value, error) {
	valueString, err := json.Marshal(s)
	return string(valueString), err
}
func (s *BreakdownSet) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, s)
}

type ListingKind string

const (
	LISTING_TICKET ListingKind = "ticket"
	LISTING_VISA   ListingKind = "visa"
)

type ListingStatus string

const (
	LISTING_DRAFT    ListingStatus = "draft"
	LISTING_OPEN     ListingStatus = "open"
	LISTING_CLOSED   ListingStatus = "closed"
	LISTING_ARCHIVED ListingStatus = "archived"
)

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_REJECTED  BookingStatus = "rejected"
	BOOKING_CANCELED  BookingStatus = "canceled"
	BOOKING_EXPIRED   BookingStatus = "expired"
)

type TransactionStatus string

const (
	TRANSACTION_PENDING  TransactionStatus = "pending"
	TRANSACTION_PAID     TransactionStatus = "paid"
	TRANSACTION_CANCELED TransactionStatus = "canceled"
	TRANSACTION_EXPIRED  TransactionStatus = "expired"
)

type AgencyType string

const (
	AGENCY_STANDARD AgencyType = "standard"
	AGENCY_PERSONAL AgencyType = "personal"
)

type Metadata map[string]any

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Agency   uint   `json:"agency"`
	jwt.RegisteredClaims
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type DraftURIParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type DraftApplicantURIParams struct {
	ID    string `uri:"id" binding:"required,uuid"`
	Index *int   `uri:"index" binding:"required"`
}

type CreateListingRequestBody struct {
	Kind        ListingKind         `json:"kind" binding:"required,oneof=ticket visa"`
	Title       string              `json:"title" binding:"required"`
	Origin      string              `json:"origin,omitempty"`
	Destination string              `json:"destination,omitempty"`
	Country     string              `json:"country,omitempty"`
	Airline     string              `json:"airline,omitempty"`
	DepartsAt   *string             `json:"departs_at,omitempty" binding:"omitempty,traveldate" time_format:"2006-01-02 15:04:05 -07:00"`
	Currency    string              `json:"currency" binding:"required"`
	UnitPrice   decimal.Decimal     `json:"unit_price" binding:"required"`
	Seats       uint                `json:"seats" binding:"required"`
	Publish     bool                `json:"publish,omitempty"`
	Categories  []booking.Category  `json:"categories,omitempty"`
	Rules       []booking.FieldRule `json:"rules,omitempty"`

	// Listing-level flag expanded into passport field rules when no
	// explicit rule set is supplied.
	RequirePassport bool `json:"require_passport,omitempty"`
}

type MarketplaceQueryFilters struct {
	Kind        string `form:"kind" binding:"omitempty,oneof=ticket visa"`
	Destination string `form:"destination"`
	DepartsOn   string `form:"departs_on" binding:"omitempty,datetime=2006-01-02"`
}

type OpenDraftRequestBody struct {
	ListingID uint `json:"listing" binding:"required"`
}

type QuantityDeltaRequestBody struct {
	Category string `json:"category" binding:"required"`
	Delta    *int   `json:"delta" binding:"required"`
}

type ApplicantFieldRequestBody struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type DiscountRequestBody struct {
	Discount decimal.Decimal `json:"discount"`
}

type CreateCustomerRequestBody struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone,omitempty"`
	PassportNo string `json:"passport_no,omitempty"`
	Country    string `json:"country,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type UpdateCustomerRequestBody struct {
	FullName   *string `json:"full_name,omitempty"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone      *string `json:"phone,omitempty"`
	PassportNo *string `json:"passport_no,omitempty"`
	Country    *string `json:"country,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type CreatePostRequestBody struct {
	Body string `json:"body" binding:"required,max=2000"`
}
