package models

import (
	"tabo/src/types"
)

type Agency struct {
	ID           uint             `gorm:"primarykey;uniqueIndex:agencyslug" json:"id"`
	Name         string           `json:"name,omitempty"`
	About        string           `json:"about,omitempty"`
	Country      string           `json:"country,omitempty"`
	ContactEmail string           `json:"email,omitempty"`
	Type         types.AgencyType `gorm:"default:'standard'" json:"type,omitempty"`
	Verified     bool             `gorm:"default:false" json:"verified,omitempty"`
	Slug         string           `gorm:"uniqueIndex:agencyslug" json:"slug"`

	Listings []Listing `gorm:"foreignKey:agency_id" json:"-"`
	Users    []User    `gorm:"foreignKey:agency_id" json:"-"`

	types.Timestamps
}
