package models

import "tabo/src/types"

type Customer struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	FullName   string `json:"full_name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	PassportNo string `json:"passport_no,omitempty"`
	Country    string `json:"country,omitempty"`
	Notes      string `json:"notes,omitempty"`
	AgencyID   uint   `json:"agency_id,omitempty"`

	Agency *Agency `gorm:"foreignKey:agency_id" json:"-"`

	types.Timestamps
}
