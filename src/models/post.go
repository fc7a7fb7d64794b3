package models

import "tabo/src/types"

type Post struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Body     string `json:"body,omitempty"`
	AuthorID uint   `json:"author_id,omitempty"`
	AgencyID uint   `json:"agency_id,omitempty"`

	Author *User   `gorm:"foreignKey:author_id" json:"author,omitempty"`
	Agency *Agency `gorm:"foreignKey:agency_id" json:"agency,omitempty"`

	types.Timestamps
}
