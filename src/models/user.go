package models

import (
	"tabo/src/types"

	"github.com/google/uuid"
)

type User struct {
	ID       uint       `gorm:"primarykey" json:"id"`
	Name     string     `json:"name,omitempty"`
	Email    string     `gorm:"uniqueIndex" json:"email,omitempty"`
	Role     string     `gorm:"default:'agent'" json:"role,omitempty"`
	AgencyID uint       `json:"agency_id,omitempty"`
	TenantID *uuid.UUID `gorm:"type:uuid" json:"-"`

	Agency *Agency `gorm:"foreignKey:agency_id" json:"agency,omitempty"`

	types.Timestamps
}
