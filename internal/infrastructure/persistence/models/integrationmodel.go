package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"integrationhub/internal/shared/constants"
)

// IntegrationModel represents the database persistence model for provider credentials.
// Identity values arrive from callers unbounded, so they are stored as text and the
// unique index sits on IdentityKey, a digest of all four.
type IntegrationModel struct {
	ID           uint           `gorm:"primarykey"`
	IdentityKey  string         `gorm:"not null;type:char(64);uniqueIndex:uq_integrations_identity"`
	Provider     string         `gorm:"not null;size:32"`
	LocationID   string         `gorm:"not null;type:text;index:idx_integrations_location"`
	CompanyID    string         `gorm:"not null;type:text;index:idx_integrations_company"`
	UserID       string         `gorm:"not null;type:text"`
	AccessToken  *string        `gorm:"type:text"`
	RefreshToken *string        `gorm:"type:text"`
	ExpiresAt    *time.Time
	Meta         datatypes.JSON
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (IntegrationModel) TableName() string {
	return constants.TableIntegrations
}

// BeforeCreate derives IdentityKey from the identity columns.
func (m *IntegrationModel) BeforeCreate(*gorm.DB) error {
	m.IdentityKey = IntegrationIdentityKey(m.Provider, m.LocationID, m.CompanyID, m.UserID)
	return nil
}
