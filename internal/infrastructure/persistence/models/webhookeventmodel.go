package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"integrationhub/internal/shared/constants"
)

// WebhookEventModel represents one recorded CRM webhook delivery. Payload-derived
// strings are text; dedup runs on WebhookKey.
type WebhookEventModel struct {
	ID               uint   `gorm:"primarykey"`
	WebhookKey       string `gorm:"not null;type:char(64);uniqueIndex:uq_ghl_webhook_events_webhook_key"`
	WebhookID        string `gorm:"not null;type:text"`
	EventType        string `gorm:"not null;type:text"`
	LocationID       string `gorm:"not null;type:text"`
	CompanyID        string `gorm:"not null;type:text"`
	WebhookTimestamp *time.Time
	SignatureValid   bool   `gorm:"not null;default:false"`
	Status           string `gorm:"not null;size:16"`
	Payload          datatypes.JSON
	CreatedAt        time.Time
}

// TableName specifies the table name for GORM
func (WebhookEventModel) TableName() string {
	return constants.TableWebhookEvents
}

// BeforeCreate derives WebhookKey from WebhookID.
func (m *WebhookEventModel) BeforeCreate(*gorm.DB) error {
	m.WebhookKey = WebhookKey(m.WebhookID)
	return nil
}
