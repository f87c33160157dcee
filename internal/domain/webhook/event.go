// Package webhook models CRM webhook deliveries as they are recorded.
package webhook

import (
	"time"
)

// Status is the outcome recorded for a delivery.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusIgnored  Status = "ignored"
	StatusRejected Status = "rejected"
)

// UnknownEventType is recorded when the payload carries no type.
const UnknownEventType = "Unknown"

// allowedEventTypes are the event types this service processes.
var allowedEventTypes = map[string]struct{}{
	"ContactCreate":           {},
	"ContactUpdate":           {},
	"OpportunityCreate":       {},
	"OpportunityUpdate":       {},
	"OpportunityStatusUpdate": {},
	"InvoiceCreate":           {},
	"InvoiceUpdate":           {},
	"InvoicePaid":             {},
	"InvoiceVoid":             {},
}

// IsAllowedEventType reports whether deliveries of eventType are accepted.
func IsAllowedEventType(eventType string) bool {
	_, ok := allowedEventTypes[eventType]
	return ok
}

type Event struct {
	ID               uint
	WebhookID        string
	EventType        string
	LocationID       string
	CompanyID        string
	WebhookTimestamp *time.Time
	SignatureValid   bool
	Status           Status
	Payload          []byte
	CreatedAt        time.Time
}

// StoreResult tells a fresh insert apart from a redelivery.
type StoreResult int

const (
	StoreInserted StoreResult = iota
	StoreDuplicate
)
