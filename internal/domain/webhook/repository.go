package webhook

import "context"

// Repository persists webhook events. webhook_id is unique.
type Repository interface {
	// Insert stores the event once. A second insert with the same WebhookID returns
	// StoreDuplicate and a nil error.
	Insert(ctx context.Context, event *Event) (StoreResult, error)

	// FindByWebhookID returns the stored event or nil.
	FindByWebhookID(ctx context.Context, webhookID string) (*Event, error)
}
