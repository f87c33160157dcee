package integration

import "context"

// Repository is the integration record store.
type Repository interface {
	// Upsert inserts the record or replaces tokens, expiry, meta and updated_at of the
	// record with the same Key.
	Upsert(ctx context.Context, integration *Integration) error

	// Find returns the record for key, or nil when absent.
	Find(ctx context.Context, key Key) (*Integration, error)

	// FindBy returns the first record of provider whose field equals value, or nil.
	FindBy(ctx context.Context, provider Provider, field ScopeField, value string) (*Integration, error)

	// Update replaces tokens, expiry and meta of an existing record.
	Update(ctx context.Context, integration *Integration) error

	// Delete removes the record for key. Deleting an absent record is not an error.
	Delete(ctx context.Context, key Key) error
}
