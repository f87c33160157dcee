package usecases

import (
	"context"

	"integrationhub/internal/infrastructure/auth"
	"integrationhub/internal/infrastructure/crm"
	"integrationhub/internal/infrastructure/oauth"
	"integrationhub/internal/shared/config"
)

// SettingsFunc resolves a provider's OAuth settings, failing with a configuration
// error when the provider is not configured.
type SettingsFunc func() (config.OAuthProviderSettings, error)

// ProviderClient is the outbound side of the OAuth flows.
type ProviderClient interface {
	ExchangeCode(ctx context.Context, settings config.OAuthProviderSettings, code string) (map[string]interface{}, error)
	Revoke(ctx context.Context, settings config.OAuthProviderSettings, token string) error
	ProbeAPIKey(ctx context.Context, probeURL, apiKey string) oauth.ProbeResult
}

// StateCodec encodes and decodes the OAuth state parameter.
type StateCodec interface {
	Encode(locationID string) string
	Decode(token string) auth.DecodedState
}

// SessionMirror copies a completed CRM authorization into session rows.
type SessionMirror interface {
	SaveOAuthGrant(ctx context.Context, grant crm.OAuthGrant) error
}

// ContactsSearcher is the CRM contacts API.
type ContactsSearcher interface {
	Configured() bool
	SearchContacts(ctx context.Context, req crm.SearchContactsRequest) (interface{}, error)
}
