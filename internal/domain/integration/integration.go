// Package integration models the stored OAuth/API-key credentials that link a CRM
// location to a provider account.
package integration

import (
	"fmt"
	"time"

	"integrationhub/internal/shared/biztime"
)

// Provider identifies which system a record holds credentials for.
type Provider string

const (
	ProviderCRM        Provider = "ghl"
	ProviderWafeq      Provider = "wafeq"
	ProviderCRMSession Provider = "ghl_sdk_session"
)

func (p Provider) IsValid() bool {
	switch p {
	case ProviderCRM, ProviderWafeq, ProviderCRMSession:
		return true
	}
	return false
}

func (p Provider) String() string {
	return string(p)
}

// ScopeField names a column a record can be looked up by.
type ScopeField string

const (
	ScopeLocation ScopeField = "location_id"
	ScopeCompany  ScopeField = "company_id"
)

func (f ScopeField) IsValid() bool {
	return f == ScopeLocation || f == ScopeCompany
}

// Key is the unique identity of a record. Unset identifiers are empty strings, never null.
type Key struct {
	Provider   Provider
	LocationID string
	CompanyID  string
	UserID     string
}

func (k Key) Validate() error {
	if !k.Provider.IsValid() {
		return fmt.Errorf("invalid provider %q", k.Provider)
	}
	return nil
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.Provider, k.LocationID, k.CompanyID, k.UserID)
}

// Tokens is the credential part of a record.
type Tokens struct {
	AccessToken  *string
	RefreshToken *string
	ExpiresAt    *time.Time
}

type Integration struct {
	ID uint
	Key
	AccessToken  *string
	RefreshToken *string
	ExpiresAt    *time.Time
	Meta         map[string]interface{}
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewIntegration(key Key, tokens Tokens, meta map[string]interface{}) (*Integration, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if meta == nil {
		meta = map[string]interface{}{}
	}

	now := biztime.NowUTC()
	return &Integration{
		Key:          key,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
		Meta:         meta,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// RevocableToken returns the token a provider revoke call should target: the
// refresh token when present, otherwise the access token. Empty when neither is stored.
func (i *Integration) RevocableToken() string {
	if i.RefreshToken != nil && *i.RefreshToken != "" {
		return *i.RefreshToken
	}
	if i.AccessToken != nil && *i.AccessToken != "" {
		return *i.AccessToken
	}
	return ""
}

// Revoke clears the credentials in place and stamps revokedAt into meta.
// Everything else in meta is preserved.
func (i *Integration) Revoke(at time.Time) {
	at = at.UTC()
	i.AccessToken = nil
	i.RefreshToken = nil
	i.ExpiresAt = nil
	if i.Meta == nil {
		i.Meta = map[string]interface{}{}
	}
	i.Meta["revokedAt"] = biztime.FormatISO(at)
	i.UpdatedAt = at
}

func (i *Integration) IsRevoked() bool {
	_, ok := i.Meta["revokedAt"]
	return ok && i.AccessToken == nil && i.RefreshToken == nil
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
