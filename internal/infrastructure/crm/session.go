// Package crm holds the HighLevel API client and the session storage it reads OAuth
// credentials from.
package crm

import (
	"context"
	"fmt"
	"time"

	"integrationhub/internal/domain/integration"
	"integrationhub/internal/shared/biztime"
	"integrationhub/internal/shared/db"
	"integrationhub/internal/shared/logger"
	"integrationhub/internal/shared/utils/jsonutil"
)

// Session is the loosely typed credential bag exchanged with the session storage.
// Token keys are present in both camelCase and snake_case on read.
type Session map[string]interface{}

// SessionStorage persists CRM API sessions by key (a location id or a company id).
type SessionStorage interface {
	Init(ctx context.Context) error
	// GetSession returns nil when no session with a token is stored for key.
	GetSession(ctx context.Context, key string) (Session, error)
	// SetSession stores data for key. ttl is used for the expiry when data carries none.
	SetSession(ctx context.Context, key string, data Session, ttl time.Duration) error
	// DeleteSession reports whether the delete succeeded.
	DeleteSession(ctx context.Context, key string) bool
}

// OAuthGrant is a completed CRM authorization to mirror into session rows.
type OAuthGrant struct {
	LocationID string
	CompanyID  string
	TokenJSON  map[string]interface{}
}

// RepositorySessionStorage keeps sessions as ghl_sdk_session integration records.
type RepositorySessionStorage struct {
	repo   integration.Repository
	tx     db.Transactor
	logger logger.Interface
}

var _ SessionStorage = (*RepositorySessionStorage)(nil)

func NewRepositorySessionStorage(repo integration.Repository, tx db.Transactor, log logger.Interface) *RepositorySessionStorage {
	return &RepositorySessionStorage{
		repo:   repo,
		tx:     tx,
		logger: log,
	}
}

func (s *RepositorySessionStorage) Init(ctx context.Context) error {
	return nil
}

func sessionKey(key string) integration.Key {
	return integration.Key{Provider: integration.ProviderCRMSession, LocationID: key}
}

// GetSession looks for a dedicated session row first, then falls back to the CRM
// integration record by location and by company.
func (s *RepositorySessionStorage) GetSession(ctx context.Context, key string) (Session, error) {
	lookups := []struct {
		provider integration.Provider
		field    integration.ScopeField
	}{
		{integration.ProviderCRMSession, integration.ScopeLocation},
		{integration.ProviderCRM, integration.ScopeLocation},
		{integration.ProviderCRM, integration.ScopeCompany},
	}

	var lastErr error
	for _, l := range lookups {
		record, err := s.repo.FindBy(ctx, l.provider, l.field, key)
		if err != nil {
			s.logger.Warnw("session lookup failed",
				"provider", l.provider,
				"field", l.field,
				"error", err,
			)
			lastErr = err
			continue
		}
		if record != nil {
			return recordToSession(key, record), nil
		}
	}
	return nil, lastErr
}

func (s *RepositorySessionStorage) SetSession(ctx context.Context, key string, data Session, ttl time.Duration) error {
	if key == "" {
		return fmt.Errorf("session key is required")
	}

	m := map[string]interface{}(data)
	expiresAt := sessionExpiry(m)
	if expiresAt == nil && ttl > 0 {
		t := biztime.NowUTC().Add(ttl)
		expiresAt = &t
	}

	var ttlSeconds interface{}
	if ttl > 0 {
		ttlSeconds = int64(ttl / time.Second)
	}

	record, err := integration.NewIntegration(sessionKey(key), integration.Tokens{
		AccessToken:  integration.StringPtr(jsonutil.String(m, "accessToken", "access_token")),
		RefreshToken: integration.StringPtr(jsonutil.String(m, "refreshToken", "refresh_token")),
		ExpiresAt:    expiresAt,
	}, map[string]interface{}{
		"sessionKey": key,
		"sdkSession": m,
		"ttlSeconds": ttlSeconds,
	})
	if err != nil {
		return err
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to persist HighLevel SDK session: %w", err)
	}
	return nil
}

func (s *RepositorySessionStorage) DeleteSession(ctx context.Context, key string) bool {
	if err := s.repo.Delete(ctx, sessionKey(key)); err != nil {
		s.logger.Warnw("failed to delete session", "session_key", key, "error", err)
		return false
	}
	return true
}

// SaveOAuthGrant writes one session row per non-empty identifier of grant, both in a
// single transaction.
func (s *RepositorySessionStorage) SaveOAuthGrant(ctx context.Context, grant OAuthGrant) error {
	tokenJSON := grant.TokenJSON
	access := jsonutil.String(tokenJSON, "access_token", "accessToken")
	refresh := jsonutil.String(tokenJSON, "refresh_token", "refreshToken")

	var expiresAt *time.Time
	var expiresAtISO interface{}
	if seconds, ok := jsonutil.PositiveSeconds(firstPresent(tokenJSON, "expires_in", "expiresIn")); ok {
		t := biztime.ExpiresAt(seconds)
		expiresAt = &t
		expiresAtISO = biztime.FormatISO(t)
	}

	save := func(ctx context.Context) error {
		for _, key := range []string{grant.LocationID, grant.CompanyID} {
			if key == "" {
				continue
			}
			record, err := integration.NewIntegration(sessionKey(key), integration.Tokens{
				AccessToken:  integration.StringPtr(access),
				RefreshToken: integration.StringPtr(refresh),
				ExpiresAt:    expiresAt,
			}, map[string]interface{}{
				"sessionKey": key,
				"sdkSession": map[string]interface{}{
					"accessToken":  nullable(access),
					"refreshToken": nullable(refresh),
					"expiresAt":    expiresAtISO,
					"locationId":   nullable(grant.LocationID),
					"companyId":    nullable(grant.CompanyID),
				},
				"raw": tokenJSON,
			})
			if err != nil {
				return err
			}
			if err := s.repo.Upsert(ctx, record); err != nil {
				return fmt.Errorf("failed to upsert HighLevel SDK session: %w", err)
			}
		}
		return nil
	}

	if s.tx == nil {
		return save(ctx)
	}
	return s.tx.RunInTransaction(ctx, save)
}

// recordToSession merges meta.sdkSession (or meta itself) with the record columns.
func recordToSession(key string, record *integration.Integration) Session {
	base := jsonutil.Object(record.Meta, "sdkSession")
	if len(base) == 0 {
		base = record.Meta
	}

	access := jsonutil.String(base, "accessToken", "access_token")
	if access == "" {
		access = deref(record.AccessToken)
	}
	refresh := jsonutil.String(base, "refreshToken", "refresh_token")
	if refresh == "" {
		refresh = deref(record.RefreshToken)
	}
	if access == "" && refresh == "" {
		return nil
	}

	var expiresAt interface{}
	if s := jsonutil.String(base, "expiresAt", "expires_at"); s != "" {
		expiresAt = s
	} else if record.ExpiresAt != nil {
		expiresAt = biztime.FormatISO(*record.ExpiresAt)
	}

	locationID := jsonutil.String(base, "locationId", "location_id")
	if locationID == "" {
		locationID = record.LocationID
	}
	companyID := jsonutil.String(base, "companyId", "company_id")
	if companyID == "" {
		companyID = record.CompanyID
	}

	session := make(Session, len(base)+11)
	for k, v := range base {
		session[k] = v
	}
	session["sessionKey"] = key
	session["accessToken"] = nullable(access)
	session["access_token"] = nullable(access)
	session["refreshToken"] = nullable(refresh)
	session["refresh_token"] = nullable(refresh)
	session["expiresAt"] = expiresAt
	session["expires_at"] = expiresAt
	session["locationId"] = locationID
	session["location_id"] = locationID
	session["companyId"] = companyID
	session["company_id"] = companyID
	return session
}

// AccessToken returns the session's access token, or "".
func (s Session) AccessToken() string {
	return jsonutil.String(s, "accessToken", "access_token")
}

func sessionExpiry(data map[string]interface{}) *time.Time {
	raw, ok := jsonutil.Scalar(data, "expiresAt", "expires_at", "expiryDate", "expiry_date")
	if !ok {
		return nil
	}
	t, ok := biztime.ParseTimestamp(raw)
	if !ok {
		return nil
	}
	return &t
}

func firstPresent(m map[string]interface{}, keys ...string) interface{} {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
