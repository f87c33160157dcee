package crm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"integrationhub/internal/domain/integration"
	"integrationhub/internal/shared/logger"
)

func newStorage() (*RepositorySessionStorage, *memoryRepository, *recordingTx) {
	repo := newMemoryRepository()
	tx := &recordingTx{}
	return NewRepositorySessionStorage(repo, tx, logger.NewNopLogger()), repo, tx
}

func TestSessionStorage_SetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage, repo, _ := newStorage()

	require.NoError(t, storage.Init(ctx))
	require.NoError(t, storage.SetSession(ctx, "loc1", Session{
		"access_token":  "at",
		"refresh_token": "rt",
		"userType":      "Location",
	}, time.Hour))

	rec := repo.records[integration.Key{Provider: integration.ProviderCRMSession, LocationID: "loc1"}]
	require.NotNil(t, rec)
	assert.Equal(t, "at", *rec.AccessToken)
	assert.Equal(t, "rt", *rec.RefreshToken)
	require.NotNil(t, rec.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *rec.ExpiresAt, time.Minute)
	assert.Equal(t, "loc1", rec.Meta["sessionKey"])
	assert.Equal(t, int64(3600), rec.Meta["ttlSeconds"])

	session, err := storage.GetSession(ctx, "loc1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "at", session["accessToken"])
	assert.Equal(t, "at", session["access_token"])
	assert.Equal(t, "rt", session["refreshToken"])
	assert.Equal(t, "loc1", session["sessionKey"])
	assert.Equal(t, "loc1", session["locationId"])
	assert.Equal(t, "", session["companyId"])
	assert.Equal(t, "Location", session["userType"])
	assert.Equal(t, "at", session.AccessToken())
}

func TestSessionStorage_SetSessionExpiryFromData(t *testing.T) {
	ctx := context.Background()
	storage, repo, _ := newStorage()

	require.NoError(t, storage.SetSession(ctx, "loc1", Session{
		"accessToken": "at",
		"expiresAt":   "2030-01-02T03:04:05.000Z",
	}, time.Hour))

	rec := repo.records[integration.Key{Provider: integration.ProviderCRMSession, LocationID: "loc1"}]
	require.NotNil(t, rec.ExpiresAt)
	assert.Equal(t, time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC), *rec.ExpiresAt)
	assert.Nil(t, rec.RefreshToken)
}

func TestSessionStorage_SetSessionWithoutTTL(t *testing.T) {
	ctx := context.Background()
	storage, repo, _ := newStorage()

	require.NoError(t, storage.SetSession(ctx, "loc1", Session{"accessToken": "at"}, 0))

	rec := repo.records[integration.Key{Provider: integration.ProviderCRMSession, LocationID: "loc1"}]
	assert.Nil(t, rec.ExpiresAt)
	assert.Nil(t, rec.Meta["ttlSeconds"])
	assert.Error(t, storage.SetSession(ctx, "", Session{}, 0))
}

func TestSessionStorage_SetSessionStoreFailure(t *testing.T) {
	storage, repo, _ := newStorage()
	repo.upsertErr = errors.New("disk full")

	err := storage.SetSession(context.Background(), "loc1", Session{"accessToken": "at"}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist HighLevel SDK session")
}

func TestSessionStorage_GetSessionFallsBackToCRMRecord(t *testing.T) {
	ctx := context.Background()
	storage, repo, _ := newStorage()

	expires := time.Date(2031, 5, 6, 7, 8, 9, 0, time.UTC)
	crmRecord, err := integration.NewIntegration(
		integration.Key{Provider: integration.ProviderCRM, LocationID: "loc1", CompanyID: "comp1"},
		integration.Tokens{AccessToken: integration.StringPtr("crm-at"), ExpiresAt: &expires},
		map[string]interface{}{"state": nil, "raw": map[string]interface{}{"access_token": "crm-at"}},
	)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, crmRecord))

	byLocation, err := storage.GetSession(ctx, "loc1")
	require.NoError(t, err)
	require.NotNil(t, byLocation)
	assert.Equal(t, "crm-at", byLocation["accessToken"])
	assert.Nil(t, byLocation["refreshToken"])
	assert.Equal(t, "2031-05-06T07:08:09.000Z", byLocation["expiresAt"])
	assert.Equal(t, "comp1", byLocation["companyId"])

	byCompany, err := storage.GetSession(ctx, "comp1")
	require.NoError(t, err)
	require.NotNil(t, byCompany)
	assert.Equal(t, "comp1", byCompany["sessionKey"])
	assert.Equal(t, "loc1", byCompany["locationId"])
}

func TestSessionStorage_GetSessionWithoutTokens(t *testing.T) {
	ctx := context.Background()
	storage, repo, _ := newStorage()

	revoked, err := integration.NewIntegration(
		integration.Key{Provider: integration.ProviderCRMSession, LocationID: "loc1"},
		integration.Tokens{},
		map[string]interface{}{"sdkSession": map[string]interface{}{"locationId": "loc1"}},
	)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, revoked))

	session, err := storage.GetSession(ctx, "loc1")
	require.NoError(t, err)
	assert.Nil(t, session)

	missing, err := storage.GetSession(ctx, "nowhere")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSessionStorage_GetSessionLookupError(t *testing.T) {
	storage, repo, _ := newStorage()
	repo.findErr = errors.New("connection reset")

	session, err := storage.GetSession(context.Background(), "loc1")
	assert.Nil(t, session)
	assert.Error(t, err)
}

func TestSessionStorage_DeleteSession(t *testing.T) {
	ctx := context.Background()
	storage, repo, _ := newStorage()

	require.NoError(t, storage.SetSession(ctx, "loc1", Session{"accessToken": "at"}, 0))
	assert.True(t, storage.DeleteSession(ctx, "loc1"))
	assert.Empty(t, repo.records)

	repo.deleteErr = errors.New("locked")
	assert.False(t, storage.DeleteSession(ctx, "loc1"))
}

func TestSessionStorage_SaveOAuthGrant(t *testing.T) {
	ctx := context.Background()
	storage, repo, tx := newStorage()

	tokenJSON := map[string]interface{}{
		"accessToken":  "at",
		"refreshToken": "rt",
		"expiresIn":    json.Number("86399"),
		"userType":     "Location",
	}
	require.NoError(t, storage.SaveOAuthGrant(ctx, OAuthGrant{
		LocationID: "loc1",
		CompanyID:  "comp1",
		TokenJSON:  tokenJSON,
	}))
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, 2, repo.upserts)

	for _, key := range []string{"loc1", "comp1"} {
		rec := repo.records[integration.Key{Provider: integration.ProviderCRMSession, LocationID: key}]
		require.NotNil(t, rec, key)
		assert.Equal(t, "at", *rec.AccessToken)
		assert.Equal(t, "rt", *rec.RefreshToken)
		require.NotNil(t, rec.ExpiresAt)
		assert.Equal(t, key, rec.Meta["sessionKey"])
		assert.Equal(t, tokenJSON, rec.Meta["raw"])

		sdk := rec.Meta["sdkSession"].(map[string]interface{})
		assert.Equal(t, "loc1", sdk["locationId"])
		assert.Equal(t, "comp1", sdk["companyId"])
		assert.NotNil(t, sdk["expiresAt"])
	}
}

func TestSessionStorage_SaveOAuthGrantSkipsEmptyKeys(t *testing.T) {
	ctx := context.Background()
	storage, repo, _ := newStorage()

	require.NoError(t, storage.SaveOAuthGrant(ctx, OAuthGrant{
		CompanyID: "comp1",
		TokenJSON: map[string]interface{}{"access_token": "at"},
	}))
	assert.Equal(t, 1, repo.upserts)

	rec := repo.records[integration.Key{Provider: integration.ProviderCRMSession, LocationID: "comp1"}]
	require.NotNil(t, rec)
	assert.Nil(t, rec.ExpiresAt)
	sdk := rec.Meta["sdkSession"].(map[string]interface{})
	assert.Nil(t, sdk["locationId"])
	assert.Nil(t, sdk["expiresAt"])
}

func TestSessionStorage_SaveOAuthGrantFailure(t *testing.T) {
	storage, repo, _ := newStorage()
	repo.upsertErr = errors.New("read-only")

	err := storage.SaveOAuthGrant(context.Background(), OAuthGrant{
		LocationID: "loc1",
		TokenJSON:  map[string]interface{}{"access_token": "at"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert HighLevel SDK session")
}
