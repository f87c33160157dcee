package usecases

import (
	"context"

	"github.com/stretchr/testify/mock"

	"integrationhub/internal/domain/integration"
	"integrationhub/internal/infrastructure/crm"
	"integrationhub/internal/infrastructure/oauth"
	"integrationhub/internal/shared/config"
	"integrationhub/internal/shared/constants"
	"integrationhub/internal/shared/errors"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Upsert(ctx context.Context, rec *integration.Integration) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *mockRepository) Find(ctx context.Context, key integration.Key) (*integration.Integration, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Integration), args.Error(1)
}

func (m *mockRepository) FindBy(ctx context.Context, provider integration.Provider, field integration.ScopeField, value string) (*integration.Integration, error) {
	args := m.Called(ctx, provider, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Integration), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, rec *integration.Integration) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, key integration.Key) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type mockProviderClient struct {
	mock.Mock
}

func (m *mockProviderClient) ExchangeCode(ctx context.Context, settings config.OAuthProviderSettings, code string) (map[string]interface{}, error) {
	args := m.Called(ctx, settings, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *mockProviderClient) Revoke(ctx context.Context, settings config.OAuthProviderSettings, token string) error {
	args := m.Called(ctx, settings, token)
	return args.Error(0)
}

func (m *mockProviderClient) ProbeAPIKey(ctx context.Context, probeURL, apiKey string) oauth.ProbeResult {
	args := m.Called(ctx, probeURL, apiKey)
	return args.Get(0).(oauth.ProbeResult)
}

type mockSessionMirror struct {
	mock.Mock
}

func (m *mockSessionMirror) SaveOAuthGrant(ctx context.Context, grant crm.OAuthGrant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

type mockContacts struct {
	mock.Mock
}

func (m *mockContacts) Configured() bool {
	return m.Called().Bool(0)
}

func (m *mockContacts) SearchContacts(ctx context.Context, req crm.SearchContactsRequest) (interface{}, error) {
	args := m.Called(ctx, req)
	return args.Get(0), args.Error(1)
}

var testSettings = config.OAuthProviderSettings{
	ClientID:     "client-1",
	ClientSecret: "secret-1",
	RedirectURI:  "https://hub.example.com/api/oauth/wafeq/callback",
	AuthorizeURL: "https://app.wafeq.com/oauth/authorize/",
	TokenURL:     "https://app.wafeq.com/oauth/token/",
	RevokeURL:    "https://app.wafeq.com/oauth/token/revoke/",
}

func configured() (config.OAuthProviderSettings, error) {
	return testSettings, nil
}

func unconfigured(msg string) SettingsFunc {
	return func() (config.OAuthProviderSettings, error) {
		return config.OAuthProviderSettings{}, errors.NewConfigurationError(msg)
	}
}

var wafeqUnconfigured = unconfigured(constants.MsgMissingWafeqEnv)
