package usecases

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"integrationhub/internal/domain/integration"
	"integrationhub/internal/infrastructure/oauth"
	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
)

const probeURL = "https://api.wafeq.com/v1/organization"

func TestLinkWafeqAPIKey_Success(t *testing.T) {
	repo := new(mockRepository)
	client := new(mockProviderClient)
	payload := map[string]interface{}{"name": "Acme"}
	client.On("ProbeAPIKey", mock.Anything, probeURL, "key-1").
		Return(oauth.ProbeResult{OK: true, Status: http.StatusOK, Payload: payload})

	var stored *integration.Integration
	repo.On("Upsert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*integration.Integration) }).
		Return(nil)

	uc := NewLinkWafeqAPIKeyUseCase(repo, client, probeURL, logger.NewNopLogger())
	result, err := uc.Execute(context.Background(), LinkWafeqAPIKeyCommand{LocationID: "loc", APIKey: " key-1 ", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "loc", result.LocationID)

	assert.Equal(t, integration.Key{Provider: integration.ProviderWafeq, LocationID: "loc", UserID: "u1"}, stored.Key)
	assert.Equal(t, "key-1", *stored.AccessToken)
	assert.Nil(t, stored.RefreshToken)
	assert.Nil(t, stored.ExpiresAt)
	assert.Equal(t, "api_key", stored.Meta["authType"])
	assert.Equal(t, http.StatusOK, stored.Meta["probeStatus"])
	assert.Equal(t, payload, stored.Meta["probePayload"])
}

func TestLinkWafeqAPIKey_Validation(t *testing.T) {
	uc := NewLinkWafeqAPIKeyUseCase(new(mockRepository), new(mockProviderClient), probeURL, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), LinkWafeqAPIKeyCommand{APIKey: "k"})
	assert.Equal(t, "Missing locationId", errors.GetAppError(err).Message)

	_, err = uc.Execute(context.Background(), LinkWafeqAPIKeyCommand{LocationID: "loc", APIKey: "   "})
	assert.Equal(t, "Missing apiKey", errors.GetAppError(err).Message)
}

func TestLinkWafeqAPIKey_ProbeFails(t *testing.T) {
	repo := new(mockRepository)
	client := new(mockProviderClient)
	client.On("ProbeAPIKey", mock.Anything, probeURL, "bad").
		Return(oauth.ProbeResult{Status: http.StatusUnauthorized, Payload: map[string]interface{}{"detail": "nope"}})

	_, err := NewLinkWafeqAPIKeyUseCase(repo, client, probeURL, logger.NewNopLogger()).
		Execute(context.Background(), LinkWafeqAPIKeyCommand{LocationID: "loc", APIKey: "bad"})

	var probeErr *ProbeFailedError
	require.True(t, stderrors.As(err, &probeErr))
	assert.Equal(t, http.StatusUnauthorized, probeErr.Status)
	assert.Equal(t, map[string]interface{}{"detail": "nope"}, probeErr.Payload)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestLinkWafeqAPIKey_StoreFailure(t *testing.T) {
	repo := new(mockRepository)
	client := new(mockProviderClient)
	client.On("ProbeAPIKey", mock.Anything, probeURL, "k").Return(oauth.ProbeResult{OK: true, Status: http.StatusOK})
	repo.On("Upsert", mock.Anything, mock.Anything).Return(stderrors.New("too many connections"))

	_, err := NewLinkWafeqAPIKeyUseCase(repo, client, probeURL, logger.NewNopLogger()).
		Execute(context.Background(), LinkWafeqAPIKeyCommand{LocationID: "loc", APIKey: "k"})
	assert.Equal(t, http.StatusInternalServerError, errors.StatusCode(err))
	assert.Equal(t, "DB error: too many connections", errors.GetAppError(err).Message)
}
