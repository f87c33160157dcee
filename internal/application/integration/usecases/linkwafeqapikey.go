package usecases

import (
	"context"
	"fmt"
	"strings"

	"integrationhub/internal/domain/integration"
	"integrationhub/internal/infrastructure/metrics"
	"integrationhub/internal/shared/constants"
	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
)

type LinkWafeqAPIKeyCommand struct {
	LocationID string
	APIKey     string
	UserID     string
}

type LinkWafeqAPIKeyResult struct {
	LocationID string
}

type LinkWafeqAPIKeyExecutor interface {
	Execute(ctx context.Context, cmd LinkWafeqAPIKeyCommand) (*LinkWafeqAPIKeyResult, error)
}

// ProbeFailedError reports an API key the provider did not accept. Status is 0 and
// Payload nil when the provider could not be reached.
type ProbeFailedError struct {
	Status  int
	Payload interface{}
}

func (e *ProbeFailedError) Error() string {
	return fmt.Sprintf("api key probe failed with status %d", e.Status)
}

// LinkWafeqAPIKeyUseCase connects a location with an accounting API key instead of OAuth.
type LinkWafeqAPIKeyUseCase struct {
	repo     integration.Repository
	client   ProviderClient
	probeURL string
	logger   logger.Interface
}

func NewLinkWafeqAPIKeyUseCase(
	repo integration.Repository,
	client ProviderClient,
	probeURL string,
	logger logger.Interface,
) *LinkWafeqAPIKeyUseCase {
	return &LinkWafeqAPIKeyUseCase{
		repo:     repo,
		client:   client,
		probeURL: probeURL,
		logger:   logger,
	}
}

func (uc *LinkWafeqAPIKeyUseCase) Execute(ctx context.Context, cmd LinkWafeqAPIKeyCommand) (*LinkWafeqAPIKeyResult, error) {
	locationID := strings.TrimSpace(cmd.LocationID)
	apiKey := strings.TrimSpace(cmd.APIKey)
	userID := strings.TrimSpace(cmd.UserID)

	if locationID == "" {
		return nil, errors.NewValidationError(constants.MsgMissingLocationID)
	}
	if apiKey == "" {
		return nil, errors.NewValidationError("Missing apiKey")
	}

	probe := uc.client.ProbeAPIKey(ctx, uc.probeURL, apiKey)
	if !probe.OK {
		result := metrics.ResultRejected
		if probe.Status == 0 {
			result = metrics.ResultError
		}
		metrics.RecordProviderCall(integration.ProviderWafeq.String(), "probe", result)
		uc.logger.Warnw("wafeq api key probe failed", "location_id", locationID, "status", probe.Status)
		return nil, &ProbeFailedError{Status: probe.Status, Payload: probe.Payload}
	}
	metrics.RecordProviderCall(integration.ProviderWafeq.String(), "probe", metrics.ResultSuccess)

	record, err := integration.NewIntegration(
		integration.Key{Provider: integration.ProviderWafeq, LocationID: locationID, UserID: userID},
		integration.Tokens{AccessToken: &apiKey},
		map[string]interface{}{
			"authType":     "api_key",
			"probeStatus":  probe.Status,
			"probePayload": probe.Payload,
		},
	)
	if err != nil {
		return nil, errors.NewInternalError("failed to build integration record").WithCause(err)
	}

	if err := uc.repo.Upsert(ctx, record); err != nil {
		uc.logger.Errorw("failed to store wafeq api key", "location_id", locationID, "error", err)
		return nil, errors.NewDatabaseError(fmt.Sprintf("DB error: %s", storeMessage(err))).WithCause(err)
	}

	uc.logger.Infow("wafeq api key linked", "location_id", locationID, "user_id", userID)

	return &LinkWafeqAPIKeyResult{LocationID: locationID}, nil
}
