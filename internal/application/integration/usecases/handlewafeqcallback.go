package usecases

import (
	"context"
	"fmt"

	"integrationhub/internal/domain/integration"
	"integrationhub/internal/infrastructure/metrics"
	"integrationhub/internal/infrastructure/oauth"
	"integrationhub/internal/shared/constants"
	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
)

type HandleWafeqCallbackCommand struct {
	Code       string
	State      string
	LocationID string
}

type HandleWafeqCallbackResult struct {
	LocationID string
	StateValid bool
}

type HandleWafeqCallbackExecutor interface {
	Execute(ctx context.Context, cmd HandleWafeqCallbackCommand) (*HandleWafeqCallbackResult, error)
}

// HandleWafeqCallbackUseCase completes the accounting OAuth flow: it resolves the
// location, exchanges the code and stores the tokens.
type HandleWafeqCallbackUseCase struct {
	repo     integration.Repository
	client   ProviderClient
	settings SettingsFunc
	state    StateCodec
	logger   logger.Interface
}

func NewHandleWafeqCallbackUseCase(
	repo integration.Repository,
	client ProviderClient,
	settings SettingsFunc,
	state StateCodec,
	logger logger.Interface,
) *HandleWafeqCallbackUseCase {
	return &HandleWafeqCallbackUseCase{
		repo:     repo,
		client:   client,
		settings: settings,
		state:    state,
		logger:   logger,
	}
}

func (uc *HandleWafeqCallbackUseCase) Execute(ctx context.Context, cmd HandleWafeqCallbackCommand) (*HandleWafeqCallbackResult, error) {
	if cmd.Code == "" {
		return nil, errors.NewValidationError(constants.MsgMissingCode)
	}

	decoded := uc.state.Decode(cmd.State)
	locationID := cmd.LocationID
	if locationID == "" {
		locationID = decoded.LocationID
	}
	if locationID == "" {
		uc.logger.Warnw("wafeq callback without resolvable location", "state_present", cmd.State != "")
		return nil, errors.NewValidationError(constants.MsgMissingLocationIDState)
	}

	settings, err := uc.settings()
	if err != nil {
		uc.logger.Errorw("wafeq oauth is not configured", "error", err)
		return nil, err
	}

	tokenJSON, err := uc.client.ExchangeCode(ctx, settings, cmd.Code)
	if err != nil {
		if pe, ok := oauth.AsProviderError(err); ok {
			metrics.RecordProviderCall(integration.ProviderWafeq.String(), "exchange", metrics.ResultRejected)
			return nil, errors.NewUpstreamError("Wafeq token exchange failed", pe.Status, pe.Body)
		}
		metrics.RecordProviderCall(integration.ProviderWafeq.String(), "exchange", metrics.ResultError)
		uc.logger.Errorw("wafeq token exchange failed", "location_id", locationID, "error", err)
		return nil, errors.NewInternalError("Wafeq token exchange failed").WithCause(err)
	}
	metrics.RecordProviderCall(integration.ProviderWafeq.String(), "exchange", metrics.ResultSuccess)

	record, err := integration.NewIntegration(
		integration.Key{Provider: integration.ProviderWafeq, LocationID: locationID},
		tokensFromExchange(tokenJSON),
		map[string]interface{}{
			"state":      nullableString(cmd.State),
			"stateValid": decoded.Valid,
			"raw":        tokenJSON,
		},
	)
	if err != nil {
		return nil, errors.NewInternalError("failed to build integration record").WithCause(err)
	}

	if err := uc.repo.Upsert(ctx, record); err != nil {
		uc.logger.Errorw("failed to store wafeq integration", "location_id", locationID, "error", err)
		return nil, errors.NewDatabaseError(fmt.Sprintf("DB error: %s", storeMessage(err))).WithCause(err)
	}

	uc.logger.Infow("wafeq integration connected",
		"location_id", locationID,
		"state_valid", decoded.Valid,
	)

	return &HandleWafeqCallbackResult{
		LocationID: locationID,
		StateValid: decoded.Valid,
	}, nil
}

// storeMessage returns the most specific text of a store failure.
func storeMessage(err error) string {
	if appErr := errors.GetAppError(err); appErr != nil && appErr.Details != "" {
		return appErr.Details
	}
	return err.Error()
}
