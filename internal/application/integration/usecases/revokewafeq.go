package usecases

import (
	"context"
	"fmt"
	"strings"

	"integrationhub/internal/domain/integration"
	"integrationhub/internal/infrastructure/metrics"
	"integrationhub/internal/infrastructure/oauth"
	"integrationhub/internal/shared/biztime"
	"integrationhub/internal/shared/constants"
	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
)

type RevokeWafeqCommand struct {
	LocationID string
	CompanyID  string
	UserID     string
}

type RevokeWafeqResult struct {
	LocationID string
}

type RevokeWafeqExecutor interface {
	Execute(ctx context.Context, cmd RevokeWafeqCommand) (*RevokeWafeqResult, error)
}

// RevokeWafeqUseCase revokes the stored accounting token at the provider and then
// disconnects the record in place.
type RevokeWafeqUseCase struct {
	repo     integration.Repository
	client   ProviderClient
	settings SettingsFunc
	logger   logger.Interface
}

func NewRevokeWafeqUseCase(
	repo integration.Repository,
	client ProviderClient,
	settings SettingsFunc,
	logger logger.Interface,
) *RevokeWafeqUseCase {
	return &RevokeWafeqUseCase{
		repo:     repo,
		client:   client,
		settings: settings,
		logger:   logger,
	}
}

func (uc *RevokeWafeqUseCase) Execute(ctx context.Context, cmd RevokeWafeqCommand) (*RevokeWafeqResult, error) {
	key := integration.Key{
		Provider:   integration.ProviderWafeq,
		LocationID: strings.TrimSpace(cmd.LocationID),
		CompanyID:  strings.TrimSpace(cmd.CompanyID),
		UserID:     strings.TrimSpace(cmd.UserID),
	}
	if key.LocationID == "" {
		return nil, errors.NewValidationError(constants.MsgMissingLocationID)
	}

	settings, err := uc.settings()
	if err != nil {
		uc.logger.Errorw("wafeq oauth is not configured", "error", err)
		return nil, err
	}

	record, err := uc.repo.Find(ctx, key)
	if err != nil {
		uc.logger.Errorw("failed to load wafeq integration", "key", key.String(), "error", err)
		return nil, errors.NewDatabaseError(fmt.Sprintf("DB fetch error: %s", storeMessage(err))).WithCause(err)
	}
	if record == nil {
		return nil, errors.NewNotFoundError("Wafeq integration not found for this locationId")
	}

	token := record.RevocableToken()
	if token == "" {
		return nil, errors.NewBadRequestError("No token stored for this integration")
	}

	if err := uc.client.Revoke(ctx, settings, token); err != nil {
		if pe, ok := oauth.AsProviderError(err); ok {
			metrics.RecordProviderCall(integration.ProviderWafeq.String(), "revoke", metrics.ResultRejected)
			uc.logger.Warnw("wafeq rejected token revocation", "key", key.String(), "status", pe.Status)
			return nil, errors.NewUpstreamError("Wafeq revoke failed", pe.Status, pe.Body)
		}
		metrics.RecordProviderCall(integration.ProviderWafeq.String(), "revoke", metrics.ResultError)
		uc.logger.Errorw("wafeq revoke request failed", "key", key.String(), "error", err)
		return nil, errors.NewInternalError("Wafeq revoke failed").WithCause(err)
	}
	metrics.RecordProviderCall(integration.ProviderWafeq.String(), "revoke", metrics.ResultSuccess)

	record.Revoke(biztime.NowUTC())
	if err := uc.repo.Update(ctx, record); err != nil {
		uc.logger.Errorw("failed to disconnect wafeq integration", "key", key.String(), "error", err)
		return nil, errors.NewDatabaseError(fmt.Sprintf("DB update error: %s", storeMessage(err))).WithCause(err)
	}

	uc.logger.Infow("wafeq integration revoked", "key", key.String())

	return &RevokeWafeqResult{LocationID: key.LocationID}, nil
}
