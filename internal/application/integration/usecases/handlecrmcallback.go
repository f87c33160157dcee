package usecases

import (
	"context"
	"fmt"

	"integrationhub/internal/domain/integration"
	"integrationhub/internal/infrastructure/crm"
	"integrationhub/internal/infrastructure/metrics"
	"integrationhub/internal/infrastructure/oauth"
	"integrationhub/internal/shared/constants"
	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
	"integrationhub/internal/shared/utils/jsonutil"
)

type HandleCRMCallbackCommand struct {
	Code       string
	State      string
	LocationID string
	CompanyID  string
}

type HandleCRMCallbackResult struct {
	LocationID string
	CompanyID  string
	// SessionWarning is set when the tokens were stored but the session mirror failed.
	SessionWarning string
}

type HandleCRMCallbackExecutor interface {
	Execute(ctx context.Context, cmd HandleCRMCallbackCommand) (*HandleCRMCallbackResult, error)
}

// HandleCRMCallbackUseCase completes the CRM OAuth flow and mirrors the tokens into
// session rows for the API client.
type HandleCRMCallbackUseCase struct {
	repo     integration.Repository
	client   ProviderClient
	sessions SessionMirror
	settings SettingsFunc
	logger   logger.Interface
}

func NewHandleCRMCallbackUseCase(
	repo integration.Repository,
	client ProviderClient,
	sessions SessionMirror,
	settings SettingsFunc,
	logger logger.Interface,
) *HandleCRMCallbackUseCase {
	return &HandleCRMCallbackUseCase{
		repo:     repo,
		client:   client,
		sessions: sessions,
		settings: settings,
		logger:   logger,
	}
}

func (uc *HandleCRMCallbackUseCase) Execute(ctx context.Context, cmd HandleCRMCallbackCommand) (*HandleCRMCallbackResult, error) {
	if cmd.Code == "" {
		return nil, errors.NewValidationError(constants.MsgMissingCode)
	}

	settings, err := uc.settings()
	if err != nil {
		uc.logger.Errorw("crm oauth is not configured", "error", err)
		return nil, err
	}

	tokenJSON, err := uc.client.ExchangeCode(ctx, settings, cmd.Code)
	if err != nil {
		if pe, ok := oauth.AsProviderError(err); ok {
			metrics.RecordProviderCall(integration.ProviderCRM.String(), "exchange", metrics.ResultRejected)
			return nil, errors.NewUpstreamError("GHL token exchange failed", pe.Status, pe.Body)
		}
		metrics.RecordProviderCall(integration.ProviderCRM.String(), "exchange", metrics.ResultError)
		uc.logger.Errorw("crm token exchange failed", "error", err)
		return nil, errors.NewInternalError("GHL token exchange failed").WithCause(err)
	}
	metrics.RecordProviderCall(integration.ProviderCRM.String(), "exchange", metrics.ResultSuccess)

	// query parameters win over identifiers echoed in the token body
	locationID := cmd.LocationID
	if locationID == "" {
		locationID = jsonutil.String(tokenJSON, "locationId", "location_id")
	}
	companyID := cmd.CompanyID
	if companyID == "" {
		companyID = jsonutil.String(tokenJSON, "companyId", "company_id")
	}

	record, err := integration.NewIntegration(
		integration.Key{Provider: integration.ProviderCRM, LocationID: locationID, CompanyID: companyID},
		tokensFromExchange(tokenJSON),
		map[string]interface{}{
			"state": nullableString(cmd.State),
			"raw":   tokenJSON,
		},
	)
	if err != nil {
		return nil, errors.NewInternalError("failed to build integration record").WithCause(err)
	}

	if err := uc.repo.Upsert(ctx, record); err != nil {
		uc.logger.Errorw("failed to store crm integration",
			"location_id", locationID,
			"company_id", companyID,
			"error", err,
		)
		return nil, errors.NewDatabaseError(fmt.Sprintf("DB error: %s", storeMessage(err))).WithCause(err)
	}

	result := &HandleCRMCallbackResult{
		LocationID: locationID,
		CompanyID:  companyID,
	}

	if err := uc.sessions.SaveOAuthGrant(ctx, crm.OAuthGrant{
		LocationID: locationID,
		CompanyID:  companyID,
		TokenJSON:  tokenJSON,
	}); err != nil {
		uc.logger.Warnw("crm session mirror failed",
			"location_id", locationID,
			"company_id", companyID,
			"error", err,
		)
		result.SessionWarning = err.Error()
	}

	uc.logger.Infow("crm integration connected",
		"location_id", locationID,
		"company_id", companyID,
	)

	return result, nil
}
