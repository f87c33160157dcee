package usecases

import (
	"context"
	"strings"

	"integrationhub/internal/infrastructure/oauth"
	"integrationhub/internal/shared/constants"
	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
)

type ConnectWafeqCommand struct {
	LocationID string
}

type ConnectWafeqResult struct {
	RedirectURL string
	State       string
}

type ConnectWafeqExecutor interface {
	Execute(ctx context.Context, cmd ConnectWafeqCommand) (*ConnectWafeqResult, error)
}

// ConnectWafeqUseCase starts the accounting OAuth flow by building the consent redirect.
type ConnectWafeqUseCase struct {
	settings SettingsFunc
	state    StateCodec
	logger   logger.Interface
}

func NewConnectWafeqUseCase(settings SettingsFunc, state StateCodec, logger logger.Interface) *ConnectWafeqUseCase {
	return &ConnectWafeqUseCase{
		settings: settings,
		state:    state,
		logger:   logger,
	}
}

func (uc *ConnectWafeqUseCase) Execute(ctx context.Context, cmd ConnectWafeqCommand) (*ConnectWafeqResult, error) {
	locationID := strings.TrimSpace(cmd.LocationID)
	if locationID == "" {
		return nil, errors.NewValidationError(constants.MsgMissingLocationID)
	}

	settings, err := uc.settings()
	if err != nil {
		uc.logger.Errorw("wafeq oauth is not configured", "error", err)
		return nil, err
	}

	state := uc.state.Encode(locationID)
	redirect := oauth.AuthorizeURL(settings, state)

	uc.logger.Infow("redirecting to wafeq consent page", "location_id", locationID)

	return &ConnectWafeqResult{
		RedirectURL: redirect,
		State:       state,
	}, nil
}
