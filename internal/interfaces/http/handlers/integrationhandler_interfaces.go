package handlers

import (
	"context"

	"integrationhub/internal/application/integration/usecases"
	webhookUsecases "integrationhub/internal/application/webhook/usecases"
)

// Use case interfaces for the integration handlers - enables unit testing with mocks.

type connectWafeqUseCase interface {
	Execute(ctx context.Context, cmd usecases.ConnectWafeqCommand) (*usecases.ConnectWafeqResult, error)
}

type handleWafeqCallbackUseCase interface {
	Execute(ctx context.Context, cmd usecases.HandleWafeqCallbackCommand) (*usecases.HandleWafeqCallbackResult, error)
}

type handleCRMCallbackUseCase interface {
	Execute(ctx context.Context, cmd usecases.HandleCRMCallbackCommand) (*usecases.HandleCRMCallbackResult, error)
}

type revokeWafeqUseCase interface {
	Execute(ctx context.Context, cmd usecases.RevokeWafeqCommand) (*usecases.RevokeWafeqResult, error)
}

type linkWafeqAPIKeyUseCase interface {
	Execute(ctx context.Context, cmd usecases.LinkWafeqAPIKeyCommand) (*usecases.LinkWafeqAPIKeyResult, error)
}

type searchContactsUseCase interface {
	Execute(ctx context.Context, query usecases.SearchContactsQuery) (*usecases.SearchContactsResult, error)
}

type ingestWebhookUseCase interface {
	Execute(ctx context.Context, cmd webhookUsecases.IngestWebhookCommand) (*webhookUsecases.IngestWebhookResult, error)
}
