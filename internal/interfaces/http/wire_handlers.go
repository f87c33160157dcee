package http

import (
	"context"

	"integrationhub/internal/infrastructure/database"
	"integrationhub/internal/interfaces/http/handlers"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler      *handlers.HealthHandler
	webhookHandler     *handlers.WebhookHandler
	oauthHandler       *handlers.OAuthHandler
	integrationHandler *handlers.IntegrationHandler
}

func (c *Container) initHandlers() {
	log := c.log
	ucs := c.ucs

	c.hdlrs = &allHandlers{
		healthHandler: handlers.NewHealthHandler(func(ctx context.Context) error {
			return database.Ping(ctx, c.db)
		}, log),
		webhookHandler: handlers.NewWebhookHandler(ucs.ingestWebhookUC, log),
		oauthHandler: handlers.NewOAuthHandler(
			ucs.connectWafeqUC,
			ucs.handleWafeqCallbackUC,
			ucs.handleCRMCallbackUC,
			ucs.revokeWafeqUC,
			log,
		),
		integrationHandler: handlers.NewIntegrationHandler(ucs.linkWafeqAPIKeyUC, ucs.searchContactsUC, log),
	}
}
