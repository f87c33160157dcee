package http

import (
	integrationUsecases "integrationhub/internal/application/integration/usecases"
	webhookUsecases "integrationhub/internal/application/webhook/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// OAuth
	connectWafeqUC        *integrationUsecases.ConnectWafeqUseCase
	handleWafeqCallbackUC *integrationUsecases.HandleWafeqCallbackUseCase
	handleCRMCallbackUC   *integrationUsecases.HandleCRMCallbackUseCase
	revokeWafeqUC         *integrationUsecases.RevokeWafeqUseCase

	// Integration
	linkWafeqAPIKeyUC *integrationUsecases.LinkWafeqAPIKeyUseCase
	searchContactsUC  *integrationUsecases.SearchContactsUseCase

	// Webhook
	ingestWebhookUC *webhookUsecases.IngestWebhookUseCase
}

func (c *Container) initUseCases() {
	log := c.log
	repos := c.repos

	c.ucs = &allUseCases{
		connectWafeqUC: integrationUsecases.NewConnectWafeqUseCase(
			c.cfg.WafeqOAuth, c.stateCodec, log,
		),
		handleWafeqCallbackUC: integrationUsecases.NewHandleWafeqCallbackUseCase(
			repos.integrationRepo, c.providerClient, c.cfg.WafeqOAuth, c.stateCodec, log,
		),
		handleCRMCallbackUC: integrationUsecases.NewHandleCRMCallbackUseCase(
			repos.integrationRepo, c.providerClient, c.sessionStorage, c.cfg.CRMOAuth, log,
		),
		revokeWafeqUC: integrationUsecases.NewRevokeWafeqUseCase(
			repos.integrationRepo, c.providerClient, c.cfg.WafeqOAuth, log,
		),
		linkWafeqAPIKeyUC: integrationUsecases.NewLinkWafeqAPIKeyUseCase(
			repos.integrationRepo, c.providerClient, c.cfg.Wafeq.ProbeURL, log,
		),
		searchContactsUC: integrationUsecases.NewSearchContactsUseCase(c.crmClient, log),
		ingestWebhookUC: webhookUsecases.NewIngestWebhookUseCase(
			repos.webhookEventRepo, c.signatureVerifier, log,
		),
	}
}
