package http

import (
	"gorm.io/gorm"

	"integrationhub/internal/domain/integration"
	"integrationhub/internal/domain/webhook"
	"integrationhub/internal/infrastructure/repository"
	"integrationhub/internal/shared/db"
	"integrationhub/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	integrationRepo  integration.Repository
	webhookEventRepo webhook.Repository
	txManager        *db.TransactionManager
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(gdb *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		integrationRepo:  repository.NewIntegrationRepository(gdb, log),
		webhookEventRepo: repository.NewWebhookEventRepository(gdb, log),
		txManager:        db.NewTransactionManager(gdb),
	}
}
