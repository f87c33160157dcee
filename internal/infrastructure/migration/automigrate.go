package migration

import (
	"integrationhub/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the models created by the AutoMigrate strategy.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.IntegrationModel{},
		&models.WebhookEventModel{},
	}
}
