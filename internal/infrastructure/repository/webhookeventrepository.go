package repository

import (
	"context"

	"gorm.io/gorm"

	"integrationhub/internal/domain/webhook"
	"integrationhub/internal/infrastructure/database"
	"integrationhub/internal/infrastructure/persistence/mappers"
	"integrationhub/internal/infrastructure/persistence/models"
	"integrationhub/internal/shared/biztime"
	"integrationhub/internal/shared/db"
	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
)

// WebhookEventRepository implements webhook.Repository using GORM.
type WebhookEventRepository struct {
	db     *gorm.DB
	mapper mappers.WebhookEventMapper
	logger logger.Interface
}

func NewWebhookEventRepository(gdb *gorm.DB, log logger.Interface) *WebhookEventRepository {
	return &WebhookEventRepository{
		db:     gdb,
		mapper: mappers.NewWebhookEventMapper(),
		logger: log,
	}
}

// Insert relies on the unique webhook_key index; a violation is a redelivery.
func (r *WebhookEventRepository) Insert(ctx context.Context, event *webhook.Event) (webhook.StoreResult, error) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = biztime.NowUTC()
	}
	model := r.mapper.ToModel(event)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if database.IsUniqueViolation(err) {
			r.logger.Debugw("duplicate webhook delivery", "webhook_id", event.WebhookID)
			return webhook.StoreDuplicate, nil
		}
		return webhook.StoreInserted, errors.NewDatabaseError("failed to insert webhook event", err.Error()).WithCause(err)
	}

	event.ID = model.ID
	return webhook.StoreInserted, nil
}

func (r *WebhookEventRepository) FindByWebhookID(ctx context.Context, webhookID string) (*webhook.Event, error) {
	var model models.WebhookEventModel
	err := db.GetTxFromContext(ctx, r.db).Where("webhook_key = ?", models.WebhookKey(webhookID)).First(&model).Error
	if err != nil {
		if database.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, errors.NewDatabaseError("failed to get webhook event", err.Error()).WithCause(err)
	}
	return r.mapper.ToDomain(&model), nil
}
