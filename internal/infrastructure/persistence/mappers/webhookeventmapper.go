package mappers

import (
	"gorm.io/datatypes"

	"integrationhub/internal/domain/webhook"
	"integrationhub/internal/infrastructure/persistence/models"
)

// WebhookEventMapper handles the conversion between domain entities and persistence models.
type WebhookEventMapper interface {
	ToModel(entity *webhook.Event) *models.WebhookEventModel
	ToDomain(model *models.WebhookEventModel) *webhook.Event
}

type WebhookEventMapperImpl struct{}

func NewWebhookEventMapper() WebhookEventMapper {
	return &WebhookEventMapperImpl{}
}

func (m *WebhookEventMapperImpl) ToModel(entity *webhook.Event) *models.WebhookEventModel {
	if entity == nil {
		return nil
	}
	return &models.WebhookEventModel{
		ID:               entity.ID,
		WebhookID:        entity.WebhookID,
		EventType:        entity.EventType,
		LocationID:       entity.LocationID,
		CompanyID:        entity.CompanyID,
		WebhookTimestamp: entity.WebhookTimestamp,
		SignatureValid:   entity.SignatureValid,
		Status:           string(entity.Status),
		Payload:          datatypes.JSON(entity.Payload),
		CreatedAt:        entity.CreatedAt,
	}
}

func (m *WebhookEventMapperImpl) ToDomain(model *models.WebhookEventModel) *webhook.Event {
	if model == nil {
		return nil
	}
	return &webhook.Event{
		ID:               model.ID,
		WebhookID:        model.WebhookID,
		EventType:        model.EventType,
		LocationID:       model.LocationID,
		CompanyID:        model.CompanyID,
		WebhookTimestamp: model.WebhookTimestamp,
		SignatureValid:   model.SignatureValid,
		Status:           webhook.Status(model.Status),
		Payload:          []byte(model.Payload),
		CreatedAt:        model.CreatedAt,
	}
}
