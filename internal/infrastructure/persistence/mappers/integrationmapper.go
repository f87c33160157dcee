package mappers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"integrationhub/internal/domain/integration"
	"integrationhub/internal/infrastructure/persistence/models"
)

// IntegrationMapper handles the conversion between domain entities and persistence models.
type IntegrationMapper interface {
	ToModel(entity *integration.Integration) (*models.IntegrationModel, error)
	ToDomain(model *models.IntegrationModel) (*integration.Integration, error)
}

type IntegrationMapperImpl struct{}

func NewIntegrationMapper() IntegrationMapper {
	return &IntegrationMapperImpl{}
}

// ToModel converts a domain entity to a persistence model.
func (m *IntegrationMapperImpl) ToModel(entity *integration.Integration) (*models.IntegrationModel, error) {
	if entity == nil {
		return nil, nil
	}
	meta, err := encodeJSONObject(entity.Meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode integration meta: %w", err)
	}
	return &models.IntegrationModel{
		ID:           entity.ID,
		Provider:     entity.Provider.String(),
		LocationID:   entity.LocationID,
		CompanyID:    entity.CompanyID,
		UserID:       entity.UserID,
		AccessToken:  entity.AccessToken,
		RefreshToken: entity.RefreshToken,
		ExpiresAt:    entity.ExpiresAt,
		Meta:         meta,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}, nil
}

// ToDomain converts a persistence model to a domain entity.
func (m *IntegrationMapperImpl) ToDomain(model *models.IntegrationModel) (*integration.Integration, error) {
	if model == nil {
		return nil, nil
	}
	meta, err := decodeJSONObject(model.Meta)
	if err != nil {
		return nil, fmt.Errorf("failed to decode integration meta: %w", err)
	}
	return &integration.Integration{
		ID: model.ID,
		Key: integration.Key{
			Provider:   integration.Provider(model.Provider),
			LocationID: model.LocationID,
			CompanyID:  model.CompanyID,
			UserID:     model.UserID,
		},
		AccessToken:  model.AccessToken,
		RefreshToken: model.RefreshToken,
		ExpiresAt:    model.ExpiresAt,
		Meta:         meta,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}, nil
}

func encodeJSONObject(v map[string]interface{}) (datatypes.JSON, error) {
	if v == nil {
		return datatypes.JSON("{}"), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// decodeJSONObject keeps numbers as json.Number so provider payloads round-trip unchanged.
// Non-object values decode to an empty map.
func decodeJSONObject(raw datatypes.JSON) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if obj, ok := v.(map[string]interface{}); ok {
		return obj, nil
	}
	return out, nil
}
