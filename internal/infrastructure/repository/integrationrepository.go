package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"integrationhub/internal/domain/integration"
	"integrationhub/internal/infrastructure/database"
	"integrationhub/internal/infrastructure/persistence/mappers"
	"integrationhub/internal/infrastructure/persistence/models"
	"integrationhub/internal/shared/biztime"
	"integrationhub/internal/shared/db"
	"integrationhub/internal/shared/errors"
	"integrationhub/internal/shared/logger"
)

// identityKeyColumn carries the unique index over the four identity columns.
var identityKeyColumn = []clause.Column{{Name: "identity_key"}}

// IntegrationRepository implements integration.Repository using GORM with
// Model/Mapper separation.
type IntegrationRepository struct {
	db     *gorm.DB
	mapper mappers.IntegrationMapper
	logger logger.Interface
}

func NewIntegrationRepository(gdb *gorm.DB, log logger.Interface) *IntegrationRepository {
	return &IntegrationRepository{
		db:     gdb,
		mapper: mappers.NewIntegrationMapper(),
		logger: log,
	}
}

func (r *IntegrationRepository) Upsert(ctx context.Context, entity *integration.Integration) error {
	if err := entity.Key.Validate(); err != nil {
		return errors.NewValidationError(err.Error())
	}
	entity.UpdatedAt = biztime.NowUTC()

	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return errors.NewInternalError("failed to map integration").WithCause(err)
	}

	err = db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   identityKeyColumn,
			DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expires_at", "meta", "updated_at"}),
		}).
		Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert integration", "key", entity.Key.String(), "error", err)
		return r.translate(err, "failed to upsert integration")
	}

	// Sync auto-generated ID back to the domain entity
	entity.ID = model.ID
	return nil
}

func (r *IntegrationRepository) Find(ctx context.Context, key integration.Key) (*integration.Integration, error) {
	var model models.IntegrationModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("identity_key = ?", identityKey(key)).
		First(&model).Error
	if err != nil {
		if database.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, r.translate(err, "failed to get integration")
	}
	return r.toDomain(&model)
}

// FindBy returns the most recently updated record of provider matching field.
func (r *IntegrationRepository) FindBy(ctx context.Context, provider integration.Provider, field integration.ScopeField, value string) (*integration.Integration, error) {
	if !field.IsValid() {
		return nil, errors.NewValidationError(fmt.Sprintf("unsupported lookup field %q", field))
	}

	var model models.IntegrationModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("provider = ?", provider.String()).
		Where(clause.Eq{Column: clause.Column{Name: string(field)}, Value: value}).
		Order("updated_at DESC").
		Order("id DESC").
		First(&model).Error
	if err != nil {
		if database.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, r.translate(err, "failed to get integration")
	}
	return r.toDomain(&model)
}

func (r *IntegrationRepository) Update(ctx context.Context, entity *integration.Integration) error {
	entity.UpdatedAt = biztime.NowUTC()
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return errors.NewInternalError("failed to map integration").WithCause(err)
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.IntegrationModel{}).
		Where("identity_key = ?", identityKey(entity.Key)).
		Updates(map[string]interface{}{
			"access_token":  model.AccessToken,
			"refresh_token": model.RefreshToken,
			"expires_at":    model.ExpiresAt,
			"meta":          model.Meta,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update integration", "key", entity.Key.String(), "error", result.Error)
		return r.translate(result.Error, "failed to update integration")
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("integration not found", entity.Key.String())
	}
	return nil
}

func (r *IntegrationRepository) Delete(ctx context.Context, key integration.Key) error {
	err := db.GetTxFromContext(ctx, r.db).
		Where("identity_key = ?", identityKey(key)).
		Delete(&models.IntegrationModel{}).Error
	if err != nil {
		return r.translate(err, "failed to delete integration")
	}
	return nil
}

func identityKey(key integration.Key) string {
	return models.IntegrationIdentityKey(key.Provider.String(), key.LocationID, key.CompanyID, key.UserID)
}

func (r *IntegrationRepository) toDomain(model *models.IntegrationModel) (*integration.Integration, error) {
	entity, err := r.mapper.ToDomain(model)
	if err != nil {
		return nil, errors.NewInternalError("failed to map integration").WithCause(err)
	}
	return entity, nil
}

// translate maps driver errors to AppErrors; unique violations become conflicts.
func (r *IntegrationRepository) translate(err error, message string) error {
	if database.IsUniqueViolation(err) {
		return errors.NewConflictError(message, err.Error()).WithCause(err)
	}
	return errors.NewDatabaseError(message, err.Error()).WithCause(err)
}
