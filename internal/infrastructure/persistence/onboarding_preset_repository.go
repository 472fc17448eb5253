package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/onboarding"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPresetRepository implements onboarding.PresetRepository using GORM
type GormPresetRepository struct {
	db *gorm.DB
}

// NewGormPresetRepository creates a new GormPresetRepository
func NewGormPresetRepository(db *gorm.DB) *GormPresetRepository {
	return &GormPresetRepository{db: db}
}

// FindByID finds a preset by its ID
func (r *GormPresetRepository) FindByID(ctx context.Context, id uuid.UUID) (*onboarding.Preset, error) {
	var model models.OnboardingPresetModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByName finds a preset by its unique name
func (r *GormPresetRepository) FindByName(ctx context.Context, name string) (*onboarding.Preset, error) {
	var model models.OnboardingPresetModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists presets matching the filter together with the total count
func (r *GormPresetRepository) FindAll(ctx context.Context, filter onboarding.PresetFilter) ([]onboarding.Preset, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OnboardingPresetModel{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.SystemOnly != nil {
		query = query.Where("is_system = ?", *filter.SystemOnly)
	}
	if filter.Search != "" {
		keyword := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", keyword, keyword)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var presetModels []models.OnboardingPresetModel
	if err := presetSort.page(query, filter.Filter).Find(&presetModels).Error; err != nil {
		return nil, 0, err
	}

	presets := make([]onboarding.Preset, len(presetModels))
	for i, model := range presetModels {
		presets[i] = *model.ToDomain()
	}
	return presets, total, nil
}

// ExistsByName reports whether another preset already uses name
func (r *GormPresetRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.OnboardingPresetModel{}).Where("name = ?", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a preset
func (r *GormPresetRepository) Save(ctx context.Context, preset *onboarding.Preset) error {
	model := models.OnboardingPresetModelFromDomain(preset)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}

// Delete removes a preset. Sessions created from it keep their snapshot.
func (r *GormPresetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OnboardingPresetModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
