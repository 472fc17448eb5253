package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/onboarding"
	"github.com/propertyhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSessionRepository implements onboarding.SessionRepository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// FindByID finds a session by its ID
func (r *GormSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*onboarding.Session, error) {
	var model models.OnboardingSessionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByToken finds a session by its access token
func (r *GormSessionRepository) FindByToken(ctx context.Context, token string) (*onboarding.Session, error) {
	var model models.OnboardingSessionModel
	if err := r.db.WithContext(ctx).Where("access_token = ?", token).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindExpirable returns open sessions whose link lapsed before now, oldest first
func (r *GormSessionRepository) FindExpirable(ctx context.Context, now time.Time, limit int) ([]onboarding.Session, error) {
	if limit <= 0 {
		limit = 100
	}
	var sessionModels []models.OnboardingSessionModel
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND token_expires_at <= ?", []string{
			string(onboarding.SessionInvited),
			string(onboarding.SessionStarted),
			string(onboarding.SessionInProgress),
		}, now).
		Order("token_expires_at ASC").
		Limit(limit).
		Find(&sessionModels).Error; err != nil {
		return nil, err
	}
	sessions := make([]onboarding.Session, len(sessionModels))
	for i, model := range sessionModels {
		sessions[i] = *model.ToDomain()
	}
	return sessions, nil
}

// Save creates or updates a session
func (r *GormSessionRepository) Save(ctx context.Context, session *onboarding.Session) error {
	model := models.OnboardingSessionModelFromDomain(session)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}
