package onboarding

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/shared"
)

// PresetFilter narrows preset listings
type PresetFilter struct {
	shared.Filter
	Category   Category
	ActiveOnly bool
	SystemOnly *bool
}

// PresetRepository defines the interface for preset persistence
type PresetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Preset, error)
	FindByName(ctx context.Context, name string) (*Preset, error)
	FindAll(ctx context.Context, filter PresetFilter) ([]Preset, int64, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, preset *Preset) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SessionRepository defines the interface for session persistence
type SessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)
	FindByToken(ctx context.Context, token string) (*Session, error)
	// FindExpirable returns open sessions whose link lapsed before now
	FindExpirable(ctx context.Context, now time.Time, limit int) ([]Session, error)
	Save(ctx context.Context, session *Session) error
}
