// Package onboarding implements preset administration and the onboarding
// session workflow.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/onboarding"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var errPresetNameTaken = shared.NewDomainError("ALREADY_EXISTS", "A preset with this name already exists")

// PresetService administers onboarding presets
type PresetService struct {
	repo          onboarding.PresetRepository
	steps         onboarding.StepSet
	defaultExpiry int
	metrics       *telemetry.LifecycleMetrics
	logger        *zap.Logger
}

// PresetOption configures a PresetService
type PresetOption func(*PresetService)

// WithStepSet restricts the steps a preset may reference
func WithStepSet(steps onboarding.StepSet) PresetOption {
	return func(s *PresetService) { s.steps = steps }
}

// WithDefaultLinkExpiry sets the link expiry used when a request sends none
func WithDefaultLinkExpiry(days int) PresetOption {
	return func(s *PresetService) {
		if days > 0 {
			s.defaultExpiry = days
		}
	}
}

// WithPresetMetrics enables the seeding counter
func WithPresetMetrics(m *telemetry.LifecycleMetrics) PresetOption {
	return func(s *PresetService) { s.metrics = m }
}

// NewPresetService creates a new PresetService
func NewPresetService(repo onboarding.PresetRepository, logger *zap.Logger, opts ...PresetOption) *PresetService {
	s := &PresetService{
		repo:          repo,
		steps:         onboarding.KnownSteps(),
		defaultExpiry: onboarding.DefaultLinkExpiryDays,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create creates a custom preset
func (s *PresetService) Create(ctx context.Context, req PresetRequest) (*PresetResponse, error) {
	if err := s.ensureNameFree(ctx, req.Name, nil); err != nil {
		return nil, err
	}
	preset, err := onboarding.NewPreset(req.toConfig(s.defaultExpiry), s.steps)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, preset); err != nil {
		return nil, err
	}

	s.logger.Info("Onboarding preset created",
		zap.String("preset_id", preset.ID.String()),
		zap.String("name", preset.Name),
	)
	out := ToPresetResponse(preset)
	return &out, nil
}

// Update replaces the content of a preset. System presets stay system presets.
func (s *PresetService) Update(ctx context.Context, id uuid.UUID, req PresetRequest) (*PresetResponse, error) {
	preset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name, &id); err != nil {
		return nil, err
	}
	if err := preset.Update(req.toConfig(s.defaultExpiry), s.steps); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, preset); err != nil {
		return nil, err
	}
	out := ToPresetResponse(preset)
	return &out, nil
}

// GetByID returns one preset
func (s *PresetService) GetByID(ctx context.Context, id uuid.UUID) (*PresetResponse, error) {
	preset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToPresetResponse(preset)
	return &out, nil
}

// List pages through presets
func (s *PresetService) List(ctx context.Context, q PresetListQuery) (shared.Paginated[PresetListResponse], error) {
	filter := onboarding.PresetFilter{
		Filter:     shared.DefaultFilter(),
		Category:   onboarding.Category(q.Category),
		ActiveOnly: q.ActiveOnly,
		SystemOnly: q.IsSystem,
	}
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.Search = q.Search
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		filter.OrderDir = q.OrderDir
	}

	filter.Filter = filter.Filter.Normalized()

	presets, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[PresetListResponse]{}, err
	}
	items := make([]PresetListResponse, len(presets))
	for i, p := range presets {
		items[i] = PresetListResponse{
			ID:             p.ID,
			Name:           p.Name,
			Category:       p.Category,
			Icon:           p.Icon,
			IsSystem:       p.IsSystem,
			IsActive:       p.IsActive,
			StepCount:      len(p.StepsConfig.EnabledSteps()),
			LinkExpiryDays: p.LinkExpiryDays,
		}
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Delete removes a custom preset. System presets are refused with
// ErrSystemPresetProtected.
func (s *PresetService) Delete(ctx context.Context, id uuid.UUID) error {
	preset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := preset.CanDelete(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Onboarding preset deleted",
		zap.String("preset_id", id.String()),
		zap.String("name", preset.Name),
	)
	return nil
}

// Duplicate copies a preset into a new custom preset. The copy is named
// "<name> (Copy)" unless a name is given.
func (s *PresetService) Duplicate(ctx context.Context, id uuid.UUID, req DuplicatePresetRequest) (*PresetResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "onboarding_preset", "duplicate",
		telemetry.AttrPresetID.String(id.String()))
	defer span.End()

	source, err := s.repo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	name := req.Name
	if name == "" {
		name = source.Name + " (Copy)"
	}
	if err := s.ensureNameFree(ctx, name, nil); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	copied, err := source.Duplicate(name, s.steps)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.repo.Save(ctx, copied); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	out := ToPresetResponse(copied)
	return &out, nil
}

// SeedSystemPresets inserts the built-in presets that are missing. Existing
// presets are matched by name and left untouched.
func (s *PresetService) SeedSystemPresets(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{Created: []string{}, Skipped: []string{}}
	for _, cfg := range onboarding.SystemPresetConfigs() {
		exists, err := s.repo.ExistsByName(ctx, cfg.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("check preset %q: %w", cfg.Name, err)
		}
		if exists {
			result.Skipped = append(result.Skipped, cfg.Name)
			continue
		}
		preset, err := onboarding.NewSystemPreset(cfg, s.steps)
		if err != nil {
			return nil, fmt.Errorf("build preset %q: %w", cfg.Name, err)
		}
		if err := s.repo.Save(ctx, preset); err != nil {
			return nil, fmt.Errorf("save preset %q: %w", cfg.Name, err)
		}
		result.Created = append(result.Created, cfg.Name)
	}

	s.metrics.PresetsSeeded(ctx, len(result.Created))
	s.logger.Info("System presets seeded",
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

func (s *PresetService) ensureNameFree(ctx context.Context, name string, excludeID *uuid.UUID) error {
	exists, err := s.repo.ExistsByName(ctx, strings.TrimSpace(name), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return errPresetNameTaken
	}
	return nil
}

// isNotFound is shared by the session service
func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
