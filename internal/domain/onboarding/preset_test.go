package onboarding

import (
	"errors"
	"strings"
	"testing"

	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() PresetConfig {
	return PresetConfig{
		Name:        "Downtown Lofts",
		Category:    CategoryResidential,
		IsActive:    true,
		StepsConfig: DefaultStepsConfig(),
		Messaging: Messaging{
			MoveInChecklist:   []string{"Get keys"},
			InvitationSMSBody: "Finish at {{link}}",
		},
		DefaultFees: []FeeSpec{FixedFee(FeeKeyDeposit, "Key", decimal.NewFromInt(25), true, true)},
	}
}

func TestNewPreset(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg := validConfig()
		cfg.StepsConfig = nil
		cfg.Category = ""

		p, err := NewPreset(cfg, KnownSteps())

		require.NoError(t, err)
		assert.Equal(t, DefaultIcon, p.Icon)
		assert.Equal(t, CategoryCustom, p.Category)
		assert.Equal(t, DefaultLinkExpiryDays, p.LinkExpiryDays)
		assert.Equal(t, DefaultInvitationEmailSubject, p.Messaging.InvitationEmailSubject)
		assert.Equal(t, DefaultStepsConfig(), p.StepsConfig)
		assert.False(t, p.IsSystem)
	})

	t.Run("rejects long SMS body", func(t *testing.T) {
		cfg := validConfig()
		cfg.Messaging.InvitationSMSBody = strings.Repeat("x", MaxSMSLength+1)
		_, err := NewPreset(cfg, KnownSteps())
		assert.Error(t, err)
	})

	t.Run("rejects non positive expiry", func(t *testing.T) {
		cfg := validConfig()
		cfg.LinkExpiryDays = -3
		_, err := NewPreset(cfg, KnownSteps())
		assert.Error(t, err)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		cfg := validConfig()
		cfg.Category = "castle"
		_, err := NewPreset(cfg, KnownSteps())
		assert.Error(t, err)
	})

	t.Run("rejects invalid fee", func(t *testing.T) {
		cfg := validConfig()
		cfg.DefaultFees = append(cfg.DefaultFees, FeeSpec{FeeType: FeeOther})
		_, err := NewPreset(cfg, KnownSteps())
		assert.Error(t, err)
	})

	t.Run("does not alias caller slices", func(t *testing.T) {
		cfg := validConfig()
		p, err := NewPreset(cfg, KnownSteps())
		require.NoError(t, err)

		cfg.Messaging.MoveInChecklist[0] = "changed"
		cfg.StepsConfig[StepPets] = StepSettings{Enabled: false}

		assert.Equal(t, "Get keys", p.Messaging.MoveInChecklist[0])
		assert.True(t, p.StepsConfig.IsEnabled(StepPets))
	})
}

func TestPreset_CanDelete(t *testing.T) {
	system, err := NewSystemPreset(validConfig(), KnownSteps())
	require.NoError(t, err)
	assert.True(t, errors.Is(system.CanDelete(), shared.ErrSystemPresetProtected))

	custom, err := NewPreset(validConfig(), KnownSteps())
	require.NoError(t, err)
	assert.NoError(t, custom.CanDelete())
}

func TestPreset_Update(t *testing.T) {
	p, err := NewPreset(validConfig(), KnownSteps())
	require.NoError(t, err)

	cfg := p.Config()
	cfg.LinkExpiryDays = 30
	require.NoError(t, p.Update(cfg, KnownSteps()))
	assert.Equal(t, 30, p.LinkExpiryDays)
	assert.Equal(t, 2, p.Version)

	cfg.Name = ""
	assert.Error(t, p.Update(cfg, KnownSteps()))
	assert.Equal(t, "Downtown Lofts", p.Name)
}

func TestPreset_SnapshotIsIndependent(t *testing.T) {
	p, err := NewPreset(validConfig(), KnownSteps())
	require.NoError(t, err)

	snap, err := p.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, p.ID, snap.PresetID)
	assert.Equal(t, p.StepsConfig, snap.StepsConfig)

	t.Run("mutating the snapshot leaves the preset alone", func(t *testing.T) {
		snap.StepsConfig[StepPets] = StepSettings{Enabled: false, Order: 5}
		*snap.DefaultFees[0].Amount = decimal.NewFromInt(9999)
		snap.Messaging.MoveInChecklist[0] = "mutated"

		assert.True(t, p.StepsConfig.IsEnabled(StepPets))
		assert.True(t, p.DefaultFees[0].Amount.Equal(decimal.NewFromInt(25)))
		assert.Equal(t, "Get keys", p.Messaging.MoveInChecklist[0])
	})

	t.Run("mutating the preset leaves a taken snapshot alone", func(t *testing.T) {
		again, err := p.Snapshot()
		require.NoError(t, err)

		p.StepsConfig[StepWelcome] = StepSettings{Enabled: false, Order: 13}
		p.DefaultFees[0].Name = "Renamed"

		assert.True(t, again.StepsConfig.IsEnabled(StepWelcome))
		assert.Equal(t, "Key", again.DefaultFees[0].Name)
	})
}

func TestPreset_Duplicate(t *testing.T) {
	system, err := NewSystemPreset(validConfig(), KnownSteps())
	require.NoError(t, err)

	dup, err := system.Duplicate("Downtown Lofts (Copy)", KnownSteps())
	require.NoError(t, err)

	assert.NotEqual(t, system.ID, dup.ID)
	assert.False(t, dup.IsSystem)
	assert.Equal(t, system.StepsConfig, dup.StepsConfig)

	dup.StepsConfig[StepPets] = StepSettings{}
	assert.True(t, system.StepsConfig.IsEnabled(StepPets))
}
