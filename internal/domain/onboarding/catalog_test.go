package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPresetConfigs(t *testing.T) {
	configs := SystemPresetConfigs()
	names := map[string]bool{}

	for _, cfg := range configs {
		t.Run(cfg.Name, func(t *testing.T) {
			p, err := NewSystemPreset(cfg, KnownSteps())
			require.NoError(t, err)
			assert.True(t, p.IsSystem)
			assert.True(t, p.IsActive)
			assert.NotEmpty(t, p.DefaultFees)
			assert.Contains(t, p.Messaging.InvitationSMSBody, "{{link}}")
		})
		assert.False(t, names[cfg.Name], "duplicate preset name %s", cfg.Name)
		names[cfg.Name] = true
	}

	assert.Len(t, configs, 7)
}

func TestSystemPresetConfigs_QuickMoveIn(t *testing.T) {
	p := catalogPreset(t, PresetQuickMoveIn)

	for _, step := range []Step{StepOccupants, StepPets, StepVehicles, StepEmployment, StepInsurance, StepIDVerification, StepMoveInSchedule} {
		assert.False(t, p.StepsConfig.IsEnabled(step), step)
	}
	assert.Equal(t, 7, p.LinkExpiryDays)
}

func TestSystemPresetConfigs_PetFriendlyRequiresPets(t *testing.T) {
	p := catalogPreset(t, PresetPetFriendly)
	assert.True(t, p.StepsConfig.IsRequired(StepPets))
	assert.Equal(t, 5, p.StepsConfig[StepPets].Order)
	assert.Len(t, p.DefaultFees, 4)
}
