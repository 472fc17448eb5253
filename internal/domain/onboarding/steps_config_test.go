package onboarding

import (
	"encoding/json"
	"testing"

	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep_Label(t *testing.T) {
	assert.Equal(t, "Move In Schedule", StepMoveInSchedule.Label())
	assert.Equal(t, "Account Creation", StepAccountCreation.Label())
	assert.Equal(t, "ID Verification", StepIDVerification.Label())
	assert.Equal(t, "Pets", StepPets.Label())
}

func TestDefaultStepsConfig(t *testing.T) {
	cfg := DefaultStepsConfig()

	assert.Len(t, cfg, 13)
	assert.False(t, cfg.IsEnabled(StepIDVerification))
	assert.Equal(t, 1, cfg[StepAccountCreation].Order)
	assert.Equal(t, 13, cfg[StepWelcome].Order)
	assert.Equal(t,
		[]Step{StepAccountCreation, StepPersonalInfo, StepEmergencyContacts, StepDocuments, StepPayments, StepWelcome},
		cfg.RequiredSteps())
	assert.Len(t, cfg.EnabledSteps(), 12)
	require.NoError(t, cfg.Validate(KnownSteps()))
}

func TestStepsConfig_EnabledSteps(t *testing.T) {
	t.Run("sorted by order with gaps", func(t *testing.T) {
		cfg := StepsConfig{
			StepWelcome:         {Enabled: true, Order: 50},
			StepAccountCreation: {Enabled: true, Order: 3},
			StepDocuments:       {Enabled: true, Order: 20},
		}
		assert.Equal(t, []Step{StepAccountCreation, StepDocuments, StepWelcome}, cfg.EnabledSteps())
	})

	t.Run("disabled step is skipped even when required", func(t *testing.T) {
		cfg := StepsConfig{
			StepAccountCreation: {Enabled: true, Order: 1, Required: true},
			StepPets:            {Enabled: false, Order: 2, Required: true},
		}
		assert.Equal(t, []Step{StepAccountCreation}, cfg.EnabledSteps())
		assert.False(t, cfg.IsRequired(StepPets))
		assert.Equal(t, []Step{StepAccountCreation}, cfg.RequiredSteps())
	})

	t.Run("equal orders break ties by identifier", func(t *testing.T) {
		cfg := StepsConfig{
			StepWelcome:  {Enabled: true, Order: 1},
			StepPayments: {Enabled: true, Order: 1},
		}
		assert.Equal(t, []Step{StepPayments, StepWelcome}, cfg.EnabledSteps())
	})
}

func TestStepsConfig_Validate(t *testing.T) {
	t.Run("rejects unknown step", func(t *testing.T) {
		cfg := DefaultStepsConfig().With("karaoke", StepSettings{Enabled: true, Order: 3})
		err := cfg.Validate(KnownSteps())

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNKNOWN_STEP", domainErr.Code)
		assert.Equal(t, []string{"karaoke"}, domainErr.Details)
	})

	t.Run("injected step set narrows what is accepted", func(t *testing.T) {
		narrow := NewStepSet(StepAccountCreation, StepWelcome)
		err := DefaultStepsConfig().Validate(narrow)
		assert.Error(t, err)

		ok := StepsConfig{StepWelcome: {Enabled: true, Order: 1}}
		assert.NoError(t, ok.Validate(narrow))
	})

	t.Run("rejects empty config", func(t *testing.T) {
		assert.Error(t, StepsConfig{}.Validate(KnownSteps()))
	})

	t.Run("rejects config with nothing enabled", func(t *testing.T) {
		cfg := StepsConfig{StepWelcome: {Enabled: false, Order: 1}}
		assert.Error(t, cfg.Validate(KnownSteps()))
	})

	t.Run("rejects negative order", func(t *testing.T) {
		cfg := StepsConfig{StepWelcome: {Enabled: true, Order: -1}}
		assert.Error(t, cfg.Validate(KnownSteps()))
	})
}

func TestStepSettings_UnmarshalDefaultsOrder(t *testing.T) {
	var cfg StepsConfig
	require.NoError(t, json.Unmarshal([]byte(`{"pets":{"enabled":true},"welcome":{"enabled":true,"order":0}}`), &cfg))

	assert.Equal(t, DefaultStepOrder, cfg[StepPets].Order)
	assert.Equal(t, 0, cfg[StepWelcome].Order)
	assert.Equal(t, []Step{StepWelcome, StepPets}, cfg.EnabledSteps())
}

func TestStepsConfig_HelpersDoNotMutateReceiver(t *testing.T) {
	base := DefaultStepsConfig()
	_ = base.Disable(StepPets)
	_ = base.Require(StepIDVerification)

	assert.True(t, base.IsEnabled(StepPets))
	assert.False(t, base.IsEnabled(StepIDVerification))
}
