package onboarding

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/propertyhub/backend/internal/domain/shared"
)

// DefaultStepOrder is used when a step entry omits its order
const DefaultStepOrder = 99

// StepSettings controls one step of the workflow
type StepSettings struct {
	Enabled  bool `json:"enabled"`
	Order    int  `json:"order"`
	Required bool `json:"required"`
}

// UnmarshalJSON fills in DefaultStepOrder when "order" is absent
func (s *StepSettings) UnmarshalJSON(data []byte) error {
	var raw struct {
		Enabled  bool `json:"enabled"`
		Order    *int `json:"order"`
		Required bool `json:"required"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Enabled = raw.Enabled
	s.Required = raw.Required
	s.Order = DefaultStepOrder
	if raw.Order != nil {
		s.Order = *raw.Order
	}
	return nil
}

// StepsConfig maps each step to its settings
type StepsConfig map[Step]StepSettings

// DefaultStepsConfig enables every step except ID verification
func DefaultStepsConfig() StepsConfig {
	required := NewStepSet(StepAccountCreation, StepPersonalInfo, StepEmergencyContacts,
		StepDocuments, StepPayments, StepWelcome)

	cfg := make(StepsConfig, len(AllSteps()))
	for i, step := range AllSteps() {
		cfg[step] = StepSettings{
			Enabled:  step != StepIDVerification,
			Order:    i + 1,
			Required: required.Contains(step),
		}
	}
	return cfg
}

// With returns a copy of the config with one step replaced
func (c StepsConfig) With(step Step, settings StepSettings) StepsConfig {
	out := c.Clone()
	out[step] = settings
	return out
}

// Disable returns a copy with the given steps turned off
func (c StepsConfig) Disable(steps ...Step) StepsConfig {
	out := c.Clone()
	for _, step := range steps {
		s := out[step]
		s.Enabled = false
		s.Required = false
		out[step] = s
	}
	return out
}

// Require returns a copy with the given steps enabled and required
func (c StepsConfig) Require(steps ...Step) StepsConfig {
	out := c.Clone()
	for _, step := range steps {
		s, ok := out[step]
		if !ok {
			s.Order = DefaultStepOrder
		}
		s.Enabled = true
		s.Required = true
		out[step] = s
	}
	return out
}

// Clone copies the map. StepSettings holds no references so this is a deep copy.
func (c StepsConfig) Clone() StepsConfig {
	if c == nil {
		return nil
	}
	out := make(StepsConfig, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// IsEnabled reports whether the step is present and enabled
func (c StepsConfig) IsEnabled(step Step) bool {
	return c[step].Enabled
}

// IsRequired reports whether the step must be finished. Disabled steps are
// never required.
func (c StepsConfig) IsRequired(step Step) bool {
	s := c[step]
	return s.Enabled && s.Required
}

// EnabledSteps returns enabled steps by ascending order; ties fall back to
// the identifier so the result is stable.
func (c StepsConfig) EnabledSteps() []Step {
	steps := make([]Step, 0, len(c))
	for step, s := range c {
		if s.Enabled {
			steps = append(steps, step)
		}
	}
	sort.Slice(steps, func(i, j int) bool {
		oi, oj := c[steps[i]].Order, c[steps[j]].Order
		if oi != oj {
			return oi < oj
		}
		return steps[i] < steps[j]
	})
	return steps
}

// RequiredSteps returns enabled, required steps in presentation order
func (c StepsConfig) RequiredSteps() []Step {
	var out []Step
	for _, step := range c.EnabledSteps() {
		if c[step].Required {
			out = append(out, step)
		}
	}
	return out
}

// Validate checks every identifier against the known set
func (c StepsConfig) Validate(known StepSet) error {
	if len(c) == 0 {
		return shared.NewDomainError("INVALID_STEPS_CONFIG", "Steps configuration cannot be empty")
	}
	var unknown []string
	for step, s := range c {
		if !known.Contains(step) {
			unknown = append(unknown, string(step))
			continue
		}
		if s.Order < 0 {
			return shared.NewDomainError("INVALID_STEPS_CONFIG",
				fmt.Sprintf("Step %s has a negative order", step))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return shared.NewDomainError("UNKNOWN_STEP", "Steps configuration references unknown steps").
			WithDetails(unknown...)
	}
	if len(c.EnabledSteps()) == 0 {
		return shared.NewDomainError("INVALID_STEPS_CONFIG", "At least one step must be enabled")
	}
	return nil
}
