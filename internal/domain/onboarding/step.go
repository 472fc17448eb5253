// Package onboarding models the move-in workflow: reusable presets that
// configure which steps run and which fees apply, and the sessions that walk a
// new tenant through them.
package onboarding

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Step identifies one screen of the onboarding workflow
type Step string

const (
	StepAccountCreation   Step = "account_creation"
	StepPersonalInfo      Step = "personal_info"
	StepEmergencyContacts Step = "emergency_contacts"
	StepOccupants         Step = "occupants"
	StepPets              Step = "pets"
	StepVehicles          Step = "vehicles"
	StepEmployment        Step = "employment"
	StepInsurance         Step = "insurance"
	StepIDVerification    Step = "id_verification"
	StepDocuments         Step = "documents"
	StepPayments          Step = "payments"
	StepMoveInSchedule    Step = "move_in_schedule"
	StepWelcome           Step = "welcome"
)

// AllSteps lists the known steps in their default order
func AllSteps() []Step {
	return []Step{
		StepAccountCreation,
		StepPersonalInfo,
		StepEmergencyContacts,
		StepOccupants,
		StepPets,
		StepVehicles,
		StepEmployment,
		StepInsurance,
		StepIDVerification,
		StepDocuments,
		StepPayments,
		StepMoveInSchedule,
		StepWelcome,
	}
}

var labelOverrides = map[Step]string{
	StepIDVerification: "ID Verification",
}

// Label returns a human readable name, e.g. "Move In Schedule"
func (s Step) Label() string {
	if label, ok := labelOverrides[s]; ok {
		return label
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "_", " "))
}

// StepSet is a closed set of step identifiers a configuration may reference
type StepSet map[Step]struct{}

// KnownSteps returns the standard step set
func KnownSteps() StepSet {
	return NewStepSet(AllSteps()...)
}

// NewStepSet builds a set from the given steps
func NewStepSet(steps ...Step) StepSet {
	set := make(StepSet, len(steps))
	for _, s := range steps {
		set[s] = struct{}{}
	}
	return set
}

// Contains reports whether step is in the set
func (s StepSet) Contains(step Step) bool {
	_, ok := s[step]
	return ok
}

// Sorted returns the members in lexical order
func (s StepSet) Sorted() []Step {
	out := make([]Step, 0, len(s))
	for step := range s {
		out = append(out, step)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
