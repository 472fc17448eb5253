package onboarding

import (
	"github.com/propertyhub/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
)

// Names of the built-in presets
const (
	PresetStandardResidential = "Standard Residential"
	PresetQuickMoveIn         = "Quick Move-In"
	PresetPetFriendly         = "Pet-Friendly Property"
	PresetStudentHousing      = "Student Housing"
	PresetSeniorLiving        = "Senior Living"
	PresetSubsidizedHousing   = "Subsidized Housing (Section 8)"
	PresetCommercialTenant    = "Commercial Tenant"
)

const standardRules = "• Quiet hours are from 10 PM to 8 AM\n" +
	"• No smoking in units or common areas\n" +
	"• Dispose of trash in designated areas only\n" +
	"• Report maintenance issues promptly"

func baseFees() []FeeSpec {
	deposit := LeaseFee(FeeSecurityDeposit, "Security Deposit", leasing.FieldSecurityDeposit, true)
	deposit.Description = "Refundable security deposit"
	deposit.Order = 1
	rent := LeaseFee(FeeFirstMonth, "First Month's Rent", leasing.FieldMonthlyRent, false)
	rent.Description = "First month's rent due at move-in"
	rent.Order = 2
	return []FeeSpec{deposit, rent}
}

func withFee(fees []FeeSpec, fee FeeSpec) []FeeSpec {
	fee.Order = len(fees) + 1
	return append(fees, fee)
}

// SystemPresetConfigs returns the built-in preset catalog
func SystemPresetConfigs() []PresetConfig {
	defaults := DefaultStepsConfig()

	return []PresetConfig{
		{
			Name:        PresetStandardResidential,
			Description: "Complete onboarding for standard residential properties.",
			Category:    CategoryResidential,
			Icon:        "bi-house-door",
			IsActive:    true,
			StepsConfig: defaults,
			Collection: CollectionFlags{
				CollectVehicles:   true,
				CollectEmployment: true,
			},
			LinkExpiryDays: 14,
			Messaging: Messaging{
				WelcomeMessage: "Welcome to your new home! Please review the property information below " +
					"and contact the management office with any questions.",
				PropertyRules: standardRules,
				MoveInChecklist: []string{
					"Set up utilities in your name",
					"Get renter's insurance",
					"Change your mailing address",
					"Schedule a move-in walkthrough",
					"Collect all keys and access devices",
				},
				InvitationEmailSubject: DefaultInvitationEmailSubject,
				InvitationEmailBody: "Hi {{first_name}},\n\n" +
					"We're excited to welcome you to {{property_name}}! " +
					"Please complete your move-in paperwork using the link below.\n\n" +
					"{{link}}\n\n" +
					"This link will expire in {{expiry_days}} days.\n\n" +
					"{{property_name}} Management",
				InvitationSMSBody: "Welcome to {{property_name}}! Complete your move-in at: {{link}}",
			},
			DefaultFees: baseFees(),
		},
		{
			Name:        PresetQuickMoveIn,
			Description: "Streamlined onboarding with only the essential steps.",
			Category:    CategoryResidential,
			Icon:        "bi-lightning",
			IsActive:    true,
			StepsConfig: defaults.Disable(StepOccupants, StepPets, StepVehicles, StepEmployment,
				StepInsurance, StepIDVerification, StepMoveInSchedule),
			LinkExpiryDays: 7,
			Messaging: Messaging{
				WelcomeMessage:         "Welcome! Your quick move-in is almost done.",
				PropertyRules:          standardRules,
				MoveInChecklist:        []string{"Set up utilities", "Pick up your keys"},
				InvitationEmailSubject: "Quick Move-In - Complete in Minutes",
				InvitationEmailBody: "Hi {{first_name}},\n\n" +
					"Finish your move-in for {{property_name}} in a few minutes: {{link}}\n\n" +
					"The link is valid for {{expiry_days}} days.",
				InvitationSMSBody: "Complete your quick move-in: {{link}}",
			},
			DefaultFees: baseFees(),
		},
		{
			Name:        PresetPetFriendly,
			Description: "Standard onboarding with required pet registration and pet fees.",
			Category:    CategoryResidential,
			Icon:        "bi-heart",
			IsActive:    true,
			StepsConfig: defaults.Require(StepPets),
			Collection: CollectionFlags{
				CollectVehicles:   true,
				CollectEmployment: true,
			},
			LinkExpiryDays: 14,
			Messaging: Messaging{
				WelcomeMessage: "Welcome to your new pet-friendly home!",
				PropertyRules: "• All pets must be registered with management\n" +
					"• Dogs must be leashed in common areas\n" +
					"• Clean up after your pets immediately\n" +
					standardRules,
				MoveInChecklist: []string{
					"Register all pets with management",
					"Provide vaccination records",
					"Get renter's insurance with pet liability",
				},
				InvitationEmailSubject: "Welcome to Your Pet-Friendly Home!",
				InvitationEmailBody: "Hi {{first_name}},\n\n" +
					"We're excited to welcome you and your pets to {{property_name}}.\n\n" +
					"Complete your move-in and pet registration here: {{link}}",
				InvitationSMSBody: "Welcome to {{property_name}}! Complete move-in & pet registration: {{link}}",
			},
			DefaultFees: withFee(
				withFee(baseFees(), FixedFee(FeePetDeposit, "Pet Deposit", decimal.RequireFromString("300.00"), true, true)),
				FixedFee(FeePetFee, "Pet Fee", decimal.RequireFromString("150.00"), true, false),
			),
		},
		{
			Name:           PresetStudentHousing,
			Description:    "Tailored for student tenants with guarantor paperwork.",
			Category:       CategoryStudent,
			Icon:           "bi-mortarboard",
			IsActive:       true,
			StepsConfig:    defaults.Disable(StepPets).Require(StepEmployment),
			Collection:     CollectionFlags{CollectEmployment: true},
			LinkExpiryDays: 21,
			Messaging: Messaging{
				WelcomeMessage:         "Welcome to student housing!",
				PropertyRules:          standardRules,
				MoveInChecklist:        []string{"Submit guarantor form", "Collect your key card"},
				InvitationEmailSubject: "Welcome Student! Complete Your Housing Setup",
				InvitationEmailBody: "Hi {{first_name}},\n\n" +
					"Your room at {{property_name}} is waiting. Complete your housing setup: {{link}}\n\n" +
					"The link expires in {{expiry_days}} days.",
				InvitationSMSBody: "Complete your student housing setup for {{property_name}}: {{link}}",
			},
			DefaultFees: withFee(baseFees(),
				FixedFee(FeeAdminFee, "Student Housing Fee", decimal.RequireFromString("100.00"), true, false)),
		},
		{
			Name:           PresetSeniorLiving,
			Description:    "Simplified onboarding for senior communities.",
			Category:       CategorySenior,
			Icon:           "bi-people",
			IsActive:       true,
			StepsConfig:    defaults.Disable(StepEmployment),
			Collection:     CollectionFlags{CollectVehicles: true},
			LinkExpiryDays: 21,
			Messaging: Messaging{
				WelcomeMessage:         "Welcome to our community.",
				PropertyRules:          standardRules,
				MoveInChecklist:        []string{"Share emergency contacts", "Schedule a community tour"},
				InvitationEmailSubject: "Welcome to Our Senior Community",
				InvitationEmailBody: "Dear {{first_name}},\n\n" +
					"We look forward to welcoming you to {{property_name}}. " +
					"Please complete your move-in forms here: {{link}}",
				InvitationSMSBody: "Welcome to {{property_name}}! Move-in forms: {{link}}",
			},
			DefaultFees: baseFees(),
		},
		{
			Name:           PresetSubsidizedHousing,
			Description:    "Onboarding with the verification needed for housing assistance programs.",
			Category:       CategorySubsidized,
			Icon:           "bi-building-check",
			IsActive:       true,
			StepsConfig:    defaults.Require(StepEmployment, StepIDVerification),
			Collection:     CollectionFlags{CollectEmployment: true, RequireIDVerification: true},
			LinkExpiryDays: 30,
			Messaging: Messaging{
				WelcomeMessage:         "Welcome home.",
				PropertyRules:          standardRules,
				MoveInChecklist:        []string{"Bring income documentation", "Bring photo ID"},
				InvitationEmailSubject: "Complete Your Housing Paperwork",
				InvitationEmailBody: "Hi {{first_name}},\n\n" +
					"Please complete your housing paperwork for {{property_name}}: {{link}}\n\n" +
					"You have {{expiry_days}} days to finish.",
				InvitationSMSBody: "Complete your housing paperwork for {{property_name}}: {{link}}",
			},
			DefaultFees: []FeeSpec{
				baseFees()[0],
				{
					FeeType:       FeeFirstMonth,
					Name:          "Tenant Portion - First Month",
					UseLeaseValue: true,
					LeaseField:    leasing.FieldMonthlyRent,
					IsRequired:    true,
					Order:         2,
				},
			},
		},
		{
			Name:        PresetCommercialTenant,
			Description: "Onboarding for commercial lease holders.",
			Category:    CategoryCommercial,
			Icon:        "bi-briefcase",
			IsActive:    true,
			StepsConfig: defaults.Disable(StepOccupants, StepPets, StepEmployment).
				Require(StepInsurance),
			Collection:     CollectionFlags{CollectVehicles: true, RequireRentersInsurance: true},
			LinkExpiryDays: 30,
			Messaging: Messaging{
				WelcomeMessage:         "Welcome to your new business space.",
				PropertyRules:          "• Business hours access only unless arranged\n• Loading dock reservations required",
				MoveInChecklist:        []string{"Provide certificate of insurance", "Register signage"},
				InvitationEmailSubject: "Complete Your Commercial Lease Setup",
				InvitationEmailBody: "Hello {{first_name}},\n\n" +
					"Please complete the setup of your commercial lease at {{property_name}}: {{link}}",
				InvitationSMSBody: "Complete your commercial lease setup: {{link}}",
			},
			DefaultFees: withFee(baseFees(),
				FixedFee(FeeKeyDeposit, "Key Deposit", decimal.RequireFromString("50.00"), true, true)),
		},
	}
}
