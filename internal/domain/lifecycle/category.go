// Package lifecycle decides whether a tenant may be removed and describes
// what a removal takes with it.
package lifecycle

// Category names a group of records that hang off a tenant and go away
// (or are detached) when the tenant is deleted.
type Category string

const (
	CategoryProfile            Category = "profile"
	CategoryEmergencyContacts  Category = "emergency_contacts"
	CategoryVehicles           Category = "vehicles"
	CategoryEmploymentRecords  Category = "employment_records"
	CategoryInsurancePolicies  Category = "insurance_policies"
	CategoryIDVerifications    Category = "id_verifications"
	CategoryOnboardingSessions Category = "onboarding_sessions"
	CategoryOTPTokens          Category = "otp_tokens"
	CategoryNotifications      Category = "notifications"
)

// SummaryCategories is the fixed, ordered set reported by a delete summary
func SummaryCategories() []Category {
	return []Category{
		CategoryProfile,
		CategoryEmergencyContacts,
		CategoryVehicles,
		CategoryEmploymentRecords,
		CategoryInsurancePolicies,
		CategoryIDVerifications,
		CategoryOnboardingSessions,
		CategoryOTPTokens,
		CategoryNotifications,
	}
}

// IsSingleton reports whether at most one record of the category can exist
// per tenant. Singletons are summarized as a flag instead of a count.
func (c Category) IsSingleton() bool {
	return c == CategoryProfile
}

// IsValid checks if the category is one of the summary categories
func (c Category) IsValid() bool {
	for _, known := range SummaryCategories() {
		if c == known {
			return true
		}
	}
	return false
}
