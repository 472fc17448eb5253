// Package renter holds the resident-facing account model: people who rent
// units and sign in to the tenant portal.
package renter

import (
	"net/mail"
	"strings"

	"github.com/propertyhub/backend/internal/domain/shared"
)

// Role is the portal role of a user account
type Role string

const (
	RoleTenant Role = "tenant"
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
)

// ContactMethod is the channel a tenant prefers for outreach
type ContactMethod string

const (
	ContactEmail ContactMethod = "email"
	ContactSMS   ContactMethod = "sms"
	ContactPhone ContactMethod = "phone"
)

// ErrAccountArchived rejects sign-in for an archived tenant
var ErrAccountArchived = shared.NewDomainError("ACCOUNT_ARCHIVED", "Tenant account is archived")

// LifecycleState is the archive flag seen as a two-state machine
type LifecycleState string

const (
	StateActive   LifecycleState = "active"
	StateArchived LifecycleState = "archived"
)

// Tenant is a resident account. Archiving flips IsActive and nothing else.
type Tenant struct {
	shared.BaseAggregateRoot
	Email            string
	FirstName        string
	LastName         string
	Phone            string
	Role             Role
	PreferredContact ContactMethod
	IsActive         bool
}

// NewTenant creates an active tenant account
func NewTenant(email, firstName, lastName string) (*Tenant, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(firstName) > 150 || len(lastName) > 150 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name parts cannot exceed 150 characters")
	}

	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
		Role:              RoleTenant,
		PreferredContact:  ContactEmail,
		IsActive:          true,
	}, nil
}

// FullName joins first and last name, skipping empty parts
func (t *Tenant) FullName() string {
	return strings.TrimSpace(strings.Join([]string{t.FirstName, t.LastName}, " "))
}

// DisplayName is the full name, or the email when no name is on file
func (t *Tenant) DisplayName() string {
	if name := t.FullName(); name != "" {
		return name
	}
	return t.Email
}

// State returns the lifecycle state derived from the active flag
func (t *Tenant) State() LifecycleState {
	if t.IsActive {
		return StateActive
	}
	return StateArchived
}

// IsArchived reports whether the tenant is archived
func (t *Tenant) IsArchived() bool {
	return !t.IsActive
}

// CanAuthenticate reports whether the account may sign in
func (t *Tenant) CanAuthenticate() bool {
	return t.IsActive
}

// Authenticate returns ErrAccountArchived for an account that may not sign in
func (t *Tenant) Authenticate() error {
	if !t.CanAuthenticate() {
		return ErrAccountArchived
	}
	return nil
}

// Archive deactivates the tenant. Returns false when it was already archived.
func (t *Tenant) Archive() bool {
	if !t.IsActive {
		return false
	}
	t.IsActive = false
	t.IncrementVersion()
	return true
}

// Restore reactivates the tenant. Returns false when it was already active.
func (t *Tenant) Restore() bool {
	if t.IsActive {
		return false
	}
	t.IsActive = true
	t.IncrementVersion()
	return true
}

// SetContact updates phone and preferred contact method
func (t *Tenant) SetContact(phone string, method ContactMethod) error {
	if len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 20 characters")
	}
	switch method {
	case ContactEmail, ContactSMS, ContactPhone:
	default:
		return shared.NewDomainError("INVALID_CONTACT_METHOD", "Preferred contact must be email, sms or phone")
	}
	t.Phone = phone
	t.PreferredContact = method
	t.IncrementVersion()
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 254 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 254 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is malformed")
	}
	return nil
}
