package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/renter"
	"github.com/propertyhub/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqliteSchema mirrors the referential rules of the SQL migrations in a
// dialect SQLite accepts. Leases and payments keep the default NO ACTION:
// SQLite reports ON DELETE RESTRICT with an extended code the driver does
// not translate, while NO ACTION on an immediate key rejects the same delete
// as a plain foreign key violation.
var sqliteSchema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, first_name TEXT, last_name TEXT, phone TEXT,
		role TEXT NOT NULL DEFAULT 'tenant', preferred_contact TEXT NOT NULL DEFAULT 'email',
		is_active BOOLEAN NOT NULL DEFAULT 1, version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL, updated_at DATETIME NOT NULL)`,
	`CREATE TABLE leases (
		id TEXT PRIMARY KEY, tenant_id TEXT NOT NULL REFERENCES users(id),
		unit_label TEXT NOT NULL, status TEXT NOT NULL, start_date DATETIME NOT NULL, end_date DATETIME NOT NULL,
		monthly_rent NUMERIC NOT NULL, security_deposit NUMERIC NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1, created_at DATETIME NOT NULL, updated_at DATETIME NOT NULL)`,
	`CREATE TABLE payments (
		id TEXT PRIMARY KEY, tenant_id TEXT NOT NULL REFERENCES users(id),
		lease_id TEXT REFERENCES leases(id) ON DELETE SET NULL, amount NUMERIC NOT NULL,
		status TEXT NOT NULL, paid_at DATETIME, created_at DATETIME NOT NULL)`,
	`CREATE TABLE invoices (
		id TEXT PRIMARY KEY, tenant_id TEXT REFERENCES users(id) ON DELETE SET NULL,
		lease_id TEXT REFERENCES leases(id) ON DELETE SET NULL, number TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL, amount_due NUMERIC NOT NULL, due_date DATETIME NOT NULL, created_at DATETIME NOT NULL)`,
	`CREATE TABLE tenant_profiles (
		id TEXT PRIMARY KEY, tenant_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		date_of_birth DATETIME, current_address TEXT, move_in_date DATETIME,
		number_of_occupants INTEGER NOT NULL DEFAULT 1, created_at DATETIME NOT NULL)`,
	`CREATE TABLE tenant_emergency_contacts (
		id TEXT PRIMARY KEY, tenant_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL, relationship TEXT, phone TEXT, created_at DATETIME NOT NULL)`,
	`CREATE TABLE tenant_vehicles (
		id TEXT PRIMARY KEY, tenant_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		make TEXT, model TEXT, license_plate TEXT, created_at DATETIME NOT NULL)`,
	`CREATE TABLE tenant_employment (
		id TEXT PRIMARY KEY, tenant_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		employer TEXT, job_title TEXT, is_current BOOLEAN NOT NULL DEFAULT 1, created_at DATETIME NOT NULL)`,
	`CREATE TABLE tenant_insurance (
		id TEXT PRIMARY KEY, tenant_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		provider TEXT, policy_number TEXT, expires_on DATETIME, created_at DATETIME NOT NULL)`,
	`CREATE TABLE tenant_id_verifications (
		id TEXT PRIMARY KEY, tenant_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		document_type TEXT, status TEXT NOT NULL DEFAULT 'pending', created_at DATETIME NOT NULL)`,
	`CREATE TABLE otp_tokens (
		id TEXT PRIMARY KEY, tenant_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		code_hash TEXT NOT NULL, expires_at DATETIME NOT NULL, used BOOLEAN NOT NULL DEFAULT 0, created_at DATETIME NOT NULL)`,
	`CREATE TABLE notifications (
		id TEXT PRIMARY KEY, tenant_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL, body TEXT, is_read BOOLEAN NOT NULL DEFAULT 0, created_at DATETIME NOT NULL)`,
	`CREATE TABLE edocuments (
		id TEXT PRIMARY KEY, tenant_id TEXT REFERENCES users(id) ON DELETE SET NULL,
		title TEXT NOT NULL, status TEXT NOT NULL DEFAULT 'sent', created_at DATETIME NOT NULL)`,
	`CREATE TABLE work_orders (
		id TEXT PRIMARY KEY, reported_by_id TEXT REFERENCES users(id) ON DELETE SET NULL,
		title TEXT NOT NULL, created_at DATETIME NOT NULL)`,
	`CREATE TABLE messages (
		id TEXT PRIMARY KEY, sender_id TEXT REFERENCES users(id) ON DELETE SET NULL,
		body TEXT NOT NULL, created_at DATETIME NOT NULL)`,
	`CREATE TABLE tenant_deletion_audits (
		id TEXT PRIMARY KEY, tenant_id TEXT NOT NULL, tenant_name TEXT NOT NULL, deleted_items TEXT NOT NULL,
		detached_documents INTEGER NOT NULL DEFAULT 0,
		detached_sessions INTEGER NOT NULL DEFAULT 0, performed_by TEXT, deleted_at DATETIME NOT NULL)`,
	`CREATE TABLE onboarding_presets (
		id TEXT PRIMARY KEY, name TEXT NOT NULL UNIQUE, description TEXT, category TEXT NOT NULL, icon TEXT NOT NULL,
		is_system BOOLEAN NOT NULL DEFAULT 0, is_active BOOLEAN NOT NULL DEFAULT 1, steps_config TEXT NOT NULL,
		collect_vehicles BOOLEAN NOT NULL DEFAULT 1, collect_employment BOOLEAN NOT NULL DEFAULT 1,
		require_renters_insurance BOOLEAN NOT NULL DEFAULT 0, require_id_verification BOOLEAN NOT NULL DEFAULT 0,
		link_expiry_days INTEGER NOT NULL DEFAULT 14, welcome_message TEXT, property_rules TEXT,
		move_in_checklist TEXT NOT NULL, invitation_email_subject TEXT, invitation_email_body TEXT,
		invitation_sms_body TEXT, default_fees TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1, created_at DATETIME NOT NULL, updated_at DATETIME NOT NULL)`,
	`CREATE TABLE onboarding_sessions (
		id TEXT PRIMARY KEY, preset_id TEXT REFERENCES onboarding_presets(id) ON DELETE SET NULL,
		tenant_id TEXT REFERENCES users(id) ON DELETE SET NULL, lease_id TEXT REFERENCES leases(id) ON DELETE SET NULL,
		email TEXT NOT NULL, first_name TEXT, last_name TEXT, phone TEXT, property_name TEXT,
		status TEXT NOT NULL, config_snapshot TEXT NOT NULL, current_step TEXT, steps_completed TEXT NOT NULL,
		access_token TEXT NOT NULL UNIQUE, token_expires_at DATETIME NOT NULL, otp_hash TEXT, otp_expires_at DATETIME,
		invited_at DATETIME NOT NULL, started_at DATETIME, completed_at DATETIME,
		version INTEGER NOT NULL DEFAULT 1, created_at DATETIME NOT NULL, updated_at DATETIME NOT NULL)`,
}

// newTestDB opens a private in-memory SQLite database with foreign keys on
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := Open(sqlite.Open("file::memory:?_foreign_keys=on"), gormlogger.Default.LogMode(gormlogger.Silent))
	require.NoError(t, err)

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	// a second connection would see a different in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range sqliteSchema {
		require.NoError(t, database.DB.Exec(stmt).Error)
	}
	return database.DB
}

func seedTenant(t *testing.T, db *gorm.DB, email, first, last string) *renter.Tenant {
	t.Helper()
	tenant, err := renter.NewTenant(email, first, last)
	require.NoError(t, err)
	require.NoError(t, NewGormTenantRepository(db).Save(t.Context(), tenant))
	return tenant
}

func seedLease(t *testing.T, db *gorm.DB, tenantID uuid.UUID) uuid.UUID {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lease := &models.LeaseModel{
		TenantID:        tenantID,
		UnitLabel:       "4B",
		Status:          "active",
		StartDate:       start,
		EndDate:         start.AddDate(1, 0, 0),
		MonthlyRent:     decimal.NewFromInt(1500),
		SecurityDeposit: decimal.NewFromInt(1500),
	}
	lease.ID = uuid.New()
	lease.Version = 1
	require.NoError(t, db.Create(lease).Error)
	return lease.ID
}

func seedPayment(t *testing.T, db *gorm.DB, tenantID uuid.UUID) {
	t.Helper()
	require.NoError(t, db.Create(&models.PaymentModel{
		ID:       uuid.New(),
		TenantID: tenantID,
		Amount:   decimal.NewFromInt(1500),
		Status:   "completed",
	}).Error)
}

func seedInvoice(t *testing.T, db *gorm.DB, tenantID uuid.UUID, status string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&models.InvoiceModel{
		ID:        id,
		TenantID:  &tenantID,
		Number:    "INV-" + id.String()[:8],
		Status:    status,
		AmountDue: decimal.NewFromInt(200),
		DueDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}).Error)
	return id
}
