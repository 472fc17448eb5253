// Command propctl runs tenant lifecycle and onboarding maintenance tasks
// against the configured database without going through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	applifecycle "github.com/propertyhub/backend/internal/application/lifecycle"
	apponboarding "github.com/propertyhub/backend/internal/application/onboarding"
	"github.com/propertyhub/backend/internal/infrastructure/config"
	"github.com/propertyhub/backend/internal/infrastructure/logger"
	"github.com/propertyhub/backend/internal/infrastructure/persistence"
)

func main() {
	if err := newRootCmd(openServices).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openServices connects to the database and builds the services the
// commands drive. Audit rows are written as they are for API deletions.
func openServices(_ context.Context, logLevel string) (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	db, err := persistence.NewDatabase(&cfg.Database, logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel), 0))
	if err != nil {
		return nil, err
	}

	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	presetRepo := persistence.NewGormPresetRepository(db.DB)
	sessionRepo := persistence.NewGormSessionRepository(db.DB)

	return &services{
		tenants: applifecycle.NewService(persistence.NewGormLifecycleStore(db.DB), tenantRepo, log,
			applifecycle.WithAuditRecorders(persistence.NewGormDeletionAuditRepository(db.DB)),
		),
		presets: apponboarding.NewPresetService(presetRepo, log,
			apponboarding.WithDefaultLinkExpiry(cfg.Onboarding.DefaultLinkExpiryDays),
		),
		sessions: apponboarding.NewSessionService(sessionRepo, presetRepo,
			persistence.NewGormLeaseRepository(db.DB), apponboarding.NewLogNotifier(log), log,
			apponboarding.WithPortalBaseURL(cfg.Onboarding.PortalBaseURL),
		),
		close: func() error {
			_ = log.Sync()
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
				return err
			}
			return nil
		},
	}, nil
}
