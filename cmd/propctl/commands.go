package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	applifecycle "github.com/propertyhub/backend/internal/application/lifecycle"
	apponboarding "github.com/propertyhub/backend/internal/application/onboarding"
	"github.com/propertyhub/backend/internal/domain/lifecycle"
)

// TenantOperations is the lifecycle surface exposed on the command line
type TenantOperations interface {
	CheckDeletion(ctx context.Context, id uuid.UUID) (*applifecycle.DeletionCheckResponse, error)
	DeleteTenant(ctx context.Context, id uuid.UUID, performedBy *uuid.UUID) (*lifecycle.DeletionReport, error)
	ArchiveTenant(ctx context.Context, id uuid.UUID) (*applifecycle.TenantResponse, error)
	RestoreTenant(ctx context.Context, id uuid.UUID) (*applifecycle.TenantResponse, error)
}

// PresetSeeder installs the built-in onboarding presets
type PresetSeeder interface {
	SeedSystemPresets(ctx context.Context) (*apponboarding.SeedResult, error)
}

// SessionSweeper expires onboarding sessions whose links lapsed
type SessionSweeper interface {
	ExpireStaleSessions(ctx context.Context, batch int) (int, error)
}

type services struct {
	tenants  TenantOperations
	presets  PresetSeeder
	sessions SessionSweeper
	close    func() error
}

type serviceFactory func(ctx context.Context, logLevel string) (*services, error)

var errConfirmationRequired = errors.New("refusing to delete without --yes")

func newRootCmd(open serviceFactory) *cobra.Command {
	var logLevel string

	// withServices opens the services for one command run and closes them
	// when it returns
	withServices := func(run func(cmd *cobra.Command, args []string, svc *services) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			svc, err := open(cmd.Context(), logLevel)
			if err != nil {
				return err
			}
			if svc.close != nil {
				defer func() { _ = svc.close() }()
			}
			return run(cmd, args, svc)
		}
	}

	root := &cobra.Command{
		Use:           "propctl",
		Short:         "PropertyHub maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		presetsCmd(withServices),
		tenantCmd(withServices),
		sessionsCmd(withServices),
	)
	return root
}

type runWrapper func(run func(cmd *cobra.Command, args []string, svc *services) error) func(*cobra.Command, []string) error

func presetsCmd(with runWrapper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage onboarding presets",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Create the built-in presets that do not exist yet",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, _ []string, svc *services) error {
			result, err := svc.presets.SeedSystemPresets(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		}),
	})
	return cmd
}

func tenantCmd(with runWrapper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Inspect and change the lifecycle state of a tenant",
	}

	check := &cobra.Command{
		Use:   "check <tenant-id>",
		Short: "Report whether a tenant can be deleted and what would be removed",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(cmd *cobra.Command, args []string, svc *services) error {
			id, err := parseTenantID(args[0])
			if err != nil {
				return err
			}
			result, err := svc.tenants.CheckDeletion(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		}),
	}

	var confirmed bool
	del := &cobra.Command{
		Use:   "delete <tenant-id>",
		Short: "Permanently delete a tenant and its related records",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(cmd *cobra.Command, args []string, svc *services) error {
			id, err := parseTenantID(args[0])
			if err != nil {
				return err
			}
			if !confirmed {
				return errConfirmationRequired
			}
			report, err := svc.tenants.DeleteTenant(cmd.Context(), id, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		}),
	}
	del.Flags().BoolVar(&confirmed, "yes", false, "Confirm the deletion")

	archive := &cobra.Command{
		Use:   "archive <tenant-id>",
		Short: "Deactivate a tenant without removing data",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(cmd *cobra.Command, args []string, svc *services) error {
			id, err := parseTenantID(args[0])
			if err != nil {
				return err
			}
			tenant, err := svc.tenants.ArchiveTenant(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, tenant)
		}),
	}

	restore := &cobra.Command{
		Use:   "restore <tenant-id>",
		Short: "Reactivate an archived tenant",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(cmd *cobra.Command, args []string, svc *services) error {
			id, err := parseTenantID(args[0])
			if err != nil {
				return err
			}
			tenant, err := svc.tenants.RestoreTenant(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, tenant)
		}),
	}

	cmd.AddCommand(check, del, archive, restore)
	return cmd
}

func sessionsCmd(with runWrapper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Onboarding session maintenance",
	}

	var batch int
	expire := &cobra.Command{
		Use:   "expire",
		Short: "Expire sessions whose access link lapsed",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, _ []string, svc *services) error {
			n, err := svc.sessions.ExpireStaleSessions(cmd.Context(), batch)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "expired %d session(s)\n", n)
			return err
		}),
	}
	expire.Flags().IntVar(&batch, "batch", 500, "Maximum sessions to expire")
	cmd.AddCommand(expire)
	return cmd
}

func parseTenantID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid tenant ID %q", raw)
	}
	return id, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
