package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/propertyhub/backend/internal/infrastructure/migration"
	"github.com/propertyhub/backend/migrations"
)

// Migrator is the subset of *migration.Migrator the commands drive
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	GoTo(version uint) error
	Version() (uint, bool, error)
	Force(version int) error
}

type migratorFactory func(logLevel string) (Migrator, func(), error)

func newRootCmd(open migratorFactory) *cobra.Command {
	var logLevel string

	// withMigrator connects for one command run
	withMigrator := func(run func(cmd *cobra.Command, args []string, m Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := open(logLevel)
			if err != nil {
				return err
			}
			defer closeFn()
			return run(cmd, args, m)
		}
	}

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "PropertyHub database migration tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE:  withMigrator(func(_ *cobra.Command, _ []string, m Migrator) error { return m.Up() }),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert every migration",
			Args:  cobra.NoArgs,
			RunE:  withMigrator(func(_ *cobra.Command, _ []string, m Migrator) error { return m.Down() }),
		},
		&cobra.Command{
			Use:   "step <n>",
			Short: "Apply n migrations, or revert them when n is negative",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(_ *cobra.Command, args []string, m Migrator) error {
				n, err := strconv.Atoi(args[0])
				if err != nil || n == 0 {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return m.Steps(n)
			}),
		},
		&cobra.Command{
			Use:   "goto <version>",
			Short: "Migrate up or down to a specific version",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(_ *cobra.Command, args []string, m Migrator) error {
				v, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.GoTo(uint(v))
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied version and whether it is dirty",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, _ []string, m Migrator) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if v == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty=%t)\n", v, dirty)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Overwrite the recorded version without running SQL",
			Long:  "Clears a dirty flag after a failed migration was repaired by hand. No SQL runs.",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(_ *cobra.Command, args []string, m Migrator) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.Force(v)
			}),
		},
		createCmd(),
		listCmd(),
	)
	return root
}

// createCmd and listCmd work on files only and never connect
func createCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Write a new up/down migration pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mf, err := migration.CreateMigration(dir, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\ncreated %s\n", mf.UpPath, mf.DownPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "migrations", "Directory the files are written to")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the migrations compiled into this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := migration.ListMigrations(migrations.FS)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%06d  %s\n", e.Version, e.Name)
			}
			return nil
		},
	}
}
