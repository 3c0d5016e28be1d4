package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/amirhosseinghanipour/accounts/internal/config"
	"github.com/amirhosseinghanipour/accounts/internal/infrastructure/persistence/postgres"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back or inspect the PostgreSQL schema migrations embedded in the binary.`,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
			n, err := m.Up(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("Applied %d migration(s)\n", n)
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
			if err := m.Down(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("Rolled back one migration")
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
			states, err := m.Status(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range states {
				cmd.Println(formatMigrationState(s))
			}
			return nil
		}),
	})
	return cmd
}

func withMigrator(fn func(*cobra.Command, *postgres.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return oops.Code("CONFIG_INVALID").Wrap(err)
		}
		if cfg.Storage != config.StoragePostgres {
			return oops.Code("CONFIG_INVALID").Errorf("migrations require STORAGE_DRIVER=postgres, got %q", cfg.Storage)
		}

		pool, err := openPool(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		m, err := postgres.NewMigrator(pool)
		if err != nil {
			return err
		}
		defer func() { _ = m.Close() }()

		if err := fn(cmd, m); err != nil {
			return oops.Code("MIGRATION_FAILED").With("operation", cmd.Name()).Wrap(err)
		}
		return nil
	}
}

func formatMigrationState(s postgres.MigrationState) string {
	state := "pending"
	if s.Applied {
		state = "applied"
	}
	return fmt.Sprintf("%05d  %-8s %s", s.Version, state, s.Path)
}
