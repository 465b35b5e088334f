package main

import (
	"fmt"

	"hospital-management/internal/infrastructure/database"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				if err := m.Up(); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				return printVersion(cmd, m)
			})
		},
	}
	cmd.AddCommand(upCmd)

	// migrate down
	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations, all of them unless --steps is set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				if err := m.Down(steps); err != nil {
					return fmt.Errorf("rollback failed: %w", err)
				}
				return printVersion(cmd, m)
			})
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 0, "Number of migrations to roll back, 0 for all")
	cmd.AddCommand(downCmd)

	// migrate version
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				return printVersion(cmd, m)
			})
		},
	}
	cmd.AddCommand(versionCmd)

	return cmd
}

func withMigrator(fn func(m *database.Migrator) error) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	migrator, err := database.NewMigrator(cfg.DB)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return fn(migrator)
}

func printVersion(cmd *cobra.Command, m *database.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d (dirty)\n", version)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d\n", version)
	return nil
}
