package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/eduhub/examcore/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply examcore schema migrations",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("path", "migrations", "Path to migration files")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrate(func(cmd *cobra.Command, m *migrate.Migrate, _ []string) error {
				if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("up: %w", err)
				}
				cmd.Println("Migrated up successfully")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrate(func(cmd *cobra.Command, m *migrate.Migrate, _ []string) error {
				if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("down: %w", err)
				}
				cmd.Println("Migrated down successfully")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: withMigrate(func(cmd *cobra.Command, m *migrate.Migrate, _ []string) error {
				version, dirty, err := m.Version()
				if err != nil {
					return fmt.Errorf("version: %w", err)
				}
				cmd.Printf("Version: %d, Dirty: %t\n", version, dirty)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrate(func(cmd *cobra.Command, m *migrate.Migrate, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				if err := m.Force(v); err != nil {
					return fmt.Errorf("force: %w", err)
				}
				cmd.Printf("Forced version to %d\n", v)
				return nil
			}),
		},
	)

	return root
}

// withMigrate opens a migrator from config and the --path flag, runs fn, and closes it.
func withMigrate(fn func(cmd *cobra.Command, m *migrate.Migrate, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is not set")
		}

		dir, _ := cmd.Flags().GetString("path")
		m, err := migrate.New("file://"+dir, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("initialize migrations: %w", err)
		}
		defer m.Close()

		return fn(cmd, m, args)
	}
}
