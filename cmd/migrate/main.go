package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/employee-roster/internal/platform/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath    string
	migrationsDir string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply employee roster schema migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	cmd.PersistentFlags().StringVar(&opts.migrationsDir, "dir", "assets/migrations", "directory containing migration files")

	cmd.AddCommand(
		newActionCommand(opts, "up", "Apply all pending migrations", func(m *migrate.Migrate, _ *cobra.Command) error {
			return ignoreNoChange(m.Up())
		}),
		newDownCommand(opts),
		newActionCommand(opts, "drop", "Drop everything in the database", func(m *migrate.Migrate, _ *cobra.Command) error {
			return m.Drop()
		}),
		newActionCommand(opts, "version", "Print the applied migration version", printVersion),
	)
	return cmd
}

func newDownCommand(opts *rootOptions) *cobra.Command {
	var steps int
	cmd := newActionCommand(opts, "down", "Roll back migrations", func(m *migrate.Migrate, _ *cobra.Command) error {
		if steps > 0 {
			return ignoreNoChange(m.Steps(-steps))
		}
		return ignoreNoChange(m.Down())
	})
	cmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to roll back (0 rolls back all)")
	return cmd
}

func newActionCommand(opts *rootOptions, use, short string, action func(*migrate.Migrate, *cobra.Command) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(effectiveConfigPath(opts.configPath))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			m, err := newMigrate(opts.migrationsDir, cfg.Database.DSN())
			if err != nil {
				return err
			}
			defer m.Close()

			if err := action(m, cmd); err != nil {
				return fmt.Errorf("migration %s failed: %w", use, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migration %s completed\n", use)
			return nil
		},
	}
}

func printVersion(m *migrate.Migrate, cmd *cobra.Command) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(cmd.OutOrStdout(), "no migration applied")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
	return nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

func newMigrate(dir, dsn string) (*migrate.Migrate, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path for %s: %w", dir, err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}
