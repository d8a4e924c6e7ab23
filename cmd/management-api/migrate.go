package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/allamaprabhu/management-api/repositories/postgres"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		migrateSubcommand("up", "Apply all pending migrations", (*postgres.DB).RunMigrations),
		migrateSubcommand("down", "Roll back the most recent migration", (*postgres.DB).RollbackMigration),
		migrateSubcommand("status", "Show the state of every migration", (*postgres.DB).MigrationStatus),
	)

	return cmd
}

func migrateSubcommand(use, short string, run func(*postgres.DB, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, logger, err := loadRuntime(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := postgres.NewDB(cfg.Database, logger)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() { _ = db.Close() }()

			if err := run(db, ctx); err != nil {
				return err
			}
			logger.Info("migrate command finished", zap.String("command", use))
			return nil
		},
	}
}
