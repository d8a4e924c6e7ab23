package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allamaprabhu/management-api/app"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the bootstrap superadmin if it does not exist",
		Long: `Create the bootstrap superadmin account described by SEED_SUPERADMIN_EMAIL,
SEED_SUPERADMIN_PASSWORD and SEED_SUPERADMIN_NAME. Nothing changes when an
admin with that email already exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, logger, err := loadRuntime(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			deps, err := app.NewDependencies(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = deps.Close(context.Background()) }()

			_, created, err := deps.AdminService.SeedSuperadmin(ctx, cfg.Seed)
			if err != nil {
				return fmt.Errorf("error creating superadmin: %w", err)
			}

			if created {
				fmt.Fprintln(cmd.OutOrStdout(), "Superadmin created successfully")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Superadmin already exists")
			}
			return nil
		},
	}
}
