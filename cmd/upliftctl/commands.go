package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/uplift-technology/uplift-backend/internal/config"
	"github.com/uplift-technology/uplift-backend/internal/database"
	"github.com/uplift-technology/uplift-backend/internal/migrations"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/internal/seeds"
	"github.com/uplift-technology/uplift-backend/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "upliftctl",
		Short:         "Operator tasks for the Uplift site backend",
		Long:          "upliftctl migrates and seeds the database and manages admin roles.\nIt reads the same .env and environment variables as the server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			config.LoadConfig()
			logger.Init(config.AppConfig.Env, logger.FileOptions{})
			database.Connect()
		},
	}

	root.AddCommand(newMigrateCmd(), newSeedCmd(), newPromoteAdminCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if down {
				id, err := migrations.NewMigrator(database.DB).Rollback()
				if err != nil {
					return err
				}
				if id == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "No migrations to roll back")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %s\n", id)
				return nil
			}

			if err := migrations.Migrate(database.DB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations complete")
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back the most recent migration instead")
	return cmd
}

func newSeedCmd() *cobra.Command {
	opts := seeds.Options{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the admin user and demo site content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.AdminPassword == "" {
				return fmt.Errorf("--admin-password or ADMIN_PASSWORD is required")
			}
			if err := migrations.Migrate(database.DB); err != nil {
				return err
			}
			if err := seeds.Run(context.Background(), database.DB, opts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Seed complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", envOr("ADMIN_EMAIL", "admin@uplifttech.co"), "admin account email")
	cmd.Flags().StringVar(&opts.AdminName, "admin-name", envOr("ADMIN_NAME", "Uplift Admin"), "admin display name")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	return cmd
}

func newPromoteAdminCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "promote-admin <email>",
		Short: "Grant an admin role to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := models.Role(strings.ToUpper(role))
			if r != models.RoleAdmin && r != models.RoleSuperAdmin {
				return fmt.Errorf("role must be ADMIN or SUPER_ADMIN")
			}
			if err := seeds.PromoteUser(database.DB, args[0], r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Granted %s to %s\n", r, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "ADMIN or SUPER_ADMIN")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
