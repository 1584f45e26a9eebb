package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"puppaka/internal/config"
	"puppaka/internal/db"
	"puppaka/internal/service"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		withExamples bool
		reset        bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the schema, the admin account and optional example content",
		Long: `Prepare the configured store the same way the server does on startup.

The admin account is created only when no user exists. Example posts and
projects are inserted only when their slug is free, so running seed twice
changes nothing.

Examples:
  seed                   # schema and admin account
  seed --with-examples   # also the example posts and project
  seed --reset           # drop every table first
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cmd.Flags().Changed("with-examples") {
				cfg.SeedExamples = withExamples
			}
			return run(cmd.Context(), cfg, reset)
		},
	}

	cmd.Flags().BoolVar(&withExamples, "with-examples", false, "Insert the example posts and project (defaults to SEED_EXAMPLES)")
	cmd.Flags().BoolVar(&reset, "reset", false, "Drop all tables before seeding")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, reset bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(db.OptionsFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	if reset {
		slog.Warn("dropping all tables", "storage", cfg.StorageBackend)
		if err := db.Drop(ctx, gormDB); err != nil {
			return err
		}
	}

	result, err := service.NewBootstrapper(gormDB, service.BootstrapOptions{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
		AdminEmail:    cfg.AdminEmail,
		SeedExamples:  cfg.SeedExamples,
	}).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Seed completed: admin created=%t, posts created=%d, projects created=%d\n",
		result.AdminCreated, result.PostsCreated, result.ProjectsCreated)
	return nil
}
