// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/depot-store/depot/internal/auth"
	authpg "github.com/depot-store/depot/internal/auth/postgres"
	"github.com/depot-store/depot/internal/catalog"
	catalogpg "github.com/depot-store/depot/internal/catalog/postgres"
	"github.com/depot-store/depot/internal/config"
	"github.com/depot-store/depot/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// Credentials for the seeded administrator account.
const (
	seedAdminEmail    = "admin@depot.com"
	seedAdminPassword = "password"
)

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout time.Duration
}

// seedProducts is the initial catalog. Descriptions carry the same HTML
// markup the storefront renders.
var seedProducts = []struct {
	title       string
	description string
	imageURL    string
	price       string
}{
	{
		title:       "Docker for Rails Developers",
		description: "<p><em>Build, Ship, and Run Your Applications Everywhere</em> Docker does for DevOps what Rails did for web development.</p>",
		imageURL:    "ridocker.jpg",
		price:       "19.95",
	},
	{
		title:       "Design and Build Great Web APIs",
		description: "<p><em>Robust, Reliable, and Resilient</em> APIs are transforming the business world at an increasing pace.</p>",
		imageURL:    "maapis.jpg",
		price:       "24.95",
	},
	{
		title:       "Modern CSS with Tailwind",
		description: "<p><em>Flexible Styling Without the Fuss</em> Tailwind CSS is an exciting new CSS framework.</p>",
		imageURL:    "tailwind.jpg",
		price:       "18.95",
	},
	{
		title:       "Programming Phoenix",
		description: "<p><em>Productive, Reliable, Fast</em> Phoenix creator Chris McCord walks you through building fast applications.</p>",
		imageURL:    "phoenix.jpg",
		price:       "35.00",
	},
	{
		title:       "Agile Web Development with Rails 8",
		description: "<p><em>Learn Rails the Right Way</em> Rails 8 completely redefines what it means to produce fantastic user experiences.</p>",
		imageURL:    "rails8.jpg",
		price:       "45.00",
	},
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the store with initial data",
		Long: `Creates the admin account and a starter product catalog.
This command is idempotent - it will not create duplicates if run multiple times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	databaseURL := os.Getenv(config.EnvDatabaseURL)
	if databaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("%s environment variable is required", config.EnvDatabaseURL)
	}

	// Respect cmd.Context() so SIGINT/SIGTERM still cancel the run.
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	cmd.Println("Running migrations...")
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "open migration source").Wrap(err)
	}
	defer func() { _ = migrator.Close() }()
	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}

	authSvc, err := auth.NewService(authpg.NewUserRepository(pool), authpg.NewSessionRepository(pool), auth.NewArgon2idHasher())
	if err != nil {
		return err
	}
	catalogSvc, err := catalog.NewService(catalogpg.NewProductRepository(pool))
	if err != nil {
		return err
	}

	if err := seedAdmin(ctx, cmd, authSvc); err != nil {
		return err
	}
	if err := seedCatalog(ctx, cmd, catalogSvc); err != nil {
		return err
	}

	cmd.Println("Seeding completed")
	return nil
}

func seedAdmin(ctx context.Context, cmd *cobra.Command, svc *auth.Service) error {
	_, err := svc.Register(ctx, seedAdminEmail, seedAdminPassword, seedAdminPassword)
	switch {
	case err == nil:
		cmd.Printf("Created admin user %s\n", seedAdminEmail)
	case errors.Is(err, auth.ErrEmailTaken):
		cmd.Printf("Admin user %s already exists, skipping\n", seedAdminEmail)
	default:
		return oops.Code("SEED_FAILED").With("operation", "create admin user").Wrap(err)
	}
	return nil
}

func seedCatalog(ctx context.Context, cmd *cobra.Command, svc *catalog.Service) error {
	for _, p := range seedProducts {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return oops.Code("SEED_FAILED").With("operation", "parse seed price").With("title", p.title).Wrap(err)
		}

		created, err := svc.Create(ctx, &catalog.Product{
			Title:       p.title,
			Description: p.description,
			ImageURL:    p.imageURL,
			Price:       price,
		})
		if err != nil {
			var verr *catalog.ValidationError
			if errors.As(err, &verr) && len(verr.Fields["title"]) > 0 {
				cmd.Printf("Product %q already exists, skipping\n", p.title)
				continue
			}
			return oops.Code("SEED_FAILED").With("operation", "create product").With("title", p.title).Wrap(err)
		}
		cmd.Printf("Created product %q (%s)\n", created.Title, created.Price.StringFixed(2))
	}
	return nil
}
