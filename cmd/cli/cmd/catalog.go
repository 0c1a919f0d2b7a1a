// Package cmd - CLI command: outscale-cost catalog update
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"outscale-cost/core/catalog"
	"outscale-cost/core/reconcile"
	"outscale-cost/db"
	"outscale-cost/db/postgres"
	"outscale-cost/internal/config"
	"outscale-cost/internal/errors"
	"outscale-cost/internal/logging"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog management commands",
	Long:  "Commands for importing and inspecting the priced catalog.",
}

var catalogUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Import the vendor price catalog",
	Long: `Download the public price sheet and reconcile it against the stored
catalog.

Prices are addressed by a deterministic code; repeated runs update
entities in place and only write prices whose cost changed. Use
--force to rewrite unchanged prices, and --dry-run to reconcile
against an in-memory store without touching the database.`,
	RunE: runCatalogUpdate,
}

var (
	updatePricesURL string
	updateRegions   string
	updateForce     bool
	updateDryRun    bool
	updateTimeout   time.Duration
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogUpdateCmd)

	catalogUpdateCmd.Flags().StringVar(&updatePricesURL, "prices-url", "", "Override the price sheet URL")
	catalogUpdateCmd.Flags().StringVarP(&updateRegions, "regions", "r", "", "Region filter pattern (e.g. \"eu-.*\")")
	catalogUpdateCmd.Flags().BoolVar(&updateForce, "force", false, "Rewrite prices even when unchanged")
	catalogUpdateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "Reconcile against an in-memory store, no database writes")
	catalogUpdateCmd.Flags().DurationVar(&updateTimeout, "timeout", 15*time.Minute, "Timeout for the import")
}

func runCatalogUpdate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	cfg := config.Get()
	if updatePricesURL != "" {
		cfg.Catalog.PricesURL = updatePricesURL
	}
	if updateRegions != "" {
		cfg.Catalog.Regions = updateRegions
	}

	store, closeStore, err := openStore(ctx, cfg, updateDryRun)
	if err != nil {
		return err
	}
	defer closeStore()

	fetcher := catalog.NewHTTPFetcher(cfg.Catalog.PricesURL)
	engine := reconcile.New(store, fetcher, cfg.Catalog, logging.Logger)

	result, err := engine.Run(ctx, updateForce)
	if err != nil {
		return err
	}

	fmt.Printf("Prices processed: %d\n", result.PricesProcessed)
	fmt.Printf("Prices written:   %d\n", result.PricesSaved)
	fmt.Printf("Types created:    %d\n", result.TypesCreated)
	if updateDryRun {
		fmt.Println("Dry run: nothing was persisted.")
	}
	return nil
}

// openStore builds the store from configuration. Dry runs always use the
// in-memory store.
func openStore(ctx context.Context, cfg *config.Config, dryRun bool) (db.Store, func(), error) {
	if dryRun || cfg.Database.Driver == "memory" {
		return db.NewMemoryStore(), func() {}, nil
	}
	if cfg.Database.Driver != "postgres" {
		return nil, nil, errors.New(errors.TypeConfig,
			fmt.Sprintf("unsupported database driver: %s (use memory or postgres)", cfg.Database.Driver))
	}
	store, err := postgres.NewStore(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}
