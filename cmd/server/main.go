// Package main - Entry point for the outscale-cost API server
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"outscale-cost/api"
	"outscale-cost/core/catalog"
	"outscale-cost/core/reconcile"
	"outscale-cost/db"
	"outscale-cost/db/postgres"
	"outscale-cost/internal/config"
	"outscale-cost/internal/logging"
)

func main() {
	cfgFile := flag.String("config", "", "Config file path")
	addr := flag.String("addr", "", "Server address (overrides config)")
	flag.Parse()

	cfg := config.Get()
	if *cfgFile != "" {
		loaded, err := config.Load(*cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(loaded)
		cfg = loaded
	}
	if *addr != "" {
		cfg.API.Address = *addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()
	log := logging.Logger

	var store db.Store
	switch cfg.Database.Driver {
	case "memory":
		store = db.NewMemoryStore()
	case "postgres":
		pg, err := postgres.NewStore(context.Background(), cfg.Database.DSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
			os.Exit(1)
		}
		defer pg.Close()
		store = pg
	default:
		fmt.Fprintf(os.Stderr, "Unsupported database driver: %s\n", cfg.Database.Driver)
		os.Exit(1)
	}

	fetcher := catalog.NewHTTPFetcher(cfg.Catalog.PricesURL)
	engine := reconcile.New(store, fetcher, cfg.Catalog, log)
	server := api.NewServer(engine, cfg.Version, log)

	fmt.Printf("outscale-cost server v%s listening on %s\n", cfg.Version, cfg.API.Address)
	if err := http.ListenAndServe(cfg.API.Address, server); err != nil {
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		os.Exit(1)
	}
}
