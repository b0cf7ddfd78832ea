// Command provision creates the collections and indexes the API relies on.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"site-catalog/internal/config"
	"site-catalog/internal/database"
	"site-catalog/pkg/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "print the collections and indexes without touching the database")
	flag.Parse()

	cfg, err := config.LoadProvisionConfig()
	if err != nil {
		boot := logger.New("info", "json")
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	specs := database.Catalogue(database.CatalogueOptions{
		ScopeFor:     cfg.Catalog.ScopeFor,
		SelectionTTL: cfg.Auth.SelectionTTL,
	})

	if *dryRun {
		printPlan(os.Stdout, cfg.Mongo.Database, specs)
		return
	}

	ctx := context.Background()
	client, err := database.Connect(ctx, cfg.Mongo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer client.Disconnect(context.Background())

	if err := database.Provision(ctx, client.Database(cfg.Mongo.Database), specs, log); err != nil {
		log.Fatal().Err(err).Msg("Provisioning failed")
	}
	log.Info().Int("collections", len(specs)).Msg("Provisioning complete")
}

func printPlan(w io.Writer, db string, specs []database.CollectionSpec) {
	fmt.Fprintf(w, "database %s\n", db)
	for _, spec := range specs {
		fmt.Fprintf(w, "  collection %s\n", spec.Name)
		for _, idx := range spec.Indexes {
			fmt.Fprintf(w, "    index %s (%s)%s\n", idx.Name, strings.Join(idx.Keys, ", "), describe(idx))
		}
	}
}

func describe(idx database.IndexSpec) string {
	var opts []string
	if idx.Unique {
		opts = append(opts, "unique")
	}
	if idx.Sparse {
		opts = append(opts, "sparse")
	}
	if len(idx.Partial) > 0 {
		opts = append(opts, fmt.Sprintf("partial %v", idx.Partial))
	}
	if idx.TTL > 0 {
		opts = append(opts, fmt.Sprintf("expireAfterSeconds=%d", int64(idx.TTL.Seconds())))
	}
	if len(opts) == 0 {
		return ""
	}
	return " " + strings.Join(opts, " ")
}
