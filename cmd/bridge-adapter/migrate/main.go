package main

import (
	"context"
	"flag"
	"log"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/config"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/migrations/auditdb"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/pgutil"
	mghelper "github.com/chainsafe/mvx-bridge-adapter/pkg/pgutil/migrations"

	"github.com/uptrace/bun/migrate"
)

func main() {
	cfgPath := flag.String("config", "config.example.yaml", "Path to configuration file")
	flag.Usage = mghelper.Usage
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("error reading configuration file: %s", err.Error())
	}

	ctx := context.Background()

	// Connect to database
	db, err := pgutil.ConnectDB(ctx, &cfg.Database, nil)
	if err != nil {
		log.Fatalf("error connecting to database: %s", err.Error())
	}
	defer db.Close()

	log.Printf("Running migrations for audit database (%s)...\n", cfg.Database.Database)

	migrator := migrate.NewMigrator(db, auditdb.Migrations)

	if err := mghelper.RunMigrations(ctx, migrator, flag.Args()...); err != nil {
		mghelper.Exitf(err.Error())
	}
}
