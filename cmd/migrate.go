package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/frahmantamala/hr-core/db/migrations"
	"github.com/frahmantamala/hr-core/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "run the kv table migrations embedded from db/migrations",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "read migrations from this directory instead of the embedded set")
}

// openMigrationDB maps the storage driver to a goose dialect and sql driver.
func openMigrationDB(cfg internal.StorageConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case internal.StorageDriverSQLite:
		return goose.OpenDBWithDriver("sqlite3", cfg.SQLitePath)
	case internal.StorageDriverPostgres:
		return goose.OpenDBWithDriver("pgx", cfg.PostgresDSN)
	}
	return nil, fmt.Errorf("driver %q has no sql schema", cfg.Driver)
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg := mustLoadConfig()

	if cfg.Storage.Driver == internal.StorageDriverRedis || cfg.Storage.Driver == internal.StorageDriverMemory {
		log.Printf("storage driver %q needs no migrations", cfg.Storage.Driver)
		return nil
	}

	db, err := openMigrationDB(cfg.Storage)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer db.Close()

	goose.SetTableName("schema_migrations")
	dir := migrateDir
	if dir == "" {
		goose.SetBaseFS(migrations.FS)
		dir = "."
	}

	if migrateRollback {
		if err := goose.DownContext(ctx, db, dir); err != nil {
			log.Fatalf("goose down: %v", err)
		}
		return nil
	}

	if err := goose.RunContext(ctx, "up", db, dir); err != nil {
		log.Fatalf("goose up: %v", err)
	}

	return nil
}
