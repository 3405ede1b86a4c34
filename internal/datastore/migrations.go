// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package datastore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations_sqlite/*.sql
var embedMigrationsSQLite embed.FS

//go:embed migrations_postgres/*.sql
var embedMigrationsPostgres embed.FS

// goose keeps its base FS and dialect in package state
var migrationsMu sync.Mutex

func runMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	migrationsMu.Lock()
	defer migrationsMu.Unlock()

	var dir string
	switch dialect {
	case "sqlite3":
		goose.SetBaseFS(embedMigrationsSQLite)
		dir = "migrations_sqlite"
	case "postgres":
		goose.SetBaseFS(embedMigrationsPostgres)
		dir = "migrations_postgres"
	default:
		return fmt.Errorf("unsupported dialect: %s", dialect)
	}

	goose.SetTableName("db_version")
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect %s: %w", dialect, err)
	}

	before, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		before = 0
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		slog.Error("Failed to run migrations", "dialect", dialect, "error", err)
		return err
	}

	after, err := goose.GetDBVersionContext(ctx, db)
	if err == nil && after != before {
		slog.Info("Database migrated", "dialect", dialect, "previousVersion", before, "currentVersion", after)
	}

	return nil
}
