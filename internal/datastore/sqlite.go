// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/XSAM/otelsql"
	"github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.22.0"

	"github.com/platform-engineering-labs/panier/internal/util"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

const sqliteOtelDriverName = "sqlite3-otel"

func init() {
	// query spans and latency go to the global providers
	sql.Register(sqliteOtelDriverName, otelsql.WrapDriver(&sqlite3.SQLiteDriver{},
		otelsql.WithAttributes(semconv.DBSystemSqlite),
		otelsql.WithSpanOptions(otelsql.SpanOptions{
			DisableErrSkip: true,
		}),
	))
}

type DatastoreSQLite struct {
	conn  *sql.DB
	stats metric.Registration
}

func NewDatastoreSQLite(ctx context.Context, cfg *pkgmodel.DatastoreConfig, opts ...Option) (Datastore, error) {
	o := newOptions(opts)

	isMemoryDb := cfg.Sqlite.FilePath == ":memory:" ||
		strings.HasPrefix(cfg.Sqlite.FilePath, "file::memory:")

	if cfg.Sqlite.FilePath != "" && !isMemoryDb {
		if err := util.EnsureFileFolderHierarchy(cfg.Sqlite.FilePath); err != nil {
			slog.Error("failed to create datastore folder hierarchy", "error", err)
			return nil, err
		}
	}

	conn, err := sql.Open(sqliteOtelDriverName, cfg.Sqlite.FilePath)
	if err != nil {
		slog.Error("Failed to connect to sqlite database", "error", err)
		return nil, err
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=10000", "PRAGMA foreign_keys=ON"} {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			slog.Error("Failed to configure sqlite", "pragma", pragma, "error", err)
			_ = conn.Close()
			return nil, err
		}
	}

	// a single connection keeps in-memory databases alive and avoids "database is locked"
	conn.SetMaxOpenConns(1)

	if err = runMigrations(ctx, conn, "sqlite3"); err != nil {
		_ = conn.Close()
		return nil, err
	}

	stats, err := otelsql.RegisterDBStatsMetrics(conn,
		otelsql.WithMeterProvider(o.meterProvider),
		otelsql.WithAttributes(semconv.DBSystemSqlite),
	)
	if err != nil {
		// the datastore works without connection metrics
		slog.Error("Failed to register sqlite connection metrics", "error", err)
	}

	slog.Info("Started SQLite datastore", "filePath", cfg.Sqlite.FilePath)

	return DatastoreSQLite{conn: conn, stats: stats}, nil
}

func (d DatastoreSQLite) StorePanier(ctx context.Context, panier *pkgmodel.Panier) (*pkgmodel.Panier, error) {
	madeBy, paidBy := panier.MadeBy.Key(), panier.PaidBy.Key()

	if panier.ID == nil {
		res, err := d.conn.ExecContext(ctx, "INSERT INTO panier (made_by_id, paid_by_id) VALUES (?, ?)", madeBy, paidBy)
		if err != nil {
			return nil, fmt.Errorf("failed to insert panier: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read panier id: %w", err)
		}
		return d.LoadPanier(ctx, id)
	}

	res, err := d.conn.ExecContext(ctx, "UPDATE panier SET made_by_id = ?, paid_by_id = ? WHERE id = ?", madeBy, paidBy, *panier.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update panier %d: %w", *panier.ID, err)
	}
	if err := expectAffected(res); err != nil {
		return nil, err
	}

	return d.LoadPanier(ctx, *panier.ID)
}

func (d DatastoreSQLite) LoadPanier(ctx context.Context, id int64) (*pkgmodel.Panier, error) {
	var row panierRow
	err := d.conn.QueryRowContext(ctx, panierSelect+" WHERE p.id = ?", id).Scan(row.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load panier %d: %w", id, err)
	}

	return row.panier(), nil
}

func (d DatastoreSQLite) QueryPaniers(ctx context.Context, opts pkgmodel.QueryOptions) ([]*pkgmodel.Panier, error) {
	query, args := sqlitePage(panierSelect+" ORDER BY p.id", opts)

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query paniers: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	paniers := []*pkgmodel.Panier{}
	for rows.Next() {
		var row panierRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, err
		}
		paniers = append(paniers, row.panier())
	}

	return paniers, rows.Err()
}

func (d DatastoreSQLite) CountPaniers(ctx context.Context) (int, error) {
	return d.count(ctx, PaniersTable)
}

func (d DatastoreSQLite) DeletePanier(ctx context.Context, id int64) error {
	res, err := d.conn.ExecContext(ctx, "DELETE FROM panier WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete panier %d: %w", id, err)
	}

	return expectAffected(res)
}

func (d DatastoreSQLite) StoreCompte(ctx context.Context, compte *pkgmodel.Compte) (*pkgmodel.Compte, error) {
	id, err := d.upsert(ctx, ComptesTable, "login", compte.ID, compte.Login)
	if err != nil {
		return nil, err
	}

	return &pkgmodel.Compte{ID: pkgmodel.ID(id), Login: compte.Login}, nil
}

func (d DatastoreSQLite) LoadCompte(ctx context.Context, id int64) (*pkgmodel.Compte, error) {
	c := &pkgmodel.Compte{}
	err := d.conn.QueryRowContext(ctx, "SELECT id, login FROM compte WHERE id = ?", id).Scan(&c.ID, &c.Login)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load compte %d: %w", id, err)
	}

	return c, nil
}

func (d DatastoreSQLite) QueryComptes(ctx context.Context, opts pkgmodel.QueryOptions) ([]*pkgmodel.Compte, error) {
	query, args := sqlitePage("SELECT id, login FROM compte ORDER BY id", opts)

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comptes: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	comptes := []*pkgmodel.Compte{}
	for rows.Next() {
		c := &pkgmodel.Compte{}
		if err := rows.Scan(&c.ID, &c.Login); err != nil {
			return nil, err
		}
		comptes = append(comptes, c)
	}

	return comptes, rows.Err()
}

func (d DatastoreSQLite) CountComptes(ctx context.Context) (int, error) {
	return d.count(ctx, ComptesTable)
}

func (d DatastoreSQLite) StoreSystemePaiement(ctx context.Context, systemePaiement *pkgmodel.SystemePaiement) (*pkgmodel.SystemePaiement, error) {
	id, err := d.upsert(ctx, SystemePaiementsTable, "name", systemePaiement.ID, systemePaiement.Name)
	if err != nil {
		return nil, err
	}

	return &pkgmodel.SystemePaiement{ID: pkgmodel.ID(id), Name: systemePaiement.Name}, nil
}

func (d DatastoreSQLite) LoadSystemePaiement(ctx context.Context, id int64) (*pkgmodel.SystemePaiement, error) {
	s := &pkgmodel.SystemePaiement{}
	err := d.conn.QueryRowContext(ctx, "SELECT id, name FROM systeme_paiement WHERE id = ?", id).Scan(&s.ID, &s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load systeme paiement %d: %w", id, err)
	}

	return s, nil
}

func (d DatastoreSQLite) QuerySystemePaiements(ctx context.Context, opts pkgmodel.QueryOptions) ([]*pkgmodel.SystemePaiement, error) {
	query, args := sqlitePage("SELECT id, name FROM systeme_paiement ORDER BY id", opts)

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query systeme paiements: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	systemePaiements := []*pkgmodel.SystemePaiement{}
	for rows.Next() {
		s := &pkgmodel.SystemePaiement{}
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		systemePaiements = append(systemePaiements, s)
	}

	return systemePaiements, rows.Err()
}

func (d DatastoreSQLite) CountSystemePaiements(ctx context.Context) (int, error) {
	return d.count(ctx, SystemePaiementsTable)
}

func (d DatastoreSQLite) Close() {
	if d.stats != nil {
		if err := d.stats.Unregister(); err != nil {
			slog.Warn("Failed to unregister sqlite connection metrics", "error", err)
		}
	}
	if err := d.conn.Close(); err != nil {
		slog.Warn("Failed to close sqlite datastore", "error", err)
	}
}

// CleanUp is a no-op, only the postgres integration tests need one
func (d DatastoreSQLite) CleanUp() error {
	return nil
}

// upsert stores the single attribute column of a reference entity and returns its id.
func (d DatastoreSQLite) upsert(ctx context.Context, table, column string, id *int64, value string) (int64, error) {
	if id == nil {
		res, err := d.conn.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (?)", table, column), value)
		if err != nil {
			return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
		}
		return res.LastInsertId()
	}

	res, err := d.conn.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ?", table, column), value, *id)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s %d: %w", table, *id, err)
	}
	if err := expectAffected(res); err != nil {
		return 0, err
	}

	return *id, nil
}

func (d DatastoreSQLite) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := d.conn.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

func sqlitePage(query string, opts pkgmodel.QueryOptions) (string, []any) {
	limit, offset, ok := pagination(opts)
	if !ok {
		return query, nil
	}
	return query + " LIMIT ? OFFSET ?", []any{limit, offset}
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
