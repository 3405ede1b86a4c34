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

	"github.com/exaring/otelpgx"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

type DatastorePostgres struct {
	pool *pgxpool.Pool
	cfg  *pkgmodel.DatastoreConfig
}

func connectionString(cfg *pkgmodel.PostgresConfig, database string) string {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", cfg.User, cfg.Password, cfg.Host, cfg.Port, database)

	var params []string
	if cfg.ConnectionParams != "" {
		params = append(params, cfg.ConnectionParams)
	}
	if cfg.Schema != "" {
		params = append(params, "search_path="+cfg.Schema)
	}
	if len(params) > 0 {
		connStr += "?" + strings.Join(params, "&")
	}

	return connStr
}

// This can be only used in tests or in setups where we have access to admin (non-production)
func ensureDatabaseExists(ctx context.Context, cfg *pkgmodel.DatastoreConfig) error {
	conn, err := pgx.Connect(ctx, connectionString(&cfg.Postgres, "postgres"))
	if err != nil {
		return fmt.Errorf("failed to connect to admin database: %w", err)
	}

	defer func() {
		if err := conn.Close(ctx); err != nil {
			slog.Error("failed to close connection", "error", err)
		}
	}()

	var exists bool
	err = conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.Postgres.Database).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		_, err = conn.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", pgx.Identifier{cfg.Postgres.Database}.Sanitize()))
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
	}

	return nil
}

// This can be only used in tests or in setups where we have access to admin (non-production)
func NewDatastorePostgresEnsureDatabase(ctx context.Context, cfg *pkgmodel.DatastoreConfig, opts ...Option) (Datastore, error) {
	if err := ensureDatabaseExists(ctx, cfg); err != nil {
		return nil, err
	}

	return NewDatastorePostgres(ctx, cfg, opts...)
}

// NewDatastorePostgres records pool statistics with the global meter provider.
// WithMeterProvider only applies to the sqlite datastore.
func NewDatastorePostgres(ctx context.Context, cfg *pkgmodel.DatastoreConfig, _ ...Option) (Datastore, error) {
	connStr := connectionString(&cfg.Postgres, cfg.Postgres.Database)

	migrationDB, err := sql.Open("pgx", connStr)
	if err != nil {
		slog.Error("failed to open database for migrations", "error", err)
		return nil, err
	}
	defer func() {
		if err := migrationDB.Close(); err != nil {
			slog.Warn("failed to close migration database", "error", err)
		}
	}()

	if err = runMigrations(ctx, migrationDB, "postgres"); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		slog.Error("failed to parse postgres connection string", "error", err)
		return nil, err
	}
	poolCfg.ConnConfig.Tracer = otelpgx.NewTracer(otelpgx.WithDisableConnectionDetailsInAttributes())

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL database", "error", err)
		return nil, err
	}

	if err := otelpgx.RecordStats(pool); err != nil {
		slog.Error("failed to start recording pool stats", "error", err)
	}

	slog.Info("Started PostgreSQL datastore", "host", cfg.Postgres.Host, "port", cfg.Postgres.Port, "database", cfg.Postgres.Database, "schema", cfg.Postgres.Schema, "user", cfg.Postgres.User)

	return DatastorePostgres{pool: pool, cfg: cfg}, nil
}

func (d DatastorePostgres) StorePanier(ctx context.Context, panier *pkgmodel.Panier) (*pkgmodel.Panier, error) {
	madeBy, paidBy := panier.MadeBy.Key(), panier.PaidBy.Key()

	if panier.ID == nil {
		var id int64
		err := d.pool.QueryRow(ctx, "INSERT INTO panier (made_by_id, paid_by_id) VALUES ($1, $2) RETURNING id", madeBy, paidBy).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to insert panier: %w", err)
		}
		return d.LoadPanier(ctx, id)
	}

	tag, err := d.pool.Exec(ctx, "UPDATE panier SET made_by_id = $1, paid_by_id = $2 WHERE id = $3", madeBy, paidBy, *panier.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update panier %d: %w", *panier.ID, err)
	}
	if err := expectRows(tag); err != nil {
		return nil, err
	}

	return d.LoadPanier(ctx, *panier.ID)
}

func (d DatastorePostgres) LoadPanier(ctx context.Context, id int64) (*pkgmodel.Panier, error) {
	var row panierRow
	err := d.pool.QueryRow(ctx, panierSelect+" WHERE p.id = $1", id).Scan(row.dest()...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load panier %d: %w", id, err)
	}

	return row.panier(), nil
}

func (d DatastorePostgres) QueryPaniers(ctx context.Context, opts pkgmodel.QueryOptions) ([]*pkgmodel.Panier, error) {
	query, args := postgresPage(panierSelect+" ORDER BY p.id", opts)

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query paniers: %w", err)
	}
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

func (d DatastorePostgres) CountPaniers(ctx context.Context) (int, error) {
	return d.count(ctx, PaniersTable)
}

func (d DatastorePostgres) DeletePanier(ctx context.Context, id int64) error {
	tag, err := d.pool.Exec(ctx, "DELETE FROM panier WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete panier %d: %w", id, err)
	}

	return expectRows(tag)
}

func (d DatastorePostgres) StoreCompte(ctx context.Context, compte *pkgmodel.Compte) (*pkgmodel.Compte, error) {
	id, err := d.upsert(ctx, ComptesTable, "login", compte.ID, compte.Login)
	if err != nil {
		return nil, err
	}

	return &pkgmodel.Compte{ID: pkgmodel.ID(id), Login: compte.Login}, nil
}

func (d DatastorePostgres) LoadCompte(ctx context.Context, id int64) (*pkgmodel.Compte, error) {
	c := &pkgmodel.Compte{}
	err := d.pool.QueryRow(ctx, "SELECT id, login FROM compte WHERE id = $1", id).Scan(&c.ID, &c.Login)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load compte %d: %w", id, err)
	}

	return c, nil
}

func (d DatastorePostgres) QueryComptes(ctx context.Context, opts pkgmodel.QueryOptions) ([]*pkgmodel.Compte, error) {
	query, args := postgresPage("SELECT id, login FROM compte ORDER BY id", opts)

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comptes: %w", err)
	}

	comptes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*pkgmodel.Compte, error) {
		c := &pkgmodel.Compte{}
		return c, row.Scan(&c.ID, &c.Login)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read comptes: %w", err)
	}

	return comptes, nil
}

func (d DatastorePostgres) CountComptes(ctx context.Context) (int, error) {
	return d.count(ctx, ComptesTable)
}

func (d DatastorePostgres) StoreSystemePaiement(ctx context.Context, systemePaiement *pkgmodel.SystemePaiement) (*pkgmodel.SystemePaiement, error) {
	id, err := d.upsert(ctx, SystemePaiementsTable, "name", systemePaiement.ID, systemePaiement.Name)
	if err != nil {
		return nil, err
	}

	return &pkgmodel.SystemePaiement{ID: pkgmodel.ID(id), Name: systemePaiement.Name}, nil
}

func (d DatastorePostgres) LoadSystemePaiement(ctx context.Context, id int64) (*pkgmodel.SystemePaiement, error) {
	s := &pkgmodel.SystemePaiement{}
	err := d.pool.QueryRow(ctx, "SELECT id, name FROM systeme_paiement WHERE id = $1", id).Scan(&s.ID, &s.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load systeme paiement %d: %w", id, err)
	}

	return s, nil
}

func (d DatastorePostgres) QuerySystemePaiements(ctx context.Context, opts pkgmodel.QueryOptions) ([]*pkgmodel.SystemePaiement, error) {
	query, args := postgresPage("SELECT id, name FROM systeme_paiement ORDER BY id", opts)

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query systeme paiements: %w", err)
	}

	systemePaiements, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*pkgmodel.SystemePaiement, error) {
		s := &pkgmodel.SystemePaiement{}
		return s, row.Scan(&s.ID, &s.Name)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read systeme paiements: %w", err)
	}

	return systemePaiements, nil
}

func (d DatastorePostgres) CountSystemePaiements(ctx context.Context) (int, error) {
	return d.count(ctx, SystemePaiementsTable)
}

func (d DatastorePostgres) Close() {
	d.pool.Close()
}

// This can be only used in tests or in setups where we have access to admin (non-production)
func (d DatastorePostgres) CleanUp() error {
	d.pool.Close()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, connectionString(&d.cfg.Postgres, "postgres"))
	if err != nil {
		return fmt.Errorf("failed to connect to admin database: %w", err)
	}

	defer func() {
		if err := conn.Close(ctx); err != nil {
			slog.Error("failed to close connection", "error", err)
		}
	}()

	_, err = conn.Exec(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", pgx.Identifier{d.cfg.Postgres.Database}.Sanitize()))
	if err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	return nil
}

func (d DatastorePostgres) upsert(ctx context.Context, table, column string, id *int64, value string) (int64, error) {
	if id == nil {
		var newID int64
		err := d.pool.QueryRow(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1) RETURNING id", table, column), value).Scan(&newID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
		}
		return newID, nil
	}

	tag, err := d.pool.Exec(ctx, fmt.Sprintf("UPDATE %s SET %s = $1 WHERE id = $2", table, column), value, *id)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s %d: %w", table, *id, err)
	}
	if err := expectRows(tag); err != nil {
		return 0, err
	}

	return *id, nil
}

func (d DatastorePostgres) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := d.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

func postgresPage(query string, opts pkgmodel.QueryOptions) (string, []any) {
	limit, offset, ok := pagination(opts)
	if !ok {
		return query, nil
	}
	return query + " LIMIT $1 OFFSET $2", []any{limit, offset}
}

func expectRows(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
