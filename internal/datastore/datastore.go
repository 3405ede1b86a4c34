// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package datastore

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

const (
	PaniersTable          = "panier"
	ComptesTable          = "compte"
	SystemePaiementsTable = "systeme_paiement"
)

var ErrNotFound = errors.New("entity not found")

// Datastore defines the persistence interface for paniers and the entities they reference.
// Store operations insert entities without an id and update the others; updating an id that
// does not exist returns ErrNotFound. Loaded paniers carry their relationships hydrated.
type Datastore interface {
	StorePanier(ctx context.Context, panier *pkgmodel.Panier) (*pkgmodel.Panier, error)
	LoadPanier(ctx context.Context, id int64) (*pkgmodel.Panier, error)
	QueryPaniers(ctx context.Context, opts pkgmodel.QueryOptions) ([]*pkgmodel.Panier, error)
	CountPaniers(ctx context.Context) (int, error)
	DeletePanier(ctx context.Context, id int64) error

	StoreCompte(ctx context.Context, compte *pkgmodel.Compte) (*pkgmodel.Compte, error)
	LoadCompte(ctx context.Context, id int64) (*pkgmodel.Compte, error)
	QueryComptes(ctx context.Context, opts pkgmodel.QueryOptions) ([]*pkgmodel.Compte, error)
	CountComptes(ctx context.Context) (int, error)

	StoreSystemePaiement(ctx context.Context, systemePaiement *pkgmodel.SystemePaiement) (*pkgmodel.SystemePaiement, error)
	LoadSystemePaiement(ctx context.Context, id int64) (*pkgmodel.SystemePaiement, error)
	QuerySystemePaiements(ctx context.Context, opts pkgmodel.QueryOptions) ([]*pkgmodel.SystemePaiement, error)
	CountSystemePaiements(ctx context.Context) (int, error)

	Close()
}

type options struct {
	meterProvider metric.MeterProvider
}

type Option func(*options)

// WithMeterProvider selects where connection statistics are recorded. The global
// provider is used otherwise.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = provider
	}
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.meterProvider == nil {
		o.meterProvider = otel.GetMeterProvider()
	}
	return o
}

func New(ctx context.Context, cfg *pkgmodel.DatastoreConfig, opts ...Option) (Datastore, error) {
	switch cfg.DatastoreType {
	case pkgmodel.PostgresDatastore:
		return NewDatastorePostgres(ctx, cfg, opts...)
	case pkgmodel.SqliteDatastore, "":
		return NewDatastoreSQLite(ctx, cfg, opts...)
	default:
		return nil, fmt.Errorf("unsupported datastore type: %s", cfg.DatastoreType)
	}
}

func pagination(opts pkgmodel.QueryOptions) (limit int, offset int, ok bool) {
	if opts.Size <= 0 {
		return 0, 0, false
	}
	page := max(opts.Page, 0)
	return opts.Size, page * opts.Size, true
}

// panierRow is the shape of a panier joined with its relationships.
type panierRow struct {
	id       int64
	compteID *int64
	login    *string
	spID     *int64
	spName   *string
}

func (r panierRow) panier() *pkgmodel.Panier {
	p := &pkgmodel.Panier{ID: pkgmodel.ID(r.id)}
	if r.compteID != nil {
		p.MadeBy = &pkgmodel.Compte{ID: r.compteID}
		if r.login != nil {
			p.MadeBy.Login = *r.login
		}
	}
	if r.spID != nil {
		p.PaidBy = &pkgmodel.SystemePaiement{ID: r.spID}
		if r.spName != nil {
			p.PaidBy.Name = *r.spName
		}
	}
	return p
}

func (r *panierRow) dest() []any {
	return []any{&r.id, &r.compteID, &r.login, &r.spID, &r.spName}
}

const panierSelect = `
SELECT p.id, c.id, c.login, s.id, s.name
FROM panier p
LEFT JOIN compte c ON c.id = p.made_by_id
LEFT JOIN systeme_paiement s ON s.id = p.paid_by_id`
