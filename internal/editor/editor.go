// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package editor holds the state behind the panier update form: the record being
// edited, the selectable accounts and payment systems, and the save lifecycle.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/platform-engineering-labs/panier/internal/entity"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

var ErrSaveFailed = errors.New("save failed")

type PanierService interface {
	Create(ctx context.Context, panier *pkgmodel.Panier) (*pkgmodel.Panier, error)
	Update(ctx context.Context, panier *pkgmodel.Panier) (*pkgmodel.Panier, error)
}

type CompteQuerier interface {
	Query(ctx context.Context, opts pkgmodel.QueryOptions) ([]*pkgmodel.Compte, error)
}

type SystemePaiementQuerier interface {
	Query(ctx context.Context, opts pkgmodel.QueryOptions) ([]*pkgmodel.SystemePaiement, error)
}

// RecordProvider supplies the panier to edit, once, when the editor initializes.
type RecordProvider interface {
	Panier(ctx context.Context) (*pkgmodel.Panier, error)
}

type RecordProviderFunc func(ctx context.Context) (*pkgmodel.Panier, error)

func (f RecordProviderFunc) Panier(ctx context.Context) (*pkgmodel.Panier, error) {
	return f(ctx)
}

// StaticRecord provides an already loaded panier.
func StaticRecord(panier *pkgmodel.Panier) RecordProvider {
	return RecordProviderFunc(func(context.Context) (*pkgmodel.Panier, error) {
		return panier, nil
	})
}

// Navigator returns to the view the editor was opened from.
type Navigator interface {
	PreviousState()
}

type NavigatorFunc func()

func (f NavigatorFunc) PreviousState() {
	f()
}

type Services struct {
	Paniers          PanierService
	Comptes          CompteQuerier
	SystemePaiements SystemePaiementQuerier
}

type Editor struct {
	services  Services
	record    RecordProvider
	navigator Navigator

	mu                               sync.RWMutex
	form                             Form
	comptesSharedCollection          []*pkgmodel.Compte
	systemePaiementsSharedCollection []*pkgmodel.SystemePaiement

	// number of saves in flight
	saving atomic.Int32
}

func New(services Services, record RecordProvider, navigator Navigator) *Editor {
	if navigator == nil {
		navigator = NavigatorFunc(func() {})
	}

	return &Editor{
		services:  services,
		record:    record,
		navigator: navigator,
	}
}

// Init loads the record, binds it to the form and fills both reference collections.
func (e *Editor) Init(ctx context.Context) error {
	panier, err := e.record.Panier(ctx)
	if err != nil {
		return fmt.Errorf("failed to load panier: %w", err)
	}
	if panier == nil {
		panier = &pkgmodel.Panier{}
	}

	e.updateForm(panier)

	return e.loadRelationshipsOptions(ctx)
}

func (e *Editor) updateForm(panier *pkgmodel.Panier) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.form = Form{
		ID:     panier.ID,
		MadeBy: panier.MadeBy,
		PaidBy: panier.PaidBy,
	}

	e.comptesSharedCollection = entity.AddToCollectionIfMissing(e.comptesSharedCollection, panier.MadeBy)
	e.systemePaiementsSharedCollection = entity.AddToCollectionIfMissing(e.systemePaiementsSharedCollection, panier.PaidBy)
}

func (e *Editor) loadRelationshipsOptions(ctx context.Context) error {
	var comptes []*pkgmodel.Compte
	var systemePaiements []*pkgmodel.SystemePaiement

	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		comptes, err = e.services.Comptes.Query(ctx, pkgmodel.QueryOptions{})
		if err != nil {
			return fmt.Errorf("failed to query comptes: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		systemePaiements, err = e.services.SystemePaiements.Query(ctx, pkgmodel.QueryOptions{})
		if err != nil {
			return fmt.Errorf("failed to query systeme paiements: %w", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.comptesSharedCollection = entity.AddToCollectionIfMissing(comptes, e.form.MadeBy)
	e.systemePaiementsSharedCollection = entity.AddToCollectionIfMissing(systemePaiements, e.form.PaidBy)

	slog.Debug("Loaded relationship options",
		"comptes", len(e.comptesSharedCollection),
		"systemePaiements", len(e.systemePaiementsSharedCollection))

	return nil
}

// Save sends the form value to Update when it carries an id and to Create otherwise.
// IsSaving reports true from the moment Save returns until the call has terminated.
// The returned channel yields exactly one value: nil on success, an error wrapping
// ErrSaveFailed otherwise. Only a successful save returns to the previous state.
func (e *Editor) Save(ctx context.Context) <-chan error {
	e.saving.Add(1)
	panier := e.createFromForm()

	done := make(chan error, 1)
	go func() {
		defer close(done)

		var err error
		if panier.ID != nil {
			_, err = e.services.Paniers.Update(ctx, panier)
		} else {
			_, err = e.services.Paniers.Create(ctx, panier)
		}

		if err != nil {
			e.onSaveFinalize()
			slog.Warn("Failed to save panier", "id", panier.ID, "error", err)
			done <- fmt.Errorf("%w: %w", ErrSaveFailed, err)
			return
		}

		e.navigator.PreviousState()
		e.onSaveFinalize()
		done <- nil
	}()

	return done
}

func (e *Editor) onSaveFinalize() {
	e.saving.Add(-1)
}

func (e *Editor) IsSaving() bool {
	return e.saving.Load() > 0
}

func (e *Editor) PreviousState() {
	e.navigator.PreviousState()
}

func (e *Editor) ComptesSharedCollection() []*pkgmodel.Compte {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.comptesSharedCollection)
}

func (e *Editor) SystemePaiementsSharedCollection() []*pkgmodel.SystemePaiement {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.systemePaiementsSharedCollection)
}

func (e *Editor) TrackCompteByID(index int, item *pkgmodel.Compte) *int64 {
	return entity.TrackByID(index, item)
}

func (e *Editor) TrackSystemePaiementByID(index int, item *pkgmodel.SystemePaiement) *int64 {
	return entity.TrackByID(index, item)
}
