// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package editor

import (
	"fmt"

	"github.com/platform-engineering-labs/panier/internal/entity"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

// Form is the value bound to the update form.
type Form struct {
	ID     *int64
	MadeBy *pkgmodel.Compte
	PaidBy *pkgmodel.SystemePaiement
}

func (e *Editor) Form() Form {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.form
}

// SetMadeBy selects the compte with the given key among the shared collection.
// A nil key clears the selection.
func (e *Editor) SetMadeBy(id *int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id == nil {
		e.form.MadeBy = nil
		return nil
	}

	if c, ok := entity.FindByKey(e.comptesSharedCollection, id); ok {
		e.form.MadeBy = c
		return nil
	}

	return fmt.Errorf("compte %d is not a selectable option", *id)
}

// SetPaidBy selects the systeme paiement with the given key among the shared collection.
// A nil key clears the selection.
func (e *Editor) SetPaidBy(id *int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id == nil {
		e.form.PaidBy = nil
		return nil
	}

	if s, ok := entity.FindByKey(e.systemePaiementsSharedCollection, id); ok {
		e.form.PaidBy = s
		return nil
	}

	return fmt.Errorf("systeme paiement %d is not a selectable option", *id)
}

func (e *Editor) createFromForm() *pkgmodel.Panier {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return &pkgmodel.Panier{
		ID:     e.form.ID,
		MadeBy: e.form.MadeBy,
		PaidBy: e.form.PaidBy,
	}
}
