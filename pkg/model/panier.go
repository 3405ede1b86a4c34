// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

// Panier is the cart/order record. It optionally references the account that made
// it and the payment system that paid for it.
type Panier struct {
	ID     *int64           `json:"id,omitempty" yaml:"id,omitempty"`
	MadeBy *Compte          `json:"madeBy,omitempty" yaml:"madeBy,omitempty"`
	PaidBy *SystemePaiement `json:"paidBy,omitempty" yaml:"paidBy,omitempty"`
}

func (p *Panier) Key() *int64 {
	if p == nil {
		return nil
	}
	return p.ID
}

// IsNew reports whether the panier still has to be created.
func (p *Panier) IsNew() bool {
	return p == nil || p.ID == nil
}

type Compte struct {
	ID    *int64 `json:"id,omitempty" yaml:"id,omitempty"`
	Login string `json:"login,omitempty" yaml:"login,omitempty"`
}

func (c *Compte) Key() *int64 {
	if c == nil {
		return nil
	}
	return c.ID
}

type SystemePaiement struct {
	ID   *int64 `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

func (s *SystemePaiement) Key() *int64 {
	if s == nil {
		return nil
	}
	return s.ID
}
