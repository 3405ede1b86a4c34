// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

const (
	TotalCountHeader = "X-Total-Count"
	ClientIDHeader   = "Client-ID"

	PanierEntity          = "panier"
	CompteEntity          = "compte"
	SystemePaiementEntity = "systemePaiement"
)

// Page is a slice of a collection together with the size of the whole collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
}

type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
