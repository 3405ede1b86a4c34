// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

const DefaultPageSize = 20

// QueryOptions selects a page of a collection. A zero Size means "everything".
type QueryOptions struct {
	Page int
	Size int
}
