// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

// Keyed is implemented by every entity identified by a numeric primary key.
// A nil key means the entity has not been persisted yet.
type Keyed interface {
	Key() *int64
}

// ID returns a pointer to a copy of id, convenient for literals.
func ID(id int64) *int64 {
	return &id
}

// SameKey reports whether both keys are set and equal.
func SameKey(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}
