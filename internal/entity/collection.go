// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package entity

import (
	"slices"

	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

// AddToCollectionIfMissing prepends every entity of toCheck whose key is not yet part
// of collection. Entities without a key are ignored and an entity is never added twice,
// even when toCheck repeats it. The returned slice never aliases collection.
func AddToCollectionIfMissing[T pkgmodel.Keyed](collection []T, toCheck ...T) []T {
	seen := make(map[int64]struct{}, len(collection)+len(toCheck))
	for _, item := range collection {
		if key := item.Key(); key != nil {
			seen[*key] = struct{}{}
		}
	}

	var missing []T
	for _, item := range toCheck {
		key := item.Key()
		if key == nil {
			continue
		}
		if _, ok := seen[*key]; ok {
			continue
		}
		seen[*key] = struct{}{}
		missing = append(missing, item)
	}

	if len(missing) == 0 {
		return slices.Clone(collection)
	}

	return append(missing, collection...)
}

// TrackByID is the key a rendering layer diffs list entries by.
func TrackByID[T pkgmodel.Keyed](_ int, item T) *int64 {
	return item.Key()
}

// FindByKey returns the entity of collection carrying key.
func FindByKey[T pkgmodel.Keyed](collection []T, key *int64) (T, bool) {
	i := slices.IndexFunc(collection, func(candidate T) bool {
		return pkgmodel.SameKey(candidate.Key(), key)
	})
	if i < 0 {
		var zero T
		return zero, false
	}
	return collection[i], true
}
