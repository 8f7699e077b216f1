// Package batch assembles relationship results for a whole set of parents
// from a single bulk fetch.
//
// Flow for the to-one direction:
//  1. collect the distinct foreign ids of all parents
//  2. fetch them with one call
//  3. index the fetched rows by id
//  4. walk the parents once and pick their row from the index
//
// Nothing depends on the order the store returns rows in, and parents are
// never written to.
package batch

import (
	"context"
)

// FetchFunc loads every entity whose id is in ids with one round trip
type FetchFunc[K comparable, C any] func(ctx context.Context, ids []K) ([]C, error)

// DistinctKeys returns the keys of items in first-seen order without duplicates
func DistinctKeys[T any, K comparable](items []T, key func(T) K) []K {
	seen := make(map[K]struct{}, len(items))
	keys := make([]K, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// Index builds id -> entity. Later duplicates win.
func Index[C any, K comparable](items []C, key func(C) K) map[K]C {
	out := make(map[K]C, len(items))
	for _, item := range items {
		out[key(item)] = item
	}
	return out
}

// GroupBy buckets items by key. Every key in want is present in the result,
// with an empty slice when nothing matched.
func GroupBy[C any, K comparable](items []C, key func(C) K, want []K) map[K][]C {
	out := make(map[K][]C, len(want))
	for _, k := range want {
		out[k] = []C{}
	}
	for _, item := range items {
		k := key(item)
		if _, ok := out[k]; !ok {
			continue
		}
		out[k] = append(out[k], item)
	}
	return out
}

// OneResult is the outcome of ResolveOne
type OneResult[P any, K comparable, C any] struct {
	// Related holds parent id -> related entity. Orphans are absent.
	Related map[K]C
	// Orphans are parents whose foreign id matched nothing
	Orphans []P
	// Keys is the distinct foreign id set that was fetched
	Keys []K
}

// ResolveOne runs the to-one algorithm: one fetch for all distinct foreign ids,
// then a single pass over parents. fetch is not called for an empty parent set.
func ResolveOne[P any, K comparable, C any](
	ctx context.Context,
	parents []P,
	parentID func(P) K,
	foreignID func(P) K,
	relatedID func(C) K,
	fetch FetchFunc[K, C],
) (*OneResult[P, K, C], error) {
	result := &OneResult[P, K, C]{Related: make(map[K]C, len(parents))}
	if len(parents) == 0 {
		return result, nil
	}

	result.Keys = DistinctKeys(parents, foreignID)

	rows, err := fetch(ctx, result.Keys)
	if err != nil {
		return nil, err
	}
	byID := Index(rows, relatedID)

	for _, p := range parents {
		related, ok := byID[foreignID(p)]
		if !ok {
			result.Orphans = append(result.Orphans, p)
			continue
		}
		result.Related[parentID(p)] = related
	}
	return result, nil
}

// ResolveMany runs the inverse direction: one fetch of every child owned by
// any of parentIDs, grouped by owner. Every requested parent id is present.
func ResolveMany[K comparable, C any](
	ctx context.Context,
	parentIDs []K,
	ownerID func(C) K,
	fetch FetchFunc[K, C],
) (map[K][]C, error) {
	if len(parentIDs) == 0 {
		return map[K][]C{}, nil
	}

	keys := DistinctKeys(parentIDs, func(k K) K { return k })
	rows, err := fetch(ctx, keys)
	if err != nil {
		return nil, err
	}
	return GroupBy(rows, ownerID, keys), nil
}
