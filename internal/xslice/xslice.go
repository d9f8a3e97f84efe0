// Package xslice adapts golang.org/x/exp/slices for the small set of
// generic slice operations the graph and polygon packages need (membership
// test, stable sort by key), kept in one place instead of every caller
// hand-rolling its own loop.
package xslice

import "golang.org/x/exp/slices"

// Contains reports whether v is present in s.
func Contains[T comparable](s []T, v T) bool {
	return slices.Contains(s, v)
}

// SortByKey stable-sorts s in place by the float64 key key(e) ascending.
func SortByKey[T any](s []T, key func(T) float64) {
	slices.SortStableFunc(s, func(a, b T) bool { return key(a) < key(b) })
}

// IndexFunc returns the index of the first element satisfying pred, or -1.
func IndexFunc[T any](s []T, pred func(T) bool) int {
	return slices.IndexFunc(s, pred)
}
