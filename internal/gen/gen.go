// Package gen holds small generic collection helpers shared by the rest of
// the module, in the spirit of the teacher project's own helpers/gen
// package.
package gen

import "github.com/samber/lo"

// Filter returns the elements of in for which keep returns true, preserving
// order.
func Filter[T any](in []T, keep func(T) bool) []T {
	return lo.Filter(in, func(item T, _ int) bool { return keep(item) })
}

// MapKeys returns the keys of m in unspecified order.
func MapKeys[K comparable, V any](m map[K]V) []K {
	return lo.Keys(m)
}
