package hidl

import "golang.org/x/exp/constraints"

// maxOf backs every width/alignment comparison in types.go and
// constexpr.go. Go's generics don't supply a built-in max for every
// release this module targets, so this is kept as a one-line generic
// function over constraints.Ordered rather than duplicating the
// comparison inline at each call site.
func maxOf[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
