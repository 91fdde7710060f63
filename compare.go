package ladders

import (
	"math/cmplx"

	"github.com/google/go-cmp/cmp"
)

// approxComplex treats two coefficients as equal when they differ by at most
// tol in modulus.
func approxComplex(tol float64) cmp.Option {
	return cmp.Comparer(func(x, y complex128) bool {
		return cmplx.Abs(x-y) <= tol
	})
}

// Equivalent reports whether two Expressions have the same term keys with
// coefficients equal within tol. A key present in one but absent in the other
// is a difference regardless of tolerance.
func Equivalent(a, b *Expression, tol float64) bool {
	return cmp.Equal(a.Terms(), b.Terms(), approxComplex(tol))
}

// Diff describes how two Expressions differ, term by term, with coefficient
// comparison under tol. It returns "" when they are equivalent.
func Diff(a, b *Expression, tol float64) string {
	return cmp.Diff(a.Terms(), b.Terms(), approxComplex(tol))
}
