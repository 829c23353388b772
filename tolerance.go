package matgrid

import "math"

// Tolerance defines the comparison envelope for floating-point
// verification. The training-loop collaborator can use the same
// envelopes the package tests use when cross-checking kernel output
// against a sequential reference.
type Tolerance struct {
	// Abs is the absolute tolerance for values near zero.
	Abs float64
	// Rel is the relative tolerance as a fraction of the larger
	// magnitude.
	Rel float64
}

// DefaultTolerance suits single fused-kernel results.
func DefaultTolerance() Tolerance {
	return Tolerance{Abs: 1e-12, Rel: 1e-9}
}

// RelaxedTolerance suits long accumulations such as large dot products
// and reductions, where summation order shifts the low bits.
func RelaxedTolerance() Tolerance {
	return Tolerance{Abs: 1e-9, Rel: 1e-7}
}

// Near reports whether a and b are equal within the tolerance. NaN
// compares equal to NaN and infinities compare equal by sign, so
// saturated kernel output can be verified against a reference.
func (t Tolerance) Near(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	diff := math.Abs(a - b)
	if diff <= t.Abs {
		return true
	}
	larger := math.Max(math.Abs(a), math.Abs(b))
	return diff <= t.Rel*larger
}

// MatricesNear reports whether two matrices agree in shape and, within
// the tolerance, in every element.
func (t Tolerance) MatricesNear(a, b *Matrix) bool {
	if !a.sameShape(b) {
		return false
	}
	for i, v := range a.data {
		if !t.Near(v, b.data[i]) {
			return false
		}
	}
	return true
}
