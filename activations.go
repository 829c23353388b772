package matgrid

import "math"

// The closed-form logistic expressions below are computed directly in
// float64 with no saturation clamping. Extreme inputs overflow or
// underflow the exponential exactly as the textbook formulas do; callers
// that feed very large magnitudes get Inf/NaN propagation rather than a
// silently clipped value.

// sigmoid computes 1 / (1 + e^-x).
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// sigmoidPrime computes the derivative of the logistic sigmoid,
// e^-z / (1 + e^-z)^2.
func sigmoidPrime(z float64) float64 {
	e := math.Exp(-z)
	return e / ((1 + e) * (1 + e))
}
