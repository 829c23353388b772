package matgrid

import (
	"math"
	"testing"
)

func TestSigmoidValues(t *testing.T) {
	if got := sigmoid(0); got != 0.5 {
		t.Errorf("sigmoid(0) = %v, want exactly 0.5", got)
	}
	// Symmetry: sigmoid(-x) = 1 - sigmoid(x).
	for _, x := range []float64{0.1, 1, 2.5, 10} {
		if diff := math.Abs(sigmoid(-x) - (1 - sigmoid(x))); diff > 1e-15 {
			t.Errorf("symmetry violated at %v: diff %v", x, diff)
		}
	}
}

func TestSigmoidPrimeValues(t *testing.T) {
	if got := sigmoidPrime(0); got != 0.25 {
		t.Errorf("sigmoidPrime(0) = %v, want exactly 0.25", got)
	}
	// sigmoidPrime(z) = sigmoid(z) * (1 - sigmoid(z)).
	for _, z := range []float64{-3, -0.5, 0.7, 4} {
		s := sigmoid(z)
		want := s * (1 - s)
		if diff := math.Abs(sigmoidPrime(z) - want); diff > 1e-15 {
			t.Errorf("identity violated at %v: got %v, want %v", z, sigmoidPrime(z), want)
		}
	}
}

func TestSigmoidPrimeExtremes(t *testing.T) {
	// The unclamped closed form underflows to 0 for large positive z and
	// overflows to Inf/Inf = NaN for large negative z. Both behaviors
	// are contractual: the naive formula is preserved as-is.
	if got := sigmoidPrime(1000); got != 0 {
		t.Errorf("sigmoidPrime(1000) = %v, want 0", got)
	}
	if got := sigmoidPrime(-1000); !math.IsNaN(got) {
		t.Errorf("sigmoidPrime(-1000) = %v, want NaN", got)
	}
}
