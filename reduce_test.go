package matgrid

import (
	"math/rand"
	"testing"
)

func TestReduceSumSingleElement(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	b, _ := ctx.allocEmpty(1, 1)
	b.data[0] = 42.5
	sum, err := ctx.reduceSum(b)
	if err != nil {
		t.Fatal(err)
	}
	if sum != 42.5 {
		t.Errorf("expected 42.5, got %v", sum)
	}
	ctx.free(b)
}

func TestReduceSumExact(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	// 1..n sums exactly in float64 for small n regardless of order.
	const n = 1000
	b, _ := ctx.allocEmpty(n, 1)
	for i := range b.data {
		b.data[i] = float64(i + 1)
	}
	sum, err := ctx.reduceSum(b)
	if err != nil {
		t.Fatal(err)
	}
	if want := float64(n*(n+1)) / 2; sum != want {
		t.Errorf("expected %v, got %v", want, sum)
	}
	ctx.free(b)
}

func TestReduceSumMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(20))
	tol := RelaxedTolerance()

	for _, workers := range []int{1, 3, 8} {
		for _, n := range []int{1, 2, 7, 64, 4097} {
			ctx := NewContext(WithWorkers(workers))
			b, _ := ctx.allocEmpty(n, 1)
			var want float64
			for i := range b.data {
				b.data[i] = rng.NormFloat64()
				want += b.data[i]
			}

			got, err := ctx.reduceSum(b)
			if err != nil {
				t.Fatal(err)
			}
			if !tol.Near(want, got) {
				t.Errorf("workers=%d n=%d: want %v, got %v", workers, n, want, got)
			}
			ctx.free(b)
			ctx.Close()
		}
	}
}

func TestPairwiseSum(t *testing.T) {
	x := make([]float64, 100)
	for i := range x {
		x[i] = 1
	}
	if got := pairwiseSum(x); got != 100 {
		t.Errorf("expected 100, got %v", got)
	}
	if got := pairwiseSum(nil); got != 0 {
		t.Errorf("expected 0 for empty slice, got %v", got)
	}
}
