package matgrid

// Reduction layer. Used by the cost function to collapse the per-row
// partial sums into a single host scalar.

// pairwise block size below which summation is linear.
const reduceLeafSize = 8

// reduceSum sums the elements of a device vector with an associative
// tree reduction: each worker folds its contiguous chunk pairwise, then
// the per-worker partials are folded the same way. Summation order
// depends on the worker count, so results may differ across runs at ULP
// level, which the cost-function contract allows. Any length >= 1 is
// tolerated.
func (ctx *Context) reduceSum(v *deviceBuffer) (float64, error) {
	vals := v.data
	if len(vals) == 0 {
		return 0, nil
	}
	if len(vals) == 1 {
		return vals[0], nil
	}

	workers := ctx.workers
	if workers > len(vals) {
		workers = len(vals)
	}
	chunk := (len(vals) + workers - 1) / workers

	partials := make([]float64, workers)
	err := ctx.dispatch(workers, func(w int) {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(vals) {
			hi = len(vals)
		}
		if lo < hi {
			partials[w] = pairwiseSum(vals[lo:hi])
		}
	})
	if err != nil {
		return 0, err
	}
	return pairwiseSum(partials), nil
}

// pairwiseSum folds x by recursive halving, keeping the accumulation
// tree balanced.
func pairwiseSum(x []float64) float64 {
	if len(x) <= reduceLeafSize {
		var sum float64
		for _, v := range x {
			sum += v
		}
		return sum
	}
	half := len(x) / 2
	return pairwiseSum(x[:half]) + pairwiseSum(x[half:])
}
