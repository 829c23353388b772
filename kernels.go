package matgrid

// Kernel bodies. Each is an explicit function over device-buffer handles
// and one index of its domain, writing exactly one disjoint region of the
// output buffer. No body reads a cell written by another invocation of
// the same dispatch, so every kernel is race-free by construction.

// transposeRow writes row i of the input as column i of the output.
// Row-indexed over the input's rows; out is cols×rows.
func transposeRow(i int, in, out *deviceBuffer) {
	for j := 0; j < in.cols; j++ {
		out.set(j, i, in.at(i, j))
	}
}

// multiplyCell computes one output cell of a·b as a dot product over the
// shared dimension. Cell-indexed over the h×w output domain.
func multiplyCell(idx int, a, b, out *deviceBuffer) {
	i := idx / out.cols
	j := idx % out.cols
	var sum float64
	for k := 0; k < a.cols; k++ {
		sum += a.at(i, k) * b.at(k, j)
	}
	out.set(i, j, sum)
}

// transposeMultiplyCell computes one output cell of aᵀ·b, reading a
// transposed in place so the transpose is never materialized.
// Cell-indexed over the l×w output domain, where l is a's column count.
func transposeMultiplyCell(idx int, a, b, out *deviceBuffer) {
	i := idx / out.cols
	j := idx % out.cols
	var sum float64
	for k := 0; k < a.rows; k++ {
		sum += a.at(k, i) * b.at(k, j)
	}
	out.set(i, j, sum)
}

// multiplySigmoidCell fuses the multiply dot product with the logistic
// activation, avoiding a second pass over the product matrix.
func multiplySigmoidCell(idx int, a, b, out *deviceBuffer) {
	i := idx / out.cols
	j := idx % out.cols
	var sum float64
	for k := 0; k < a.cols; k++ {
		sum += a.at(i, k) * b.at(k, j)
	}
	out.set(i, j, sigmoid(sum))
}

// sigmoidRow applies the logistic function elementwise to row i.
func sigmoidRow(i int, in, out *deviceBuffer) {
	src := in.row(i)
	dst := out.row(i)
	for j, v := range src {
		dst[j] = sigmoid(v)
	}
}

// subtractHadamardSigmoidPrimeRow fuses the output-layer error step of
// backpropagation for row i: (a-y) ⊙ σ'(z).
func subtractHadamardSigmoidPrimeRow(i int, a, y, z, out *deviceBuffer) {
	ar := a.row(i)
	yr := y.row(i)
	zr := z.row(i)
	dst := out.row(i)
	for j := range dst {
		dst[j] = (ar[j] - yr[j]) * sigmoidPrime(zr[j])
	}
}

// sigmoidPrimeHadamardRow fuses the hidden-layer error step for row i:
// σ'(z) ⊙ delta.
func sigmoidPrimeHadamardRow(i int, z, delta, out *deviceBuffer) {
	zr := z.row(i)
	dr := delta.row(i)
	dst := out.row(i)
	for j := range dst {
		dst[j] = sigmoidPrime(zr[j]) * dr[j]
	}
}

// squaredDiffRow accumulates the squared difference of row i of a and b
// into one cell of the per-row partials vector, feeding the cost
// reduction.
func squaredDiffRow(i int, a, b, partials *deviceBuffer) {
	ar := a.row(i)
	br := b.row(i)
	var sum float64
	for j := range ar {
		d := ar[j] - br[j]
		sum += d * d
	}
	partials.data[i] = sum
}
