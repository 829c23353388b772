package matgrid

import "fmt"

// Operations. Every method validates operand shapes before touching
// device memory, copies operands in, dispatches one kernel over its
// index domain, and copies the result out. Input buffers are released as
// soon as the kernel has last read them, before the result is copied
// back, to bound peak device memory. Failed calls release everything
// they allocated and leave the caller's matrices untouched.

// loadPair copies two host operands to the device, releasing the first
// buffer if the second allocation fails.
func (ctx *Context) loadPair(a, b *Matrix) (da, db *deviceBuffer, err error) {
	da, err = ctx.alloc(a)
	if err != nil {
		return nil, nil, err
	}
	db, err = ctx.alloc(b)
	if err != nil {
		ctx.free(da)
		return nil, nil, err
	}
	return da, db, nil
}

// Transpose returns mᵀ. It cannot fail on shape.
func (ctx *Context) Transpose(m *Matrix) (*Matrix, error) {
	in, err := ctx.alloc(m)
	if err != nil {
		return nil, err
	}
	out, err := ctx.allocEmpty(m.cols, m.rows)
	if err != nil {
		ctx.free(in)
		return nil, err
	}

	err = ctx.dispatch(m.rows, func(i int) {
		transposeRow(i, in, out)
	})
	ctx.free(in)
	if err != nil {
		ctx.free(out)
		return nil, err
	}

	r := out.copyOut()
	ctx.free(out)
	return r, nil
}

// mulShaped runs one of the multiplication-family kernels over the
// rows×cols output domain. The kernels differ only in their cell body:
// plain dot product, transposed-left dot product, or dot product fused
// with the activation.
func (ctx *Context) mulShaped(a, b *Matrix, rows, cols int,
	cell func(idx int, a, b, out *deviceBuffer)) (*Matrix, error) {

	da, db, err := ctx.loadPair(a, b)
	if err != nil {
		return nil, err
	}
	out, err := ctx.allocEmpty(rows, cols)
	if err != nil {
		ctx.free(da)
		ctx.free(db)
		return nil, err
	}

	err = ctx.dispatch(rows*cols, func(idx int) {
		cell(idx, da, db, out)
	})
	ctx.free(da)
	ctx.free(db)
	if err != nil {
		ctx.free(out)
		return nil, err
	}

	r := out.copyOut()
	ctx.free(out)
	return r, nil
}

// Multiply returns a·b. The inner dimensions must agree.
func (ctx *Context) Multiply(a, b *Matrix) (*Matrix, error) {
	if a.cols != b.rows {
		return nil, shapeError("Multiply",
			fmt.Sprintf("inner dimensions mismatch: %s * %s", a.shape(), b.shape()))
	}
	return ctx.mulShaped(a, b, a.rows, b.cols, multiplyCell)
}

// TransposeAndMultiply returns aᵀ·b without materializing the transpose;
// the kernel reads a with its indices swapped. Both operands must have
// the same row count.
func (ctx *Context) TransposeAndMultiply(a, b *Matrix) (*Matrix, error) {
	if a.rows != b.rows {
		return nil, shapeError("TransposeAndMultiply",
			fmt.Sprintf("row counts mismatch: %s vs %s", a.shape(), b.shape()))
	}
	return ctx.mulShaped(a, b, a.cols, b.cols, transposeMultiplyCell)
}

// MultiplyAndSigmoid returns sigmoid(a·b), computed in a single fused
// kernel pass so the raw product is never written to memory. Same
// precondition as Multiply.
func (ctx *Context) MultiplyAndSigmoid(a, b *Matrix) (*Matrix, error) {
	if a.cols != b.rows {
		return nil, shapeError("MultiplyAndSigmoid",
			fmt.Sprintf("inner dimensions mismatch: %s * %s", a.shape(), b.shape()))
	}
	return ctx.mulShaped(a, b, a.rows, b.cols, multiplySigmoidCell)
}

// MultiplyAndSigmoidOnDevice computes the same result as
// MultiplyAndSigmoid but holds every operand as a device buffer for the
// whole call, releasing all of them through deferred scoped acquisition
// on every exit path, including panics out of the kernel grid. The
// fused-path output is identical; the difference is purely the buffer
// lifecycle.
func (ctx *Context) MultiplyAndSigmoidOnDevice(a, b *Matrix) (*Matrix, error) {
	if a.cols != b.rows {
		return nil, shapeError("MultiplyAndSigmoidOnDevice",
			fmt.Sprintf("inner dimensions mismatch: %s * %s", a.shape(), b.shape()))
	}

	da, err := ctx.alloc(a)
	if err != nil {
		return nil, err
	}
	defer ctx.free(da)

	db, err := ctx.alloc(b)
	if err != nil {
		return nil, err
	}
	defer ctx.free(db)

	out, err := ctx.allocEmpty(a.rows, b.cols)
	if err != nil {
		return nil, err
	}
	defer ctx.free(out)

	err = ctx.dispatch(a.rows*b.cols, func(idx int) {
		multiplySigmoidCell(idx, da, db, out)
	})
	if err != nil {
		return nil, err
	}
	return out.copyOut(), nil
}

// Sigmoid returns the elementwise logistic function of m.
func (ctx *Context) Sigmoid(m *Matrix) (*Matrix, error) {
	in, err := ctx.alloc(m)
	if err != nil {
		return nil, err
	}
	out, err := ctx.allocEmpty(m.rows, m.cols)
	if err != nil {
		ctx.free(in)
		return nil, err
	}

	err = ctx.dispatch(m.rows, func(i int) {
		sigmoidRow(i, in, out)
	})
	ctx.free(in)
	if err != nil {
		ctx.free(out)
		return nil, err
	}

	r := out.copyOut()
	ctx.free(out)
	return r, nil
}

// SubtractHadamardSigmoidPrime overwrites a with (a-y) ⊙ σ'(z), the
// fused output-layer error step of backpropagation. All three operands
// must share one shape. a is written only after the kernel has
// succeeded; on any failure it is left untouched.
func (ctx *Context) SubtractHadamardSigmoidPrime(a, y, z *Matrix) error {
	const op = "SubtractHadamardSigmoidPrime"
	if !a.sameShape(y) || !a.sameShape(z) {
		return shapeError(op,
			fmt.Sprintf("operand shapes differ: a %s, y %s, z %s", a.shape(), y.shape(), z.shape()))
	}

	da, dy, err := ctx.loadPair(a, y)
	if err != nil {
		return err
	}
	dz, err := ctx.alloc(z)
	if err != nil {
		ctx.free(da)
		ctx.free(dy)
		return err
	}
	out, err := ctx.allocEmpty(a.rows, a.cols)
	if err != nil {
		ctx.free(da)
		ctx.free(dy)
		ctx.free(dz)
		return err
	}

	err = ctx.dispatch(a.rows, func(i int) {
		subtractHadamardSigmoidPrimeRow(i, da, dy, dz, out)
	})
	ctx.free(da)
	ctx.free(dy)
	ctx.free(dz)
	if err != nil {
		ctx.free(out)
		return err
	}

	out.copyInto(a)
	ctx.free(out)
	return nil
}

// SigmoidPrimeHadamard overwrites z with σ'(z) ⊙ delta, the fused
// hidden-layer error step. Both operands must share one shape; z is
// written only after the kernel has succeeded.
func (ctx *Context) SigmoidPrimeHadamard(z, delta *Matrix) error {
	const op = "SigmoidPrimeHadamard"
	if !z.sameShape(delta) {
		return shapeError(op,
			fmt.Sprintf("operand shapes differ: z %s, delta %s", z.shape(), delta.shape()))
	}

	dz, dd, err := ctx.loadPair(z, delta)
	if err != nil {
		return err
	}
	out, err := ctx.allocEmpty(z.rows, z.cols)
	if err != nil {
		ctx.free(dz)
		ctx.free(dd)
		return err
	}

	err = ctx.dispatch(z.rows, func(i int) {
		sigmoidPrimeHadamardRow(i, dz, dd, out)
	})
	ctx.free(dz)
	ctx.free(dd)
	if err != nil {
		ctx.free(out)
		return err
	}

	out.copyInto(z)
	ctx.free(out)
	return nil
}

// HalfSquaredDifference returns ½·Σ (a[i,j]-b[i,j])², the squared-error
// cost between a network output and its target. Per-row partial sums are
// produced by a row-indexed kernel and collapsed with a tree reduction.
func (ctx *Context) HalfSquaredDifference(a, b *Matrix) (float64, error) {
	if !a.sameShape(b) {
		return 0, shapeError("HalfSquaredDifference",
			fmt.Sprintf("operand shapes differ: %s vs %s", a.shape(), b.shape()))
	}

	da, db, err := ctx.loadPair(a, b)
	if err != nil {
		return 0, err
	}
	partials, err := ctx.allocEmpty(a.rows, 1)
	if err != nil {
		ctx.free(da)
		ctx.free(db)
		return 0, err
	}

	err = ctx.dispatch(a.rows, func(i int) {
		squaredDiffRow(i, da, db, partials)
	})
	ctx.free(da)
	ctx.free(db)
	if err != nil {
		ctx.free(partials)
		return 0, err
	}

	sum, err := ctx.reduceSum(partials)
	ctx.free(partials)
	if err != nil {
		return 0, err
	}
	return sum / 2, nil
}
