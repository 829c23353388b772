// Package matgrid provides device-parallel dense-matrix kernels for
// feed-forward neural network training: matrix multiplication (plain,
// transposed-left, and fused with the logistic activation), elementwise
// sigmoid transforms, the fused Hadamard-product kernels used in
// backpropagation, transpose, and a squared-error cost reduction.
//
// Every operation follows one execution discipline: host matrices are
// copied into device buffers, a kernel is dispatched in parallel over a
// row- or cell-indexed domain, the result is copied back to the host,
// and all device buffers are released before the call returns. The
// compute device is the CPU, simulated through a worker grid, so the
// library runs deterministically anywhere while keeping the explicit
// host/device memory lifecycle of an accelerator port.
//
// Example usage:
//
//	ctx := matgrid.NewContext()
//	defer ctx.Close()
//
//	a, _ := matgrid.MatrixFromRows([][]float64{{1, 2}, {3, 4}})
//	b, _ := matgrid.MatrixFromRows([][]float64{{5, 6}, {7, 8}})
//
//	r, err := ctx.Multiply(a, b)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(r.At(0, 0)) // 19
package matgrid
