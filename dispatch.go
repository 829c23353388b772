package matgrid

import "golang.org/x/sync/errgroup"

// dispatch executes body(i) once for every index in [0, n), fanned out
// across the context's workers. Invocations run in parallel with no
// ordering guarantee; bodies must write only disjoint regions of their
// output buffer and share no other mutable state. dispatch blocks until
// the whole grid has completed, so an operation never returns before its
// kernel has finished.
//
// Two domain shapes are used by the kernel set: row-indexed, where
// n is the row count and each invocation iterates the columns of its
// row, and cell-indexed, where n is rows*cols and each invocation
// decodes its (row, col) pair. Row indexing suits kernels that reuse
// per-row intermediates; cell indexing suits fully independent per-cell
// results such as matrix multiplication.
func (ctx *Context) dispatch(n int, body func(i int)) error {
	if ctx.closed.Load() {
		return ErrContextClosed
	}
	if n <= 0 {
		return nil
	}

	workers := ctx.workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				body(i)
			}
			return nil
		})
	}
	return g.Wait()
}
