package matgrid

import "sync"

// deviceBuffer is an opaque region of device memory holding a row-major
// matrix or a vector. A buffer is owned exclusively by the operation that
// allocated it and must be released exactly once, on every exit path,
// before the operation returns.
//
// Cells are addressed through the at/set/row accessors, which describe
// the row-major stride once instead of spreading linear offset
// arithmetic through every kernel body.
type deviceBuffer struct {
	rows, cols int
	data       []float64 // len rows*cols, view into slab
	slab       []float64 // full-capacity pooled allocation
	live       bool      // guarded by the pool mutex
}

// at returns the element at row i, column j.
func (b *deviceBuffer) at(i, j int) float64 {
	return b.data[i*b.cols+j]
}

// set stores v at row i, column j.
func (b *deviceBuffer) set(i, j int, v float64) {
	b.data[i*b.cols+j] = v
}

// row returns the device slice for row i.
func (b *deviceBuffer) row(i int) []float64 {
	return b.data[i*b.cols : (i+1)*b.cols]
}

// copyOut copies the buffer back into a fresh host matrix.
func (b *deviceBuffer) copyOut() *Matrix {
	m := NewMatrix(b.rows, b.cols)
	copy(m.data, b.data)
	return m
}

// copyInto copies the buffer into an existing host matrix of the same
// shape. Shape agreement is the caller's invariant; every operation
// validates it before allocating.
func (b *deviceBuffer) copyInto(m *Matrix) {
	copy(m.data, b.data)
}

// bufferPool manages device memory with free-list reuse. Released slabs
// are retained and handed out again to reduce allocation churn; the pool
// tracks live and peak usage so callers can verify the
// release-on-every-path discipline.
type bufferPool struct {
	mu       sync.Mutex
	freeList [][]float64
	inUse    int64 // bytes held by live buffers
	peak     int64
}

func newBufferPool() *bufferPool {
	return &bufferPool{}
}

// get hands out a buffer with space for rows*cols elements. The contents
// are unspecified: kernels write every cell of their output domain, so
// reused slabs are never zeroed.
func (p *bufferPool) get(rows, cols int) (*deviceBuffer, error) {
	n := rows * cols

	p.mu.Lock()
	defer p.mu.Unlock()

	var slab []float64
	for i, s := range p.freeList {
		if cap(s) >= n {
			p.freeList = append(p.freeList[:i], p.freeList[i+1:]...)
			slab = s[:cap(s)]
			break
		}
	}
	if slab == nil {
		slab = make([]float64, n)
	}

	p.inUse += int64(cap(slab)) * 8
	if p.inUse > p.peak {
		p.peak = p.inUse
	}

	return &deviceBuffer{
		rows: rows,
		cols: cols,
		data: slab[:n],
		slab: slab,
		live: true,
	}, nil
}

// put returns a buffer to the pool. Releasing a buffer twice, or one the
// pool never handed out, is reported rather than corrupting the free
// list.
func (p *bufferPool) put(b *deviceBuffer) error {
	if b == nil || b.slab == nil {
		return ErrUnknownBuffer
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !b.live {
		return ErrDoubleFree
	}
	b.live = false
	p.freeList = append(p.freeList, b.slab)
	p.inUse -= int64(cap(b.slab)) * 8

	return nil
}

func (p *bufferPool) stats() (inUse, peak int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse, p.peak
}

// alloc copies a host matrix into a fresh device buffer.
func (ctx *Context) alloc(m *Matrix) (*deviceBuffer, error) {
	b, err := ctx.pool.get(m.rows, m.cols)
	if err != nil {
		return nil, err
	}
	copy(b.data, m.data)
	return b, nil
}

// allocEmpty reserves device space for a rows×cols result without a host
// copy.
func (ctx *Context) allocEmpty(rows, cols int) (*deviceBuffer, error) {
	return ctx.pool.get(rows, cols)
}

// free releases a device buffer back to the pool.
func (ctx *Context) free(b *deviceBuffer) error {
	return ctx.pool.put(b)
}
