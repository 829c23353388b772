package matgrid

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Device describes the compute device backing a Context. The simulated
// device is the host CPU: its cores form the parallel execution grid.
type Device struct {
	Name     string   // human-readable device name
	Cores    int      // number of parallel execution units
	Features []string // detected instruction-set extensions
}

// Context is an explicit execution context for kernel operations. It owns
// a device-memory pool and a worker grid; every operation in this package
// is a method on a Context. Contexts are independent: concurrent
// operations on separate contexts, or on one context with disjoint
// matrices, are safe.
//
// A Context must be released with Close when no longer needed.
type Context struct {
	device  Device
	workers int
	pool    *bufferPool
	closed  atomic.Bool
}

// Option configures a Context.
type Option func(*Context)

// WithWorkers sets the number of parallel workers a dispatch fans out to.
// One worker gives a deterministic sequential schedule, which is useful
// for reproducing test failures. Values below one fall back to the
// default of runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(ctx *Context) {
		if n > 0 {
			ctx.workers = n
		}
	}
}

// NewContext creates an execution context over the host CPU device.
func NewContext(opts ...Option) *Context {
	ctx := &Context{
		device: Device{
			Name:     "CPU",
			Cores:    runtime.NumCPU(),
			Features: detectFeatures(),
		},
		workers: runtime.NumCPU(),
		pool:    newBufferPool(),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// Device returns the device this context executes on.
func (ctx *Context) Device() Device { return ctx.device }

// MemStats returns the device memory currently held by live buffers and
// the peak held at any point in the context's lifetime, both in bytes.
// In-use memory is zero between operations; a non-zero value means a
// buffer leaked.
func (ctx *Context) MemStats() (inUse, peak int64) {
	return ctx.pool.stats()
}

// Close releases the context. Subsequent operations fail with
// ErrContextClosed. Close reports an error if device buffers are still
// live, which indicates a release-path bug.
func (ctx *Context) Close() error {
	ctx.closed.Store(true)
	if inUse, _ := ctx.pool.stats(); inUse != 0 {
		return memoryError("Close", "device buffers still allocated", nil)
	}
	return nil
}

// detectFeatures reports the instruction-set extensions of the host CPU.
func detectFeatures() []string {
	var f []string
	if cpu.X86.HasSSE42 {
		f = append(f, "sse4.2")
	}
	if cpu.X86.HasAVX {
		f = append(f, "avx")
	}
	if cpu.X86.HasAVX2 {
		f = append(f, "avx2")
	}
	if cpu.X86.HasFMA {
		f = append(f, "fma")
	}
	if cpu.X86.HasAVX512F {
		f = append(f, "avx512f")
	}
	if cpu.ARM64.HasASIMD {
		f = append(f, "asimd")
	}
	return f
}
