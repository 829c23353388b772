package matgrid

import (
	"errors"
	"testing"
)

func TestPoolAllocFree(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	m := NewMatrix(4, 5)
	for i := range m.data {
		m.data[i] = float64(i)
	}

	b, err := ctx.alloc(m)
	if err != nil {
		t.Fatalf("alloc failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 5; j++ {
			if b.at(i, j) != m.At(i, j) {
				t.Errorf("copy-in mismatch at (%d,%d)", i, j)
			}
		}
	}

	inUse, _ := ctx.MemStats()
	if inUse != 4*5*8 {
		t.Errorf("expected %d bytes in use, got %d", 4*5*8, inUse)
	}
	if err := ctx.free(b); err != nil {
		t.Fatalf("free failed: %v", err)
	}
	inUse, _ = ctx.MemStats()
	if inUse != 0 {
		t.Errorf("expected 0 bytes in use after free, got %d", inUse)
	}
}

func TestPoolDoubleFree(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	b, err := ctx.allocEmpty(2, 2)
	if err != nil {
		t.Fatalf("allocEmpty failed: %v", err)
	}
	if err := ctx.free(b); err != nil {
		t.Fatalf("first free failed: %v", err)
	}
	if err := ctx.free(b); !errors.Is(err, ErrDoubleFree) {
		t.Errorf("expected ErrDoubleFree, got %v", err)
	}
	if err := ctx.free(nil); !errors.Is(err, ErrUnknownBuffer) {
		t.Errorf("expected ErrUnknownBuffer for nil, got %v", err)
	}
}

func TestPoolReusesSlabs(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	b1, _ := ctx.allocEmpty(8, 8)
	slab := &b1.slab[0]
	if err := ctx.free(b1); err != nil {
		t.Fatal(err)
	}

	// A same-or-smaller request must come from the free list.
	b2, _ := ctx.allocEmpty(4, 4)
	if &b2.slab[0] != slab {
		t.Error("expected slab reuse from free list")
	}
	if len(b2.data) != 16 {
		t.Errorf("expected view of 16 elements, got %d", len(b2.data))
	}
	if err := ctx.free(b2); err != nil {
		t.Fatal(err)
	}
}

func TestPoolPeakTracking(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	b1, _ := ctx.allocEmpty(10, 10)
	b2, _ := ctx.allocEmpty(10, 10)
	_, peak := ctx.MemStats()
	if peak < 2*10*10*8 {
		t.Errorf("peak %d does not cover both live buffers", peak)
	}
	ctx.free(b1)
	ctx.free(b2)

	inUse, peakAfter := ctx.MemStats()
	if inUse != 0 {
		t.Errorf("expected 0 in use, got %d", inUse)
	}
	if peakAfter != peak {
		t.Errorf("peak moved on free: %d -> %d", peak, peakAfter)
	}
}

func TestCloseReportsLeak(t *testing.T) {
	ctx := NewContext()
	b, err := ctx.allocEmpty(3, 3)
	if err != nil {
		t.Fatal(err)
	}

	if err := ctx.Close(); !IsMemoryError(err) {
		t.Errorf("expected memory error for leaked buffer, got %v", err)
	}
	// Release still works so the leak can be cleaned up.
	if err := ctx.free(b); err != nil {
		t.Fatal(err)
	}
}

func TestCopyOutAndCopyInto(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	src := NewMatrix(3, 2)
	for i := range src.data {
		src.data[i] = float64(i) * 1.5
	}
	b, err := ctx.alloc(src)
	if err != nil {
		t.Fatal(err)
	}

	out := b.copyOut()
	for i := range src.data {
		if out.data[i] != src.data[i] {
			t.Fatalf("copyOut mismatch at %d", i)
		}
	}

	dst := NewMatrix(3, 2)
	b.copyInto(dst)
	for i := range src.data {
		if dst.data[i] != src.data[i] {
			t.Fatalf("copyInto mismatch at %d", i)
		}
	}
	ctx.free(b)
}
