package html2pdf

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one conversion can run.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent browser processes to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ConverterPool caps the number of conversions, and therefore browser
// processes, running at once. Callers beyond the cap wait for a slot or
// for their context to end.
type ConverterPool struct {
	conv     PDFConverter
	sem      *semaphore.Weighted
	size     int
	inFlight atomic.Int64
}

// NewConverterPool wraps conv with a cap of n concurrent conversions.
func NewConverterPool(conv PDFConverter, n int) *ConverterPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &ConverterPool{
		conv: conv,
		sem:  semaphore.NewWeighted(int64(n)),
		size: n,
	}
}

// Convert waits for a slot, then delegates to the wrapped converter.
// Returns an error matching ErrPoolWait if ctx ends while waiting.
func (p *ConverterPool) Convert(ctx context.Context, req ConversionRequest) (*RenderedDocument, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPoolWait, err)
	}
	defer p.sem.Release(1)

	p.inFlight.Add(1)
	defer p.inFlight.Add(-1)

	return p.conv.Convert(ctx, req)
}

// TryAcquireSlot reports whether a slot is free right now, without
// holding it. Used by readiness probes.
func (p *ConverterPool) TryAcquireSlot() bool {
	if !p.sem.TryAcquire(1) {
		return false
	}
	p.sem.Release(1)
	return true
}

// InFlight returns the number of conversions currently running.
func (p *ConverterPool) InFlight() int {
	return int(p.inFlight.Load())
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
