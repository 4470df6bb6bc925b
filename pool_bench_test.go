//go:build bench

package html2pdf

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"testing"
)

// instantConverter returns immediately so benchmarks measure pool overhead.
type instantConverter struct{}

func (instantConverter) Convert(context.Context, ConversionRequest) (*RenderedDocument, error) {
	return &RenderedDocument{}, nil
}

// BenchmarkResolvePoolSize benchmarks pool size calculation.
func BenchmarkResolvePoolSize(b *testing.B) {
	for _, w := range []int{0, 1, 2, 4, 8} {
		b.Run(workerName(w), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = ResolvePoolSize(w)
			}
		})
	}
}

func workerName(w int) string {
	if w == 0 {
		return "auto"
	}
	return fmt.Sprintf("%d", w)
}

// BenchmarkConverterPoolConvert benchmarks one uncontended slot cycle.
func BenchmarkConverterPoolConvert(b *testing.B) {
	ctx := context.Background()
	req := ConversionRequest{HTML: "<p>x</p>"}

	for _, size := range []int{1, 4, 8} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			pool := NewConverterPool(instantConverter{}, size)
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := pool.Convert(ctx, req); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkConverterPoolContention benchmarks the pool with more goroutines
// than slots.
func BenchmarkConverterPoolContention(b *testing.B) {
	const poolSize = 4
	ctx := context.Background()
	req := ConversionRequest{HTML: "<p>x</p>"}

	for _, g := range []int{4, 8, 16, 32} {
		b.Run(fmt.Sprintf("goroutines_%d", g), func(b *testing.B) {
			pool := NewConverterPool(instantConverter{}, poolSize)
			opsPerGoroutine := max(b.N/g, 1)

			b.ReportAllocs()
			b.ResetTimer()

			var wg sync.WaitGroup
			for i := 0; i < g; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < opsPerGoroutine; j++ {
						_, _ = pool.Convert(ctx, req)
						runtime.Gosched()
					}
				}()
			}
			wg.Wait()
		})
	}
}

// BenchmarkConverterPoolParallel benchmarks parallel pool access.
func BenchmarkConverterPoolParallel(b *testing.B) {
	pool := NewConverterPool(instantConverter{}, runtime.GOMAXPROCS(0))
	ctx := context.Background()
	req := ConversionRequest{HTML: "<p>x</p>"}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = pool.Convert(ctx, req)
		}
	})
}
