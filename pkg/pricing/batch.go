package pricing

import (
	"context"
	"sync"
	"time"
)

// BatchConfig bounds the worker pool used by ProductTable.
type BatchConfig struct {
	// MaxConcurrency is the maximum number of product rows fetched in
	// parallel.
	MaxConcurrency int

	// Timeout per row. Each row issues one feed request per attribute.
	Timeout time.Duration
}

// DefaultBatchConfig returns a pool sized for typical shortcode usage
// (a handful of products per table).
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		MaxConcurrency: 4,
		Timeout:        30 * time.Second,
	}
}

// ProductRow fetches several attributes of one product. The result is
// aligned with attributes; each cell independently degrades to the
// sentinel.
func (s *Service) ProductRow(ctx context.Context, productID int, cycle string, attributes []string) []string {
	row := make([]string, len(attributes))
	for i, attr := range attributes {
		row[i] = s.ProductAttribute(ctx, productID, cycle, attr)
	}
	return row
}

// ProductTable fetches the given attributes for many products through a
// bounded worker pool and returns one row per product, in input order.
// Individual failures surface as sentinel cells; the table shape is always
// len(productIDs) × len(attributes).
func (s *Service) ProductTable(ctx context.Context, productIDs []int, cycle string, attributes []string, cfg BatchConfig) [][]string {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	rows := make([][]string, len(productIDs))

	jobs := make(chan int, len(productIDs))
	for i := range productIDs {
		jobs <- i
	}
	close(jobs)

	workers := cfg.MaxConcurrency
	if workers > len(productIDs) {
		workers = len(productIDs)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					// Remaining rows degrade to sentinel cells.
					rows[i] = sentinelRow(len(attributes))
					continue
				default:
				}

				rowCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
				rows[i] = s.ProductRow(rowCtx, productIDs[i], cycle, attributes)
				cancel()
			}
		}()
	}
	wg.Wait()

	return rows
}

func sentinelRow(n int) []string {
	row := make([]string, n)
	for i := range row {
		row[i] = Sentinel
	}
	return row
}
