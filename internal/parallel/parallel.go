// Package parallel splits index ranges into per-worker chunks.
package parallel

import "runtime"

// Config controls how work is divided.
type Config struct {
	NumWorkers   int // Number of worker goroutines to use.
	MinChunkSize int // Minimum items per worker.
}

// DefaultConfig returns one worker per CPU and no chunk minimum.
func DefaultConfig() Config {
	return Config{
		NumWorkers:   runtime.NumCPU(),
		MinChunkSize: 1,
	}
}

// Range is the half-open index interval [Start, End).
type Range struct {
	Start, End int
}

// Len returns the number of indices in r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Chunks splits [0, n) into at most cfg.NumWorkers contiguous ranges of
// near-equal size, none smaller than cfg.MinChunkSize except the last.
// Non-positive settings count as 1.
func Chunks(n int, cfg Config) []Range {
	if n <= 0 {
		return nil
	}
	workers := max(cfg.NumWorkers, 1)
	chunkSize := max((n+workers-1)/workers, cfg.MinChunkSize, 1)

	ranges := make([]Range, 0, (n+chunkSize-1)/chunkSize)
	for start := 0; start < n; start += chunkSize {
		ranges = append(ranges, Range{Start: start, End: min(start+chunkSize, n)})
	}
	return ranges
}
