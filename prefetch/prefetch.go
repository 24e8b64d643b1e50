// Package prefetch populates a reader's cache ahead of time by reading a
// caller-supplied list of image names concurrently.
package prefetch

import (
	"runtime"
	"sync"
	"time"

	"imagereader/imagereader"
	"imagereader/logging"
	"imagereader/registry"
)

// Run reads every name through r, resolved against the directory selected
// by options.DirIndex, so later reads of the same names are served from the
// cache. Per-name failures are counted in the returned stats, not returned.
// Duplicate names are read once.
func Run(r imagereader.Reader, names []string, options Options) *Stats {
	names = dedupe(names)

	workers := options.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Initialize components for parallel processing
	var wg sync.WaitGroup
	resultsChan := make(chan ReadResult, 100)
	semaphore := make(chan struct{}, workers)

	tracker := NewProgressTracker(len(names), options, resultsChan)

	startTime := time.Now()
	for _, name := range names {
		wg.Add(1)
		// Acquire semaphore
		semaphore <- struct{}{}

		go func(n string) {
			defer wg.Done()
			defer func() { <-semaphore }() // Release semaphore when done

			resultsChan <- readImage(r, n, options.DirIndex)
		}(name)
	}

	// Wait for all processing to complete
	wg.Wait()
	close(resultsChan)

	stats := tracker.Stop()
	stats.Elapsed = time.Since(startTime)

	logging.DebugLog("Prefetch completed in %v. Processed: %d, Errors: %d",
		stats.Elapsed, stats.Processed, stats.Errors)
	return stats
}

// readImage reads a single image and releases it
func readImage(r imagereader.Reader, name string, idx int) ReadResult {
	path, err := r.ResolvePath(name, idx)
	if err != nil {
		return ReadResult{Name: name, Error: err}
	}
	if _, err := registry.ReadInfo(r, path); err != nil {
		return ReadResult{Name: name, Error: err}
	}
	return ReadResult{Name: name, Success: true}
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
