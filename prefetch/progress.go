package prefetch

import (
	"fmt"
	"sort"
	"time"

	"imagereader/logging"
)

// NewProgressTracker starts consuming results. Progress lines are written
// to the configured writer every 500ms when one is set.
func NewProgressTracker(totalFiles int, options Options, resultsChan <-chan ReadResult) *ProgressTracker {
	tracker := &ProgressTracker{
		totalFiles: totalFiles,
		out:        options.Progress,
		ticker:     time.NewTicker(500 * time.Millisecond),
		done:       make(chan struct{}),
		finished:   make(chan struct{}),
	}

	// Start progress display goroutine
	go tracker.displayProgress()

	// Start result processor goroutine
	go tracker.processResults(resultsChan)

	return tracker
}

// displayProgress shows the progress periodically
func (p *ProgressTracker) displayProgress() {
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			if p.out == nil {
				continue
			}
			p.mu.Lock()
			if p.errors > 0 {
				fmt.Fprintf(p.out, "\rProgress: %d/%d (Errors: %d)", p.processed, p.totalFiles, p.errors)
			} else {
				fmt.Fprintf(p.out, "\rProgress: %d/%d", p.processed, p.totalFiles)
			}
			p.mu.Unlock()
		}
	}
}

// processResults updates the tracker state until resultsChan is closed
func (p *ProgressTracker) processResults(resultsChan <-chan ReadResult) {
	defer close(p.finished)

	for result := range resultsChan {
		p.mu.Lock()
		p.processed++
		if !result.Success {
			p.errors++
			p.failed = append(p.failed, result.Name)
			if result.Error != nil {
				logging.LogError("Failed to prefetch %s: %v", result.Name, result.Error)
			}
		} else {
			logging.DebugLog("Prefetched %s", result.Name)
		}
		p.mu.Unlock()
	}
}

// Stop waits for outstanding results and ends the progress display
func (p *ProgressTracker) Stop() *Stats {
	<-p.finished
	p.ticker.Stop()
	close(p.done)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out != nil && p.totalFiles > 0 {
		fmt.Fprintf(p.out, "\rProgress: %d/%d\n", p.processed, p.totalFiles)
	}

	failed := append([]string(nil), p.failed...)
	sort.Strings(failed)
	return &Stats{
		Total:     p.totalFiles,
		Processed: p.processed,
		Errors:    p.errors,
		Failed:    failed,
	}
}
