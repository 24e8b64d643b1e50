package prefetch

import (
	"io"
	"sync"
	"time"
)

// Options defines the options for a prefetch run
type Options struct {
	DirIndex   int       // which configured image directory names resolve against
	MaxWorkers int       // Optional worker limit
	Progress   io.Writer // Optional progress output
}

// ReadResult holds the result of reading one image
type ReadResult struct {
	Name    string
	Success bool
	Error   error
}

// Stats summarizes a completed prefetch run
type Stats struct {
	Total     int
	Processed int
	Errors    int
	Failed    []string
	Elapsed   time.Duration
}

// ProgressTracker tracks progress of the prefetch operation
type ProgressTracker struct {
	processed  int
	errors     int
	failed     []string
	totalFiles int
	out        io.Writer
	ticker     *time.Ticker
	done       chan struct{}
	finished   chan struct{}
	mu         sync.Mutex
}
