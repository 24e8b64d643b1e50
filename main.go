// Imagereader reads images from configured directories through a
// key-value cache.
//
// Usage:
//
//	imagereader read --config reader.yaml a.jpg b.jpg   # read and print shapes
//	imagereader read --config reader.yaml --json a.jpg  # one JSON object per image
//	imagereader hash /data/a.jpg                        # print the cache key
//	imagereader fake --color-mode GRAY --size 64x64     # placeholder shape
package main

import (
	"os"
	"runtime"

	"imagereader/cli"
)

func main() {
	// cgo decoders hold OS threads; leave headroom for them
	runtime.GOMAXPROCS(optimalProcs())

	os.Exit(cli.Run())
}

// optimalProcs returns the number of CPUs to use for cgo-heavy decoding
func optimalProcs() int {
	numCPU := runtime.NumCPU()

	// For image processing with CGo, using too many goroutines can cause issues
	maxProcs := (numCPU * 3) / 4
	if maxProcs < 1 {
		maxProcs = 1
	}
	return maxProcs
}
