package signalhandler

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SetupHandler runs cleanup and exits on SIGINT or SIGTERM. Readers hold
// cgo-allocated state and cache connections, so they must be closed before
// the process goes away. The returned stop function unregisters the handler
// and runs cleanup at most once.
func SetupHandler(cleanup func()) (stop func()) {
	// Create a channel to receive OS signals
	sigChan := make(chan os.Signal, 1)
	done := make(chan struct{})

	// Register for specific signals
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var once sync.Once
	run := func() {
		once.Do(func() {
			if cleanup != nil {
				cleanup()
			}
		})
	}

	// Handle signals in a separate goroutine
	go func() {
		select {
		case sig := <-sigChan:
			run()
			if sig == syscall.SIGINT {
				os.Exit(130)
			}
			os.Exit(143)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
		run()
	}
}
