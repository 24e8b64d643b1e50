package signalhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupHandler_StopRunsCleanupOnce(t *testing.T) {
	calls := 0
	stop := SetupHandler(func() { calls++ })

	stop()
	assert.Equal(t, 1, calls)
}

func TestSetupHandler_NilCleanup(t *testing.T) {
	stop := SetupHandler(nil)
	assert.NotPanics(t, stop)
}
