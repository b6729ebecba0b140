package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	assert.NotPanics(t, func() {
		IncHTTP("/api/rooms", "2xx")
		Overdue()
		Notification("sent")
	})
}

func TestCleaningCounters(t *testing.T) {
	before := testutil.ToFloat64(cleaningStarted)
	CleaningStarted()
	assert.Equal(t, before+1, testutil.ToFloat64(cleaningStarted))

	onTime := testutil.ToFloat64(cleaningClosed.WithLabelValues("completed", "true"))
	CleaningClosed("completed", 75, true)
	assert.Equal(t, onTime+1, testutil.ToFloat64(cleaningClosed.WithLabelValues("completed", "true")))

	moved := testutil.ToFloat64(transitions.WithLabelValues("request", "completed"))
	Transition("request", "completed")
	assert.Equal(t, moved+1, testutil.ToFloat64(transitions.WithLabelValues("request", "completed")))
}
