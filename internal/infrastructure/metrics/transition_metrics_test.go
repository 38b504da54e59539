package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/precast-api/internal/infrastructure/metrics"
)

func TestTransitionMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewTransitionMetrics(reg)

	m.ObserveTransition("planning", "manufactured", "ok", 3*time.Millisecond)
	m.ObserveTransition("planning", "manufactured", "ok", 5*time.Millisecond)
	m.ObserveTransition("planning", "transported", "illegal_transition", time.Millisecond)

	n, err := testutil.GatherAndCount(reg, "precast_transition_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = testutil.GatherAndCount(reg, "precast_transition_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestTransitionMetrics_RegistroDuplicado(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewTransitionMetrics(reg)
	assert.Panics(t, func() { metrics.NewTransitionMetrics(reg) })
}
