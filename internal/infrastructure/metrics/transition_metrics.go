// Package metrics expone contadores Prometheus del motor de transiciones.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/precast-api/internal/application/tracking"
)

var _ tracking.TransitionObserver = (*TransitionMetrics)(nil)

// TransitionMetrics implementa tracking.TransitionObserver.
type TransitionMetrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewTransitionMetrics registra los colectores en reg (nil = registro global).
func NewTransitionMetrics(reg prometheus.Registerer) *TransitionMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &TransitionMetrics{
		total: f.NewCounterVec(prometheus.CounterOpts{
			Name: "precast_transition_requests_total",
			Help: "Solicitudes de transición por estado origen, destino y resultado",
		}, []string{"from", "to", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "precast_transition_duration_seconds",
			Help:    "Duración de la transacción de transición en segundos",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms a ~4s
		}, []string{"outcome"}),
	}
}

// ObserveTransition cuenta la solicitud y registra su latencia.
func (m *TransitionMetrics) ObserveTransition(from, to, outcome string, elapsed time.Duration) {
	m.total.WithLabelValues(from, to, outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
