//go:build !tinygo

package sonar

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/merliot/ranger"
)

type metrics struct {
	registry   *prometheus.Registry
	samples    *prometheus.CounterVec
	actuations prometheus.Counter
	reports    *prometheus.CounterVec
	distance   *prometheus.GaugeVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ranger_samples_total",
			Help: "Raw samples taken, by result.",
		}, []string{"result"}),
		actuations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranger_actuations_total",
			Help: "Blink sequences triggered by the threshold.",
		}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ranger_reports_total",
			Help: "Smoothed distance reports, by result.",
		}, []string{"result"}),
		distance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ranger_distance_cm",
			Help: "Last distance in centimeters.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(m.samples, m.actuations, m.reports, m.distance)
	return m
}

func (m *metrics) sampled(result string) {
	m.samples.WithLabelValues(result).Inc()
}

func (m *metrics) actuated() {
	m.actuations.Inc()
}

func (m *metrics) reported(err error) {
	if err != nil {
		m.reports.WithLabelValues("error").Inc()
		return
	}
	m.reports.WithLabelValues("ok").Inc()
}

func (m *metrics) distances(raw, avg ranger.Distance, rawValid bool) {
	if rawValid {
		m.distance.WithLabelValues("raw").Set(float64(raw))
	}
	m.distance.WithLabelValues("average").Set(float64(avg))
}

// MetricsHandler serves the device's Prometheus metrics
func (s *Sonar) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})
}
