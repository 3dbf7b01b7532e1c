package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	namespace = "meetups"
	job       = "meetups"
)

// Metrics lives for a single run, so it gets its own registry instead of the default one.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestDuration prometheus.Histogram
	ErrCount        *prometheus.CounterVec
	EventsFetched   prometheus.Gauge
	EventsDisplayed prometheus.Gauge
	LastSuccess     prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		RequestDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
		}),
		ErrCount: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "err_count",
		}, []string{"stage"}),
		EventsFetched: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "events_fetched",
		}),
		EventsDisplayed: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "events_displayed",
		}),
		LastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
		}),
	}
}

// Push sends the run's metrics to a Pushgateway, grouped by search term.
func (m *Metrics) Push(gatewayURL, search string) error {
	if search == "" {
		search = "all"
	}
	err := push.New(gatewayURL, job).
		Gatherer(m.Registry).
		Grouping("search", search).
		Push()
	if err != nil {
		return fmt.Errorf("err pushing metrics: %w", err)
	}
	return nil
}
