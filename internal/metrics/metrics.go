package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"MarketCross/internal/model"
)

// Metrics holds the Prometheus collectors fed by completed analysis runs.
type Metrics struct {
	AnalysesTotal   *prometheus.CounterVec   // labels: provider, outcome
	AnalysisDur     *prometheus.HistogramVec // labels: provider
	CrossoversTotal prometheus.Counter
	WindowPoints    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketcross_analyses_total",
			Help: "Analysis runs by provider and outcome (ok or error kind)",
		}, []string{"provider", "outcome"}),
		AnalysisDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketcross_analysis_duration_seconds",
			Help:    "Wall time of an analysis run including the provider fetch",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"provider"}),
		CrossoversTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketcross_crossover_events_total",
			Help: "Crossover events reported inside returned windows",
		}),
		WindowPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "marketcross_series_points",
			Help: "Number of points in the most recent returned window",
		}),
	}
	reg.MustRegister(m.AnalysesTotal, m.AnalysisDur, m.CrossoversTotal, m.WindowPoints)
	return m
}

// Observe records one run. It has the collector.RunHook signature.
func (m *Metrics) Observe(rec model.RunRecord) {
	outcome := "ok"
	if !rec.Succeeded() {
		outcome = string(rec.Kind)
	}
	// requests rejected by validation may carry arbitrary provider names
	provider := rec.Provider
	if provider == "" || rec.Kind == model.KindValidation {
		provider = "none"
	}
	m.AnalysesTotal.WithLabelValues(provider, outcome).Inc()
	m.AnalysisDur.WithLabelValues(provider).Observe(rec.Duration.Seconds())
	if rec.Succeeded() {
		m.CrossoversTotal.Add(float64(rec.Events))
		m.WindowPoints.Set(float64(rec.Points))
	}
}
