package chart

import "github.com/prometheus/client_golang/prometheus"

var updatesMetrics = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "signalscope_chart_updates_total",
		Help: "number of data updates applied to the chart",
	})

var staleResponsesMetrics = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "signalscope_chart_stale_responses_total",
		Help: "number of fetched frames discarded because their anchor changed",
	})

var seriesErrorsMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "signalscope_chart_series_errors_total",
		Help: "number of series that failed to update",
	}, []string{"series"})

var renderedSeriesMetrics = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "signalscope_chart_rendered_series",
		Help: "number of indicator series currently rendered",
	})

func init() {
	prometheus.MustRegister(
		updatesMetrics,
		staleResponsesMetrics,
		seriesErrorsMetrics,
		renderedSeriesMetrics,
	)
}
