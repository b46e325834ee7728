// Package metricsvc records domain metrics with prometheus.
package metricsvc

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thinkmate/thinkmate/core"
)

type PrometheusMetrics struct {
	registry            *prometheus.Registry
	interestsCreated    *prometheus.CounterVec
	visualizations      *prometheus.CounterVec
	visualizationGroups *prometheus.HistogramVec
	feedbackRequests    *prometheus.CounterVec
	httpRequestsTotal   *prometheus.CounterVec
}

var _ core.MetricsRecorder = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics registers its collectors on a private registry, so several instances can coexist in tests.
func NewPrometheusMetrics(appName string) *PrometheusMetrics {
	labels := prometheus.Labels{"app": appName}
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		interestsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "interests_created_total",
			Help:        "Total interests stored, by normalized field.",
			ConstLabels: labels,
		}, []string{"field"}),
		visualizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "visualizations_computed_total",
			Help:        "Total aggregations and layouts computed, by kind.",
			ConstLabels: labels,
		}, []string{"kind"}),
		visualizationGroups: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "visualization_groups",
			Help:        "Number of groups per computed visualization.",
			Buckets:     []float64{0, 1, 2, 5, 10, 20, 50, 100},
			ConstLabels: labels,
		}, []string{"kind"}),
		feedbackRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "feedback_requests_total",
			Help:        "Total survey feedback requests, by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total count of HTTP requests processed by route and status.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.interestsCreated,
		m.visualizations,
		m.visualizationGroups,
		m.feedbackRequests,
		m.httpRequestsTotal,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *PrometheusMetrics) InterestCreated(field string) {
	m.interestsCreated.WithLabelValues(field).Inc()
}

func (m *PrometheusMetrics) VisualizationComputed(kind string, groups int) {
	m.visualizations.WithLabelValues(kind).Inc()
	m.visualizationGroups.WithLabelValues(kind).Observe(float64(groups))
}

func (m *PrometheusMetrics) FeedbackRequested(outcome string) {
	m.feedbackRequests.WithLabelValues(outcome).Inc()
}

// RequestServed counts a handled HTTP request. route is the registered path, not the raw URL.
func (m *PrometheusMetrics) RequestServed(method, route string, status int) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the prometheus text format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
