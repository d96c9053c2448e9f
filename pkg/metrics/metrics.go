// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pension_verification"

// Metrics groups every collector the service records.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestDuration *prometheus.HistogramVec
	DecisionsTotal      *prometheus.CounterVec
	CalculationsTotal   *prometheus.CounterVec
	RemindersTotal      *prometheus.CounterVec
	DocumentsUploaded   prometheus.Counter
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		DecisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Verification decisions recorded, by kind and resulting status",
		}, []string{"kind", "status"}),
		CalculationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "benefit_calculations_total",
			Help:      "Benefit calculations, by scheme type",
		}, []string{"scheme"}),
		RemindersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reverification_reminders_total",
			Help:      "Re-verification reminder emails, by outcome",
		}, []string{"outcome"}),
		DocumentsUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_uploaded_total",
			Help:      "Identity documents uploaded",
		}),
	}

	m.registry.MustRegister(
		m.HTTPRequestDuration,
		m.DecisionsTotal,
		m.CalculationsTotal,
		m.RemindersTotal,
		m.DocumentsUploaded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// RecordDecision counts a verification decision of kind (pensioner or review).
func (m *Metrics) RecordDecision(kind, status string) {
	m.DecisionsTotal.WithLabelValues(kind, status).Inc()
}

// RecordCalculation counts a benefit calculation. Scheme labels are limited to
// total, partial and other.
func (m *Metrics) RecordCalculation(scheme string) {
	label := "other"
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "total":
		label = "total"
	case "partial":
		label = "partial"
	}
	m.CalculationsTotal.WithLabelValues(label).Inc()
}

// RecordReminder counts a reminder email by outcome (sent or failed).
func (m *Metrics) RecordReminder(outcome string) {
	m.RemindersTotal.WithLabelValues(outcome).Inc()
}
