package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.DecisionsTotal.WithLabelValues("pensioner", "VERIFIED").Inc()
	m.DecisionsTotal.WithLabelValues("pensioner", "VERIFIED").Inc()
	m.CalculationsTotal.WithLabelValues("total").Inc()
	m.ObserveRequest(http.MethodGet, "/health", http.StatusOK, 12*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DecisionsTotal.WithLabelValues("pensioner", "VERIFIED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("total")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.DocumentsUploaded.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pension_verification_documents_uploaded_total 1")
}

func TestMetrics_RecordCalculationBoundsLabels(t *testing.T) {
	m := New()

	m.RecordCalculation("TOTAL")
	m.RecordCalculation(" partial ")
	m.RecordCalculation("hybrid")
	m.RecordCalculation("")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("total")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("partial")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("other")))
}
