package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.Intent("stripe", "created")
	m.Intent("stripe", "created")
	m.Callback("paymob", "applied")
	m.Transition("completed")
	m.CircuitOpened("paypal")
	m.ObserveGateway("stripe", "create_payment", time.Now().Add(-time.Second))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.IntentsTotal.WithLabelValues("stripe", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CallbacksTotal.WithLabelValues("paymob", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransitionsTotal.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CircuitOpenTotal.WithLabelValues("paypal")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.GatewayDuration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.Intent("stripe", "created")
	m.Callback("stripe", "ignored")
	m.Transition("failed")
	m.ReconcileApplied()
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.Transition("cancelled")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `payments_invoice_transitions_total{to="cancelled"} 1`))
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(false)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
