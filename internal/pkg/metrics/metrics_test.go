package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"storefront/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewServerMetrics(reg)

	m.OrdersCreated.WithLabelValues("apparel").Inc()
	m.OrdersCreated.WithLabelValues("apparel").Inc()
	m.Requests.WithLabelValues("/api/orders", "POST", "201").Inc()

	assert.InDelta(t, 2, testutil.ToFloat64(m.OrdersCreated.WithLabelValues("apparel")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Requests.WithLabelValues("/api/orders", "POST", "201")), 0)

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "storefront_orders_created_total")
}

func TestServerMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewServerMetrics(reg)

	assert.Panics(t, func() { metrics.NewServerMetrics(reg) })
}
