package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMetricFamily(families []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func counterValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := m.Gather()
	require.NoError(t, err)

	family := findMetricFamily(families, name)
	require.NotNil(t, family, "지표가 없습니다: %s", name)

next:
	for _, metric := range family.GetMetric() {
		for _, lp := range metric.GetLabel() {
			if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
				continue next
			}
		}
		return metric.GetCounter().GetValue()
	}

	t.Fatalf("라벨이 일치하는 지표가 없습니다: %s %v", name, labels)
	return 0
}

func TestMetrics_Observe(t *testing.T) {
	t.Parallel()

	m := New()

	m.ObserveCall(analytics.Call{Type: analytics.TypeTrack, Event: "Order Completed"})
	m.ObserveCall(analytics.Call{Type: analytics.TypeTrack, Event: "Order Completed"})
	m.ObserveCall(analytics.Call{Type: analytics.TypeIdentify})
	m.ObserveEnhance(2, 1)
	m.ObserveCollectorRequest(nil, 10*time.Millisecond)
	m.ObserveCollectorRequest(errors.New("503"), time.Second)
	m.ObserveDonation("shop")
	m.ObserveDelivery(DeliveryDelivered, 3)
	m.ObserveDelivery(DeliveryFailed, 0)

	assert.Equal(t, 2.0, counterValue(t, m, "kepixel_calls_total", map[string]string{"type": "track", "event": "Order Completed"}))
	assert.Equal(t, 1.0, counterValue(t, m, "kepixel_calls_total", map[string]string{"type": "identify", "event": ""}))
	assert.Equal(t, 2.0, counterValue(t, m, "kepixel_enhanced_elements_total", map[string]string{"kind": "whatsapp"}))
	assert.Equal(t, 1.0, counterValue(t, m, "kepixel_enhanced_elements_total", map[string]string{"kind": "addtocart"}))
	assert.Equal(t, 1.0, counterValue(t, m, "kepixel_collector_requests_total", map[string]string{"result": ResultFailure}))
	assert.Equal(t, 1.0, counterValue(t, m, "kepixel_donations_tracked_total", map[string]string{"site": "shop"}))
	assert.Equal(t, 3.0, counterValue(t, m, "kepixel_delivery_records_total", map[string]string{"result": DeliveryDelivered}))

	families, err := m.Gather()
	require.NoError(t, err)
	hist := findMetricFamily(families, "kepixel_collector_request_duration_seconds")
	require.NotNil(t, hist)
	assert.Equal(t, dto.MetricType_HISTOGRAM, hist.GetType())
	assert.Equal(t, uint64(2), hist.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCall(analytics.Call{})
		m.ObserveEnhance(1, 1)
		m.ObserveCollectorRequest(nil, 0)
		m.ObserveDonation("shop")
		m.ObserveDelivery(DeliveryDelivered, 1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveDonation("shop")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `kepixel_donations_tracked_total{site="shop"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
