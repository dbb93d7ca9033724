// Package metrics 서버 동작 지표를 Prometheus 형식으로 수집하고 노출합니다.
//
// 기본 레지스트리와 충돌하지 않도록 전용 레지스트리를 사용합니다.
// 모든 Observe 메서드는 nil 수신자에서 아무 동작도 하지 않으므로, 지표 수집이 필요 없는 테스트에서는 nil을 전달할 수 있습니다.
package metrics

import (
	"net/http"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// namespace 모든 지표 이름의 접두사입니다.
const namespace = "kepixel"

// 요청 결과 라벨 값
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// 전송 작업 결과 라벨 값
const (
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
	DeliveryAbandoned = "abandoned"
)

// Metrics 서버 지표의 집합입니다. 여러 고루틴에서 동시에 사용해도 안전합니다.
type Metrics struct {
	registry *prometheus.Registry

	callsTotal              *prometheus.CounterVec
	enhancedElementsTotal   *prometheus.CounterVec
	collectorRequestsTotal  *prometheus.CounterVec
	collectorRequestSeconds prometheus.Histogram
	donationsTrackedTotal   *prometheus.CounterVec
	deliveryRecordsTotal    *prometheus.CounterVec
}

// New 전용 레지스트리에 지표를 등록한 Metrics를 생성합니다.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		callsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "생성된 추적 호출 수 (type, event별)",
		}, []string{"type", "event"}),

		enhancedElementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enhanced_elements_total",
			Help:      "추적 속성이 추가된 HTML 요소 수 (kind별)",
		}, []string{"kind"}),

		collectorRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collector_requests_total",
			Help:      "수집 서버 배치 요청 수 (result별)",
		}, []string{"result"}),

		collectorRequestSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "collector_request_duration_seconds",
			Help:      "수집 서버 배치 요청 소요 시간 (재시도 포함)",
			Buckets:   prometheus.DefBuckets,
		}),

		donationsTrackedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "donations_tracked_total",
			Help:      "서버 측에서 추적된 후원 수 (site별)",
		}, []string{"site"}),

		deliveryRecordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_records_total",
			Help:      "outbox 레코드 처리 결과 수 (result별)",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.callsTotal,
		m.enhancedElementsTotal,
		m.collectorRequestsTotal,
		m.collectorRequestSeconds,
		m.donationsTrackedTotal,
		m.deliveryRecordsTotal,
	)

	return m
}

// ObserveCall analytics.WithObserver에 등록하여 전송된 호출을 집계합니다.
func (m *Metrics) ObserveCall(call analytics.Call) {
	if m == nil {
		return
	}
	m.callsTotal.WithLabelValues(string(call.Type), call.Event).Inc()
}

// ObserveEnhance 콘텐츠에 추가된 속성 수를 종류별로 집계합니다.
func (m *Metrics) ObserveEnhance(whatsApp, addToCart int) {
	if m == nil {
		return
	}
	m.enhancedElementsTotal.WithLabelValues("whatsapp").Add(float64(whatsApp))
	m.enhancedElementsTotal.WithLabelValues("addtocart").Add(float64(addToCart))
}

// ObserveCollectorRequest 수집 서버 요청 결과와 소요 시간을 기록합니다.
func (m *Metrics) ObserveCollectorRequest(err error, elapsed time.Duration) {
	if m == nil {
		return
	}

	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.collectorRequestsTotal.WithLabelValues(result).Inc()
	m.collectorRequestSeconds.Observe(elapsed.Seconds())
}

// ObserveDonation 서버 측에서 추적된 후원을 집계합니다.
func (m *Metrics) ObserveDonation(siteID string) {
	if m == nil {
		return
	}
	m.donationsTrackedTotal.WithLabelValues(siteID).Inc()
}

// ObserveDelivery outbox 레코드 처리 결과를 집계합니다.
func (m *Metrics) ObserveDelivery(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.deliveryRecordsTotal.WithLabelValues(result).Add(float64(n))
}

// Handler /metrics 엔드포인트 핸들러를 반환합니다.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gather 현재 지표를 수집합니다.
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	return m.registry.Gather()
}
