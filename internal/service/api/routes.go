package api

import (
	"github.com/darkkaiser/kepixel-server/internal/metrics"
	"github.com/darkkaiser/kepixel-server/internal/service/api/handler/system"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RegisterRoutes API 서비스의 전역 라우트를 등록합니다.
//
// 인증이 필요 없는 공통 엔드포인트입니다:
//   - 시스템: 서비스 상태 확인(/health), 버전 정보(/version)
//   - 지표: Prometheus 수집용 /metrics (m이 nil이면 등록하지 않음)
//   - API 문서: Swagger UI (/swagger/*)
func RegisterRoutes(e *echo.Echo, h *system.Handler, m *metrics.Metrics) {
	registerSystemRoutes(e, h)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
	registerSwaggerRoutes(e)
}

func registerSystemRoutes(e *echo.Echo, h *system.Handler) {
	e.GET("/health", h.HealthCheckHandler)
	e.GET("/version", h.VersionHandler)
}

func registerSwaggerRoutes(e *echo.Echo) {
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(
		echoSwagger.URL("/swagger/doc.json"),
		echoSwagger.DeepLinking(true),
		// 태그 목록만 펼친 상태로 표시 ("list", "full", "none")
		echoSwagger.DocExpansion("list"),
	))
}
