// Package system 시스템 엔드포인트 핸들러를 제공합니다.
//
// 헬스체크, 버전 정보 등 인증이 필요 없는 시스템 수준의 API를 처리합니다.
package system

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/pkg/version"
	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	"github.com/darkkaiser/kepixel-server/internal/service/api/model/system"
	"github.com/darkkaiser/kepixel-server/internal/store"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/labstack/echo/v4"
)

const (
	// storageProbeKey 저장소 응답 여부를 확인하기 위해 조회하는 키입니다. 값이 없어도(ErrNotFound) 정상으로 판단합니다.
	storageProbeKey = "system/health-probe"

	storageProbeTimeout = 2 * time.Second
)

// Handler 시스템 엔드포인트 핸들러 (헬스체크, 버전 정보)
type Handler struct {
	store store.Store

	buildInfo version.Info

	serverStartTime time.Time
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(s store.Store, buildInfo version.Info) *Handler {
	if s == nil {
		panic(constants.PanicMsgStoreRequired)
	}

	return &Handler{
		store: s,

		buildInfo: buildInfo,

		serverStartTime: time.Now(),
	}
}

// HealthCheckHandler godoc
// @Summary 서버 헬스체크
// @Description 서버와 저장소의 상태를 확인합니다.
// @Description 인증 없이 호출 가능하며, 모니터링 시스템에서 사용됩니다.
// @Description
// @Description 응답 필드:
// @Description - status: 전체 서버 상태 (healthy, unhealthy)
// @Description - version: 실행 중인 서버 버전
// @Description - uptime: 서버 가동 시간(초)
// @Description - checked_at: 점검 시각(UTC)
// @Description - dependencies: 외부 의존성별 상태 (storage)
// @Tags System
// @Produce json
// @Success 200 {object} system.HealthResponse "정상"
// @Failure 503 {object} system.HealthResponse "의존성 장애"
// @Router /health [get]
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  "/health",
		"method":    c.Request().Method,
		"remote_ip": c.RealIP(),
	}).Debug(constants.LogMsgHealthCheck)

	deps := map[string]system.DependencyStatus{
		constants.DependencyStorage: h.checkStorage(c.Request().Context()),
	}

	resp := system.HealthResponse{
		Status:       constants.HealthStatusHealthy,
		Version:      h.buildInfo.Version,
		Uptime:       int64(time.Since(h.serverStartTime).Seconds()),
		CheckedAt:    time.Now().UTC().Format(time.RFC3339),
		Dependencies: deps,
	}

	code := http.StatusOK
	for _, dep := range deps {
		if dep.Status != constants.HealthStatusHealthy {
			resp.Status = constants.HealthStatusUnhealthy
			code = http.StatusServiceUnavailable
			break
		}
	}

	return c.JSON(code, resp)
}

func (h *Handler) checkStorage(ctx context.Context) system.DependencyStatus {
	if h.store == nil {
		return system.DependencyStatus{
			Status:  constants.HealthStatusUnhealthy,
			Message: constants.MsgDepStatusNotInitialized,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, storageProbeTimeout)
	defer cancel()

	start := time.Now()
	var probe struct{}
	err := h.store.GetJSON(ctx, storageProbeKey, &probe)
	latency := time.Since(start).Milliseconds()

	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return system.DependencyStatus{
			Status:    constants.HealthStatusUnhealthy,
			LatencyMs: latency,
			Message:   err.Error(),
		}
	}

	return system.DependencyStatus{
		Status:    constants.HealthStatusHealthy,
		LatencyMs: latency,
		Message:   constants.MsgDepStatusHealthy,
	}
}

// VersionHandler godoc
// @Summary 서버 버전 정보
// @Description 서버의 버전, Git 커밋 해시, 빌드 날짜와 번호, Go 버전, 실행 플랫폼을 반환합니다.
// @Tags System
// @Produce json
// @Success 200 {object} system.VersionResponse "버전 정보"
// @Router /version [get]
func (h *Handler) VersionHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  "/version",
		"method":    c.Request().Method,
		"remote_ip": c.RealIP(),
	}).Debug(constants.LogMsgVersionInfo)

	info := h.buildInfo
	if info.GoVersion == "" {
		info.GoVersion = runtime.Version()
	}
	if info.OS == "" || info.Arch == "" {
		info.OS, info.Arch = runtime.GOOS, runtime.GOARCH
	}

	return c.JSON(http.StatusOK, system.VersionResponse{
		Version:     info.Version,
		Commit:      info.Commit,
		BuildDate:   info.BuildDate,
		BuildNumber: info.BuildNumber,
		GoVersion:   info.GoVersion,
		Platform:    info.OS + "/" + info.Arch,
		Dirty:       info.DirtyBuild,
	})
}
