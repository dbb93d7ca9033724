package api

import (
	"net/http"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	"github.com/darkkaiser/kepixel-server/internal/service/api/httputil"
	appmiddleware "github.com/darkkaiser/kepixel-server/internal/service/api/middleware"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HTTPServerConfig HTTP 서버 생성에 필요한 설정을 정의합니다. 0 값인 항목은 기본값을 사용합니다.
type HTTPServerConfig struct {
	// Debug Echo 프레임워크의 디버그 모드 활성화 여부
	Debug bool

	// AllowOrigins CORS에서 허용할 Origin 목록
	// 브라우저의 장바구니 조회 요청은 호스트 사이트에서 발생하므로 호스트 사이트 도메인을 포함해야 합니다.
	AllowOrigins []string

	// RequestTimeout 각 HTTP 요청의 최대 처리 시간 (기본값: 60초)
	RequestTimeout time.Duration

	// RateLimitPerSecond, RateLimitBurst IP별 초당 허용 요청 수와 버스트 크기 (기본값: 20, 40)
	RateLimitPerSecond int
	RateLimitBurst     int

	// MaxBodySize 요청 본문 최대 크기 (기본값: "4M")
	MaxBodySize string
}

func (c HTTPServerConfig) withDefaults() HTTPServerConfig {
	if c.RequestTimeout == 0 {
		c.RequestTimeout = constants.DefaultRequestTimeout
	}
	if c.RateLimitPerSecond == 0 {
		c.RateLimitPerSecond = constants.DefaultRateLimitPerSecond
	}
	if c.RateLimitBurst == 0 {
		c.RateLimitBurst = constants.DefaultRateLimitBurst
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = constants.DefaultMaxBodySize
	}
	return c
}

// NewHTTPServer 설정된 미들웨어를 포함한 Echo 인스턴스를 생성합니다.
//
// 미들웨어는 다음 순서로 적용됩니다:
//
//  1. PanicRecovery - 가장 먼저 적용되어 다른 미들웨어의 panic도 복구
//  2. RequestID - 로그에 request_id를 남기기 위해 로깅보다 먼저 적용
//  3. Server 헤더 제거
//  4. HTTPLogger - 429/503 응답도 기록되도록 RateLimit/Timeout 이전에 적용 (api_key, nonce 마스킹)
//  5. RateLimiting - IP별 요청 제한, 초과 시 429
//  6. BodyLimit - 카탈로그, 양식 HTML 등 큰 본문 허용 한도, 초과 시 413
//  7. Timeout - 초과 시 503
//  8. CORS - 호스트 사이트의 브라우저 스크립트가 장바구니 조회 API를 호출할 수 있도록 허용
//  9. Secure - X-XSS-Protection, X-Content-Type-Options 등 보안 헤더
//
// 라우트 설정은 포함되지 않으며, 반환된 Echo 인스턴스에 별도로 설정해야 합니다.
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	cfg = cfg.withDefaults()

	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = constants.DefaultReadTimeout
	e.Server.ReadHeaderTimeout = constants.DefaultReadHeaderTimeout
	e.Server.WriteTimeout = constants.DefaultWriteTimeout
	e.Server.IdleTimeout = constants.DefaultIdleTimeout

	// Echo 내부 로그도 애플리케이션 로거로 출력한다.
	e.Logger = appmiddleware.Logger{Logger: applog.StandardLogger()}

	e.HTTPErrorHandler = httputil.ErrorHandler

	e.Use(appmiddleware.PanicRecovery())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderServer, "")
			return next(c)
		}
	})
	e.Use(appmiddleware.HTTPLogger())
	e.Use(appmiddleware.RateLimiting(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	e.Use(middleware.BodyLimit(cfg.MaxBodySize))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: cfg.RequestTimeout,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.AllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, constants.HeaderSiteID, constants.HeaderAPIKey},
		ExposeHeaders: []string{echo.HeaderRetryAfter},
	}))
	e.Use(middleware.Secure())

	return e
}
