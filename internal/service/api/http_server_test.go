package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// captureLogs 테스트 동안 전역 로거 출력을 JSON 형식으로 버퍼에 기록합니다.
// 전역 로거를 변경하므로 이 헬퍼를 사용하는 테스트는 병렬로 실행하지 않습니다.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	logger := applog.StandardLogger()
	out, formatter, level := logger.Out, logger.Formatter, logger.GetLevel()

	buf := new(bytes.Buffer)
	applog.SetOutput(buf)
	applog.SetFormatter(&applog.JSONFormatter{})
	applog.SetLevel(applog.DebugLevel)

	t.Cleanup(func() {
		applog.SetOutput(out)
		applog.SetFormatter(formatter)
		applog.SetLevel(level)
	})

	return buf
}

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestHTTPServerConfig_withDefaults(t *testing.T) {
	t.Parallel()

	t.Run("성공: 0 값은 기본값으로 채움", func(t *testing.T) {
		t.Parallel()

		cfg := HTTPServerConfig{}.withDefaults()
		assert.Equal(t, constants.DefaultRequestTimeout, cfg.RequestTimeout)
		assert.Equal(t, constants.DefaultRateLimitPerSecond, cfg.RateLimitPerSecond)
		assert.Equal(t, constants.DefaultRateLimitBurst, cfg.RateLimitBurst)
		assert.Equal(t, constants.DefaultMaxBodySize, cfg.MaxBodySize)
	})

	t.Run("성공: 지정한 값 유지", func(t *testing.T) {
		t.Parallel()

		cfg := HTTPServerConfig{RequestTimeout: time.Second, RateLimitPerSecond: 1, RateLimitBurst: 2, MaxBodySize: "1K"}.withDefaults()
		assert.Equal(t, time.Second, cfg.RequestTimeout)
		assert.Equal(t, 1, cfg.RateLimitPerSecond)
		assert.Equal(t, 2, cfg.RateLimitBurst)
		assert.Equal(t, "1K", cfg.MaxBodySize)
	})
}

func TestNewHTTPServer_Configuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		debug bool
	}{
		{name: "성공: Debug 모드 활성화", debug: true},
		{name: "성공: Debug 모드 비활성화", debug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewHTTPServer(HTTPServerConfig{Debug: tt.debug})
			assert.Equal(t, tt.debug, e.Debug)
			assert.True(t, e.HideBanner)
			assert.True(t, e.HidePort)
			assert.Equal(t, constants.DefaultReadHeaderTimeout, e.Server.ReadHeaderTimeout)
			assert.Equal(t, constants.DefaultWriteTimeout, e.Server.WriteTimeout)
		})
	}
}

func TestNewHTTPServer_CORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		allowOrigins      []string
		origin            string
		method            string
		expectStatus      int
		expectAllowOrigin string
		expectPreflight   bool
	}{
		{
			name:              "성공: 호스트 사이트의 Preflight 요청",
			allowOrigins:      []string{"https://shop.example.com"},
			origin:            "https://shop.example.com",
			method:            http.MethodOptions,
			expectStatus:      http.StatusNoContent,
			expectAllowOrigin: "https://shop.example.com",
			expectPreflight:   true,
		},
		{
			name:              "성공: 허용된 Origin의 POST 요청",
			allowOrigins:      []string{"https://shop.example.com"},
			origin:            "https://shop.example.com",
			method:            http.MethodPost,
			expectStatus:      http.StatusOK,
			expectAllowOrigin: "https://shop.example.com",
		},
		{
			name:              "실패: 허용되지 않은 Origin은 헤더 생략",
			allowOrigins:      []string{"https://shop.example.com"},
			origin:            "https://evil.example.com",
			method:            http.MethodPost,
			expectStatus:      http.StatusOK,
			expectAllowOrigin: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewHTTPServer(HTTPServerConfig{AllowOrigins: tt.allowOrigins})
			e.POST("/test", okHandler)
			e.OPTIONS("/test", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

			req := httptest.NewRequest(tt.method, "/test", nil)
			req.Header.Set(echo.HeaderOrigin, tt.origin)
			if tt.expectPreflight {
				req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectStatus, rec.Code)
			assert.Equal(t, tt.expectAllowOrigin, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

			if tt.expectPreflight {
				allowHeaders := rec.Header().Get(echo.HeaderAccessControlAllowHeaders)
				assert.Contains(t, allowHeaders, constants.HeaderSiteID)
				assert.Contains(t, allowHeaders, constants.HeaderAPIKey)
				assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPut)
			}
		})
	}
}

func TestNewHTTPServer_Limits(t *testing.T) {
	t.Parallel()

	t.Run("실패: 본문 크기 초과", func(t *testing.T) {
		t.Parallel()

		e := NewHTTPServer(HTTPServerConfig{MaxBodySize: "1K"})
		e.POST("/test", okHandler)

		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("a", 2048)))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("실패: 요청 수 제한 초과", func(t *testing.T) {
		t.Parallel()

		e := NewHTTPServer(HTTPServerConfig{RateLimitPerSecond: 1, RateLimitBurst: 1})
		e.GET("/test", okHandler)

		codes := make([]int, 0, 2)
		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
			codes = append(codes, rec.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
	})
}

func TestNewHTTPServer_StandardHeaders(t *testing.T) {
	t.Parallel()

	e := NewHTTPServer(HTTPServerConfig{})
	e.GET("/test", okHandler)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	tests := []struct {
		name   string
		header string
		expect string
	}{
		{name: "성공: X-XSS-Protection", header: echo.HeaderXXSSProtection, expect: "1; mode=block"},
		{name: "성공: X-Content-Type-Options", header: echo.HeaderXContentTypeOptions, expect: "nosniff"},
		{name: "성공: Server 헤더 제거", header: echo.HeaderServer, expect: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expect, rec.Header().Get(tt.header))
		})
	}

	t.Run("성공: Request ID 발급", func(t *testing.T) {
		t.Parallel()

		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	})
}

func TestNewHTTPServer_PanicRecovery(t *testing.T) {
	buf := captureLogs(t)

	e := NewHTTPServer(HTTPServerConfig{})
	e.GET("/panic", func(echo.Context) error { panic("intentional panic") })

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "intentional panic")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestNewHTTPServer_HTTPLogger(t *testing.T) {
	buf := captureLogs(t)

	e := NewHTTPServer(HTTPServerConfig{})
	e.GET("/log-test", okHandler)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/log-test?api_key=secret123", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	logs := buf.String()
	assert.Contains(t, logs, `"method":"GET"`)
	assert.Contains(t, logs, `"status":200`)
	assert.Contains(t, logs, `"path":"/log-test"`)
	assert.Contains(t, logs, "secr%2A%2A%2A")
	assert.NotContains(t, logs, "secret123")
}
