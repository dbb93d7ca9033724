package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/service/api/auth"
	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/darkkaiser/kepixel-server/pkg/strutil"
	"github.com/labstack/echo/v4"
)

// HTTPLogger 요청마다 접근 로그 한 줄을 남기는 미들웨어를 반환합니다.
//
// 로그 레벨은 응답 상태 코드로 정해집니다. 5xx는 Error, 4xx는 Warn, 나머지는 Info입니다.
// 인증을 통과한 요청은 site_id가 함께 기록되며, URI의 api_key, nonce 같은 쿼리 값은 가려집니다.
func HTTPLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// 핸들러가 panic으로 빠져나가도 접근 로그는 남긴다.
			defer func() { writeAccessLog(c, start) }()

			if err := next(c); err != nil {
				c.Error(err)
			}
			return nil
		}
	}
}

func writeAccessLog(c echo.Context, start time.Time) {
	req := c.Request()
	res := c.Response()
	latency := time.Since(start)

	fields := applog.Fields{
		"method":     req.Method,
		"uri":        maskSensitiveQueryParams(req.RequestURI),
		"host":       req.Host,
		"remote_ip":  c.RealIP(),
		"user_agent": req.UserAgent(),
		"status":     res.Status,
		"bytes_in":   req.ContentLength,
		"bytes_out":  res.Size,
		"latency_us": strconv.FormatInt(latency.Microseconds(), 10),
	}
	if referer := req.Referer(); referer != "" {
		fields["referer"] = referer
	}
	if requestID := res.Header().Get(echo.HeaderXRequestID); requestID != "" {
		fields["request_id"] = requestID
	}
	if site, err := auth.GetSite(c); err == nil {
		fields["site_id"] = site.ID
	}

	entry := applog.WithComponentAndFields(constants.ComponentMiddlewareAccessLog, fields)

	switch {
	case res.Status >= http.StatusInternalServerError:
		entry.Error(constants.LogMsgAccess)
	case res.Status >= http.StatusBadRequest:
		entry.Warn(constants.LogMsgAccess)
	default:
		entry.Info(constants.LogMsgAccess)
	}
}

// maskSensitiveQueryParams URI에 포함된 민감한 쿼리 값을 strutil.Mask로 가린 URI를 반환합니다.
// 가릴 값이 없거나 URI를 해석할 수 없으면 입력을 그대로 돌려줍니다.
//
//	"/api/v1/render?api_key=secret123&id=100" → "/api/v1/render?api_key=secr%2A%2A%2A&id=100"
func maskSensitiveQueryParams(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.RawQuery == "" {
		return uri
	}

	q := u.Query()
	changed := false
	for _, param := range constants.SensitiveQueryParams {
		if v := q.Get(param); v != "" {
			q.Set(param, strutil.Mask(v))
			changed = true
		}
	}
	if !changed {
		return uri
	}

	u.RawQuery = q.Encode()
	return u.String()
}
