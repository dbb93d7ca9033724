package middleware

import (
	"mime"
	"strings"

	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// ValidateContentType 본문이 있는 요청의 미디어 타입이 allowed 중 하나인지 검증하는 미들웨어를 반환합니다.
//
// charset 같은 파라미터는 무시하고 미디어 타입만 대소문자 구분 없이 비교합니다.
// 일치하지 않으면 415 Unsupported Media Type을 반환합니다.
func ValidateContentType(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.ContentLength == 0 {
				return next(c)
			}

			contentType := req.Header.Get(echo.HeaderContentType)
			if !mediaTypeAllowed(contentType, allowed) {
				applog.WithComponentAndFields(constants.ComponentMiddlewareContentType, applog.Fields{
					"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
					"path":       req.URL.Path,
					"allowed":    allowed,
					"actual":     contentType,
					"remote_ip":  c.RealIP(),
				}).Warn(constants.LogMsgUnsupportedContentType)

				return ErrUnsupportedMediaType
			}

			return next(c)
		}
	}
}

func mediaTypeAllowed(contentType string, allowed []string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, a := range allowed {
		if strings.EqualFold(mediaType, a) {
			return true
		}
	}
	return false
}
