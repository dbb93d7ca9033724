package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/darkkaiser/kepixel-server/internal/service/api/auth"
	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// PanicRecovery 핸들러의 panic을 에러로 바꿔 HTTPErrorHandler에 넘기는 미들웨어를 반환합니다.
//
// http.ErrAbortHandler는 net/http가 연결을 끊기 위해 쓰는 값이므로 복구하지 않고 다시 panic을 일으킵니다.
// 응답이 이미 전송되기 시작했다면 에러 응답을 쓰지 않고 로그만 남깁니다.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (returnErr error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				err, ok := r.(error)
				if !ok {
					err = NewErrPanicRecovered(r)
				}

				fields := applog.Fields{
					"method": c.Request().Method,
					"uri":    maskSensitiveQueryParams(c.Request().RequestURI),
					"error":  err,
					"stack":  string(debug.Stack()),
				}
				if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
					fields["request_id"] = requestID
				}
				if site, siteErr := auth.GetSite(c); siteErr == nil {
					fields["site_id"] = site.ID
				}
				applog.WithComponentAndFields(constants.ComponentMiddlewarePanicRecovery, fields).Error(constants.LogMsgPanicRecovered)

				if !c.Response().Committed {
					c.Error(err)
				}
				returnErr = nil
			}()

			return next(c)
		}
	}
}
