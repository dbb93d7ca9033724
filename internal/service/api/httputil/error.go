// Package httputil API 핸들러와 미들웨어가 공유하는 HTTP 에러 생성 및 응답 헬퍼를 제공합니다.
package httputil

import (
	"errors"
	"net/http"

	"github.com/darkkaiser/kepixel-server/internal/config"
	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	"github.com/darkkaiser/kepixel-server/internal/service/api/model/response"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// appErrorStatus 핸들러가 AppError를 그대로 반환했을 때 사용할 상태 코드입니다.
// 메시지를 클라이언트에 그대로 보여도 되는 타입만 등록합니다.
var appErrorStatus = map[apperrors.ErrorType]int{
	apperrors.InvalidInput: http.StatusBadRequest,
	apperrors.Unauthorized: http.StatusUnauthorized,
	apperrors.Forbidden:    http.StatusForbidden,
	apperrors.NotFound:     http.StatusNotFound,
	apperrors.Conflict:     http.StatusConflict,
	apperrors.Unavailable:  http.StatusServiceUnavailable,
}

// resolveError err를 응답 상태 코드와 메시지로 변환합니다. 알 수 없는 에러는 내부 정보를 감추고 500으로 응답합니다.
func resolveError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch msg := he.Message.(type) {
		case string:
			return he.Code, msg
		case response.ErrorResponse:
			return he.Code, msg.Message
		}
		return he.Code, http.StatusText(he.Code)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if code, ok := appErrorStatus[appErr.Type()]; ok {
			return code, appErr.Message()
		}
	}

	return http.StatusInternalServerError, constants.ErrMsgInternalServer
}

// ErrorHandler Echo의 HTTPErrorHandler입니다.
//
// 에러를 ErrorResponse JSON으로 응답하고, 응답 본문에 로그와 같은 request_id를 담습니다.
// 5xx는 Error, 4xx는 Warn 레벨로 기록하며 그 밖의 상태는 기록하지 않습니다.
func ErrorHandler(err error, c echo.Context) {
	code, message := resolveError(err)

	if code == http.StatusNotFound && message == http.StatusText(http.StatusNotFound) {
		message = constants.ErrMsgNotFound
	}

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)

	if code >= http.StatusBadRequest {
		fields := applog.Fields{
			"method":      c.Request().Method,
			"path":        c.Request().URL.Path,
			"status_code": code,
			"error":       err,
			"remote_ip":   c.RealIP(),
			"request_id":  requestID,
		}
		if site, ok := c.Get(constants.ContextKeySite).(*config.SiteConfig); ok && site != nil {
			fields["site_id"] = site.ID
		}

		entry := applog.WithComponentAndFields(constants.ComponentErrorHandler, fields)
		if code >= http.StatusInternalServerError {
			entry.Error(constants.LogMsgHTTP5xxServerError)
		} else {
			entry.Warn(constants.LogMsgHTTP4xxClientError)
		}
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	_ = c.JSON(code, response.ErrorResponse{
		ResultCode: code,
		Message:    message,
		RequestID:  requestID,
	})
}
