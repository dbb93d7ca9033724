package httputil

import (
	"net/http"

	"github.com/darkkaiser/kepixel-server/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
)

// NewError code 상태와 message를 갖는 에러를 생성합니다. ErrorHandler가 ErrorResponse JSON으로 변환합니다.
func NewError(code int, message string) error {
	return echo.NewHTTPError(code, response.ErrorResponse{ResultCode: code, Message: message})
}

func NewBadRequestError(message string) error {
	return NewError(http.StatusBadRequest, message)
}

// NewUnauthorizedError 사이트 인증(site_id, api_key) 실패에 사용합니다.
func NewUnauthorizedError(message string) error {
	return NewError(http.StatusUnauthorized, message)
}

func NewNotFoundError(message string) error {
	return NewError(http.StatusNotFound, message)
}

func NewTooManyRequestsError(message string) error {
	return NewError(http.StatusTooManyRequests, message)
}

func NewInternalServerError(message string) error {
	return NewError(http.StatusInternalServerError, message)
}

// NewServiceUnavailableError 저장소 장애처럼 잠시 후 재시도하면 성공할 수 있는 경우에 사용합니다.
func NewServiceUnavailableError(message string) error {
	return NewError(http.StatusServiceUnavailable, message)
}
