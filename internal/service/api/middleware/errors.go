package middleware

import (
	"fmt"
	"net/http"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	"github.com/darkkaiser/kepixel-server/internal/service/api/httputil"
	"github.com/labstack/echo/v4"
)

var (
	// ErrAPIKeyRequired API 키가 누락되었을 때 반환하는 에러입니다.
	ErrAPIKeyRequired = httputil.NewBadRequestError("api_key는 필수입니다 (X-Api-Key 헤더 또는 api_key 쿼리 파라미터)")

	// ErrSiteIDRequired Site ID가 요청에 포함되지 않았을 때 반환하는 에러입니다.
	ErrSiteIDRequired = httputil.NewBadRequestError("site_id는 필수입니다 (X-Site-Id 헤더 또는 요청 본문)")

	// ErrBodyTooLarge 요청 본문의 크기가 서버 허용 한도(BodyLimit)를 초과했을 때 반환하는 413 에러입니다.
	ErrBodyTooLarge = echo.NewHTTPError(http.StatusRequestEntityTooLarge, "요청 본문이 너무 큽니다")

	// ErrBodyReadFailed 요청 본문을 읽는 데 실패했을 때 반환하는 에러입니다.
	ErrBodyReadFailed = httputil.NewBadRequestError("요청 본문을 읽을 수 없습니다")

	// ErrEmptyBody 요청 본문이 비어있을 때 반환하는 에러입니다.
	ErrEmptyBody = httputil.NewBadRequestError("요청 본문이 비어있습니다")

	// ErrInvalidJSON 요청 본문이 올바른 JSON 형식이 아닐 때 반환하는 에러입니다.
	ErrInvalidJSON = httputil.NewBadRequestError("잘못된 JSON 형식입니다")

	// ErrRateLimitExceeded 허용된 요청 빈도를 초과한 클라이언트에게 반환하는 429 에러입니다.
	ErrRateLimitExceeded = httputil.NewTooManyRequestsError(constants.ErrMsgTooManyRequests)

	// ErrUnsupportedMediaType 지원하지 않는 Content-Type으로 요청했을 때 반환하는 415 에러입니다.
	ErrUnsupportedMediaType = echo.NewHTTPError(http.StatusUnsupportedMediaType, constants.ErrMsgUnsupportedMediaType)
)

// NewErrPanicRecovered 캡처된 패닉 값을 내부 시스템 오류로 래핑하여 새로운 에러를 생성합니다.
func NewErrPanicRecovered(r any) error {
	return apperrors.New(apperrors.Internal, fmt.Sprintf("%v", r))
}
