package handler

import (
	"fmt"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/darkkaiser/kepixel-server/internal/service/api/httputil"
)

const (
	// AJAX 응답(data.message)으로 전달되는 장바구니 조회 실패 사유
	msgInvalidRequest       = "잘못된 요청입니다"
	msgInvalidSite          = "등록되지 않은 사이트입니다"
	msgInvalidNonce         = "보안 토큰이 유효하지 않습니다. 페이지를 새로고침해 주세요"
	msgWooCommerceInactive  = "쇼핑몰 플러그인이 활성화되어 있지 않습니다"
	msgProductNotFound      = "상품을 찾을 수 없습니다"
	msgProductLookupFailure = "상품 정보를 조회하지 못했습니다"
)

// NewErrSiteIDMismatch 요청 본문의 site_id와 인증된 사이트가 일치하지 않을 때 발생하는 에러를 생성합니다.
func NewErrSiteIDMismatch(reqSiteID, authSiteID string) error {
	return httputil.NewBadRequestError(fmt.Sprintf("요청 본문의 site_id와 인증된 사이트가 일치하지 않습니다 (요청: %s, 인증: %s)", reqSiteID, authSiteID))
}

// NewErrInvalidBody 요청 본문을 파싱할 수 없을 때 발생하는 에러를 생성합니다.
func NewErrInvalidBody() error {
	return httputil.NewBadRequestError("요청 본문을 파싱할 수 없습니다. JSON 형식을 확인해주세요")
}

// NewErrValidationFailed 요청 데이터의 유효성 검증에 실패했을 때 발생하는 에러를 생성합니다.
func NewErrValidationFailed(msg string) error {
	return httputil.NewBadRequestError(msg)
}

// NewErrDonationNotCompleted 결제가 완료되지 않은 후원의 기록을 요청했을 때 발생하는 에러를 생성합니다.
func NewErrDonationNotCompleted(status string) error {
	return httputil.NewBadRequestError(fmt.Sprintf("결제가 완료된 후원만 기록할 수 있습니다 (상태: %s)", status))
}

// NewErrRenderFailed 추적 스크립트 생성에 실패했을 때 발생하는 에러를 생성합니다.
func NewErrRenderFailed() error {
	return httputil.NewInternalServerError("추적 스크립트를 생성하지 못했습니다")
}

// NewErrStorageUnavailable 저장소 작업이 실패했을 때 발생하는 에러를 생성합니다.
func NewErrStorageUnavailable() error {
	return httputil.NewServiceUnavailableError("저장소를 일시적으로 사용할 수 없습니다. 잠시 후 다시 시도해주세요")
}

// NewErrInvalidInput 도메인 컴포넌트가 입력 오류(apperrors.InvalidInput)를 반환했을 때 그 메시지로 400 에러를 생성합니다.
func NewErrInvalidInput(err error) error {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return httputil.NewBadRequestError(appErr.Message())
	}
	return httputil.NewBadRequestError(err.Error())
}
