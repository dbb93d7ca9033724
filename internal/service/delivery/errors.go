package delivery

import (
	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
)

var (
	// ErrStoreNotInitialized 서비스 시작 시 핵심 의존성 객체인 Store가 올바르게 초기화되지 않았을 때 반환하는 에러입니다.
	ErrStoreNotInitialized = apperrors.New(apperrors.Internal, "Store 객체가 초기화되지 않았습니다")

	// ErrSenderNotInitialized 서비스 시작 시 핵심 의존성 객체인 Sender가 올바르게 초기화되지 않았을 때 반환하는 에러입니다.
	ErrSenderNotInitialized = apperrors.New(apperrors.Internal, "Sender 객체가 초기화되지 않았습니다")
)

// NewErrInvalidCronSpec Cron 표현식이 올바르지 않아 스케줄 등록에 실패했을 때 반환하는 에러를 생성합니다.
func NewErrInvalidCronSpec(timeSpec string, cause error) error {
	return apperrors.Wrapf(cause, apperrors.InvalidInput, "스케줄 등록 실패: 잘못된 Cron 표현식입니다 (TimeSpec='%s')", timeSpec)
}

// newErrWriteKeyMissing 레코드의 사이트에 쓰기 키가 설정되어 있지 않을 때 반환하는 에러를 생성합니다.
func newErrWriteKeyMissing(siteID string) error {
	return apperrors.Newf(apperrors.Unauthorized, "사이트('%s')의 쓰기 키가 설정되지 않아 이벤트를 전송할 수 없습니다", siteID)
}
