package api

import (
	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
)

var (
	// ErrStoreNotInitialized 서비스 시작 시 저장소가 준비되지 않았을 때 반환하는 에러입니다.
	ErrStoreNotInitialized = apperrors.New(apperrors.Internal, "Store 객체가 초기화되지 않았습니다")
)
