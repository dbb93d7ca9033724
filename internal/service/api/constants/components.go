// Package constants API 서비스 전반에서 공유하는 컴포넌트 이름, 기본값, 헤더 키, 메시지 상수를 정의합니다.
package constants

// 로그의 component 필드 값입니다. "api." 접두사 뒤에 계층(middleware, v1 등)을 붙여 필터링하기 쉽게 합니다.
const (
	ComponentService      = "api.service"
	ComponentErrorHandler = "api.error_handler"

	// ComponentHandler 추적 API(v1) 핸들러
	ComponentHandler = "api.v1.handler"

	ComponentMiddlewareAuthentication = "api.middleware.auth"
	ComponentMiddlewareRateLimit      = "api.middleware.rate_limit"
	ComponentMiddlewarePanicRecovery  = "api.middleware.panic_recovery"
	ComponentMiddlewareContentType    = "api.middleware.content_type"
	ComponentMiddlewareAccessLog      = "api.middleware.access_log"
)
