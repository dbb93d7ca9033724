package constants

// 헬스체크 상태
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
)

// 외부 의존성
const (
	// DependencyStorage 이벤트 레코드와 상품 카탈로그 저장소
	DependencyStorage = "storage"

	MsgDepStatusHealthy        = "정상 작동 중"
	MsgDepStatusNotInitialized = "서비스가 초기화되지 않음"
)
