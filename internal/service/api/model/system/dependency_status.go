// Package system 시스템 엔드포인트(헬스체크, 버전)의 응답 모델을 정의합니다.
package system

// DependencyStatus 의존성(저장소 등) 하나에 대한 점검 결과입니다.
type DependencyStatus struct {
	Status string `json:"status" example:"healthy"`

	// LatencyMs 점검 요청에 걸린 시간(ms)
	LatencyMs int64 `json:"latency_ms" example:"5"`

	// Message 정상일 때는 안내 문구, 장애일 때는 원인 에러 메시지
	Message string `json:"message,omitempty" example:"정상 작동 중"`
}
