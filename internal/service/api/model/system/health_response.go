package system

// HealthResponse GET /health 응답입니다.
//
// 의존성 중 하나라도 unhealthy이면 Status도 unhealthy이며 HTTP 503으로 응답합니다.
type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Version string `json:"version" example:"v1.2.0"`

	// Uptime 프로세스 시작 후 경과 시간(초)
	Uptime int64 `json:"uptime" example:"3600"`

	CheckedAt string `json:"checked_at" example:"2026-03-01T09:00:00Z"`

	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}
