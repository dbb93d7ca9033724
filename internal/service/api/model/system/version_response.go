package system

// VersionResponse GET /version 응답입니다. 배포된 바이너리가 어떤 커밋에서 빌드되었는지 확인하는 데 사용합니다.
type VersionResponse struct {
	Version     string `json:"version" example:"v1.2.0"`
	Commit      string `json:"commit" example:"abc1234"`
	BuildDate   string `json:"build_date" example:"2026-03-01T09:00:00Z"`
	BuildNumber string `json:"build_number" example:"100"`

	GoVersion string `json:"go_version" example:"go1.24.0"`
	Platform  string `json:"platform" example:"linux/amd64"`

	// Dirty 커밋되지 않은 변경이 포함된 상태로 빌드되었는지 여부
	Dirty bool `json:"dirty,omitempty" example:"false"`
}
