// Package response API 공통 응답 모델을 정의합니다.
package response

// ErrorResponse API 오류 응답
type ErrorResponse struct {
	// ResultCode HTTP 상태 코드
	ResultCode int `json:"result_code" example:"401"`

	Message string `json:"message" example:"api_key가 유효하지 않습니다 (site_id: shop)"`

	// RequestID 문의 시 서버 로그와 대조할 수 있는 요청 ID
	RequestID string `json:"request_id,omitempty" example:"3kZ9bQ2xR7"`
}
