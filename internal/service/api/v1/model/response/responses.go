package response

import (
	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/render"
)

// RegistrationResponse 회원가입 쿠키 발급 응답
type RegistrationResponse struct {
	// 호스트가 방문자에게 설정해야 할 쿠키 (사이트의 추적이 비활성화되어 있으면 생략)
	Cookie *render.Cookie `json:"cookie,omitempty"`
}

// FormSubmissionResponse 양식 제출 기록 응답
type FormSubmissionResponse struct {
	// 양식별로 생성된 "Form Submitted" 이벤트
	Events []analytics.Event `json:"events"`
	// 전송 대기열에 추가된 호출 수 (추적 비활성화 또는 쓰기 키가 없으면 0)
	Queued int `json:"queued" example:"1"`
}
