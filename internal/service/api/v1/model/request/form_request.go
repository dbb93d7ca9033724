package request

// FormSubmissionRequest 제출된 문의 양식 HTML 기록 요청
type FormSubmissionRequest struct {
	SiteID string `json:"site_id,omitempty" korean:"사이트 ID" example:"my-shop"`
	// 제출된 양식이 포함된 HTML (JSON 문자열이므로 UTF-8)
	HTML string `json:"html" validate:"required" korean:"HTML"`

	URL    string `json:"url,omitempty" validate:"omitempty,url" korean:"페이지 URL" example:"https://example.com/contact"`
	Title  string `json:"title,omitempty" korean:"페이지 제목" example:"문의하기"`
	Status string `json:"status,omitempty" korean:"제출 상태" example:"mail_sent"`

	// 양식을 제출한 로그인 사용자 ID (수집 서버 전달 시 사용)
	UserID string `json:"user_id,omitempty" korean:"사용자 ID" example:"user@example.com"`
}
