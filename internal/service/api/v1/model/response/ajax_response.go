// Package response v1 API의 응답 본문 모델을 정의합니다.
package response

// AjaxResponse 브라우저 스크립트가 호출하는 엔드포인트의 응답 형식입니다.
// 성공 시 data에 결과가, 실패 시 data.message에 사유가 담깁니다.
type AjaxResponse struct {
	Success bool `json:"success" example:"true"`
	Data    any  `json:"data"`
}

// AjaxError 실패한 AjaxResponse의 data입니다.
type AjaxError struct {
	Message string `json:"message" example:"상품을 찾을 수 없습니다"`
}
