// Package request v1 API의 요청 본문 모델을 정의합니다.
package request

import "github.com/darkkaiser/kepixel-server/internal/host"

// RenderRequest 페이지 추적 스크립트 렌더링 요청
type RenderRequest struct {
	// 사이트 식별자 (X-Site-Id 헤더를 사용하지 않는 경우)
	SiteID string `json:"site_id,omitempty" korean:"사이트 ID" example:"my-shop"`
	// 호스트 사이트 정보 (이름, 통화, 플러그인 활성화 여부)
	Site host.Site `json:"site"`
	// 방문자 정보 (로그인 사용자, 세션, 쿠키)
	Visitor host.Visitor `json:"visitor"`
	// 렌더링할 페이지 정보
	Page host.Page `json:"page"`
}
