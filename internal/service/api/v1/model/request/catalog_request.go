package request

import "github.com/darkkaiser/kepixel-server/internal/host"

// CatalogRequest 상품 카탈로그 동기화 요청
type CatalogRequest struct {
	SiteID string `json:"site_id,omitempty" korean:"사이트 ID" example:"my-shop"`
	// 저장할 상품 목록 (같은 ID는 덮어씀)
	Products []host.Product `json:"products" validate:"required,max=1000" korean:"상품 목록"`
}
