package request

// EnhanceRequest 콘텐츠 추적 속성 추가 요청
type EnhanceRequest struct {
	SiteID string `json:"site_id,omitempty" korean:"사이트 ID" example:"my-shop"`
	// 속성을 추가할 HTML 조각
	HTML string `json:"html" korean:"HTML" example:"<a href=\"https://wa.me/821012345678\">문의</a>"`
	// WhatsApp 링크 속성 추가 여부 (기본값: true)
	WhatsApp *bool `json:"whatsapp,omitempty" korean:"WhatsApp" example:"true"`
	// 장바구니 담기 버튼 속성 추가 여부 (기본값: true)
	AddToCart *bool `json:"addtocart,omitempty" korean:"장바구니 담기" example:"true"`
}

// Options 선택하지 않은 항목은 기본값(true)으로 채워 반환합니다.
func (r *EnhanceRequest) Options() (whatsApp, addToCart bool) {
	return r.WhatsApp == nil || *r.WhatsApp, r.AddToCart == nil || *r.AddToCart
}
