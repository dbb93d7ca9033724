package request

// ProductDataRequest 장바구니 담기 상품 정보 조회 요청
//
// 브라우저 스크립트가 렌더링 시 발급받은 nonce와 함께 직접 전송합니다.
type ProductDataRequest struct {
	SiteID    string `json:"site_id" validate:"required" korean:"사이트 ID" example:"my-shop"`
	SessionID string `json:"session_id" korean:"세션 ID" example:"8f14e45fceea167a"`
	Nonce     string `json:"nonce" validate:"required" korean:"nonce" example:"3f2a9c1b7d8e0a4c5b6d"`

	ProductID   int64 `json:"product_id" validate:"required,gt=0" korean:"상품 ID" example:"42"`
	Quantity    int   `json:"quantity" validate:"min=0,max=10000" korean:"수량" example:"1"`
	VariationID int64 `json:"variation_id" validate:"min=0" korean:"옵션 상품 ID" example:"0"`

	CartID        string `json:"cart_id" korean:"장바구니 ID" example:"cart_guest_8f14e45f_1767225600"`
	Coupon        string `json:"coupon" korean:"쿠폰" example:"WELCOME10"`
	ContentsCount int    `json:"contents_count" validate:"min=0" korean:"장바구니 상품 수" example:"2"`
}

// LookupID 조회할 상품 ID를 반환합니다. 옵션 상품이 선택된 경우 옵션 상품 ID입니다.
func (r *ProductDataRequest) LookupID() int64 {
	if r.VariationID > 0 {
		return r.VariationID
	}
	return r.ProductID
}
