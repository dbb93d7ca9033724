package host

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductTypeVariation 옵션(변형) 상품의 상품 타입입니다.
const ProductTypeVariation = "variation"

// Product 쇼핑몰 상품입니다.
type Product struct {
	ID       int64  `json:"id"`
	Type     string `json:"type,omitempty"`
	ParentID int64  `json:"parent_id,omitempty"`

	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Permalink string          `json:"permalink"`
	ImageURL  string          `json:"image_url,omitempty"`

	Categories []string `json:"categories,omitempty"`
	Brands     []string `json:"brands,omitempty"`

	// VariationAttributes 옵션 상품의 속성 값입니다. (예: 색상=Red, 크기=L)
	VariationAttributes []Attribute `json:"variation_attributes,omitempty"`
}

// Attribute 옵션 상품 속성의 이름과 값입니다.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CategoryNames 상품 카테고리 이름을 ", "로 연결하여 반환합니다.
func (p *Product) CategoryNames() string {
	if p == nil {
		return ""
	}
	return strings.Join(p.Categories, ", ")
}

// IsVariation 옵션 상품인지 여부를 반환합니다.
func (p *Product) IsVariation() bool {
	return p != nil && p.Type == ProductTypeVariation
}

// Variant 옵션 상품의 속성 값을 ", "로 연결하여 반환합니다. 옵션 상품이 아니면 빈 문자열을 반환합니다.
func (p *Product) Variant() string {
	if !p.IsVariation() {
		return ""
	}

	values := make([]string, 0, len(p.VariationAttributes))
	for _, attr := range p.VariationAttributes {
		values = append(values, attr.Value)
	}
	return strings.Join(values, ", ")
}

// Brand 첫 번째 브랜드 이름을 반환합니다.
func (p *Product) Brand() string {
	if p == nil || len(p.Brands) == 0 {
		return ""
	}
	return p.Brands[0]
}

// LineItem 장바구니 또는 주문의 한 줄입니다.
type LineItem struct {
	Product  *Product `json:"product"`
	Name     string   `json:"name,omitempty"`
	Quantity int      `json:"quantity"`

	// Subtotal 할인 전 줄 합계입니다. 주문 상품의 단가는 Subtotal / Quantity로 계산합니다.
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Cart 현재 방문자의 장바구니입니다.
type Cart struct {
	Items    []LineItem      `json:"items"`
	Total    decimal.Decimal `json:"total"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Coupons  []string        `json:"coupons,omitempty"`

	// ContentsCount 장바구니에 담긴 전체 상품 수량입니다.
	ContentsCount int `json:"contents_count"`
}

// FirstCoupon 처음 적용된 쿠폰 코드를 반환합니다.
func (c *Cart) FirstCoupon() string {
	if c == nil {
		return ""
	}
	return firstOf(c.Coupons)
}

// Order 주문 완료 페이지의 주문입니다.
type Order struct {
	ID       int64           `json:"id"`
	Items    []LineItem      `json:"items"`
	Total    decimal.Decimal `json:"total"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Coupons  []string        `json:"coupons,omitempty"`
	Currency string          `json:"currency,omitempty"`

	ShippingMethods    []string `json:"shipping_methods,omitempty"`
	PaymentMethodTitle string   `json:"payment_method_title,omitempty"`
}

// FirstCoupon 처음 사용된 쿠폰 코드를 반환합니다.
func (o *Order) FirstCoupon() string {
	if o == nil {
		return ""
	}
	return firstOf(o.Coupons)
}

// Category 카테고리 목록 페이지입니다.
type Category struct {
	TermID   int64     `json:"term_id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
