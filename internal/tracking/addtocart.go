package tracking

import (
	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/host"
)

// CartContext 장바구니 담기 조회 시점의 장바구니 상태입니다.
// 서버는 방문자의 장바구니를 보관하지 않으므로 렌더링 시 발급한 값을 브라우저가 다시 전달합니다.
type CartContext struct {
	CartID        string
	Coupon        string
	ContentsCount int
}

// AddToCartPayload 장바구니 담기 조회 응답 데이터를 생성합니다.
// 브라우저 스크립트는 이 데이터로 "Product Added" 이벤트를 전송합니다.
func (b *Builder) AddToCartPayload(p *host.Product, quantity int, cart CartContext) analytics.Properties {
	if quantity <= 0 {
		quantity = 1
	}
	position := max(cart.ContentsCount, 0) + 1

	item := analytics.Properties{
		"product_id": idString(p.ID),
		"sku":        p.SKU,
		"category":   p.CategoryNames(),
		"name":       p.Name,
		"brand":      p.Brand(),
		"variant":    p.Variant(),
		"price":      money(p.Price),
		"quantity":   quantity,
		"coupon":     cart.Coupon,
		"position":   position,
		"url":        p.Permalink,
		"image_url":  p.ImageURL,
	}

	payload := clone(item)
	payload["cart_id"] = cart.CartID
	payload["content_type"] = ContentTypeProduct
	payload["content_id"] = item["product_id"]
	payload["products"] = []analytics.Properties{item}

	return payload
}
