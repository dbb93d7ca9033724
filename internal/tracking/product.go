package tracking

import (
	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/host"
	"github.com/darkkaiser/kepixel-server/pkg/strutil"
)

// ProductViewed 상품 상세 페이지의 "Product Viewed" 이벤트를 생성합니다. pageURL이 비어있으면 상품 고유주소를 사용합니다.
func (b *Builder) ProductViewed(p *host.Product, pageURL string) (analytics.Event, bool) {
	if p == nil {
		return analytics.Event{}, false
	}

	currency := b.Currency("")
	item := analytics.Properties{
		"product_id": idString(p.ID),
		"sku":        p.SKU,
		"category":   p.CategoryNames(),
		"name":       p.Name,
		"price":      money(p.Price),
		"quantity":   1,
		"currency":   currency,
		"position":   1,
		"url":        strutil.FirstNonEmpty(pageURL, p.Permalink),
		"image_url":  p.ImageURL,
	}

	props := clone(item)
	props["content_type"] = ContentTypeProduct
	props["content_id"] = item["product_id"]
	props["products"] = []analytics.Properties{item}

	return analytics.Event{Name: EventProductViewed, Properties: props}, true
}

// listItem 목록 이벤트(카테고리, 장바구니, 결제, 주문)의 상품 항목을 생성합니다.
func listItem(p *host.Product, name string, price float64, quantity, position int) analytics.Properties {
	if p == nil {
		p = &host.Product{}
	}
	if quantity <= 0 {
		quantity = 1
	}

	return analytics.Properties{
		"product_id": idString(p.ID),
		"sku":        p.SKU,
		"name":       strutil.FirstNonEmpty(name, p.Name),
		"price":      price,
		"quantity":   quantity,
		"position":   position,
		"category":   p.CategoryNames(),
		"url":        p.Permalink,
		"image_url":  p.ImageURL,
	}
}

// lineItems 장바구니 줄을 상품 항목 목록으로 변환합니다. 상품 정보가 없는 줄은 건너뜁니다.
func lineItems(items []host.LineItem) []analytics.Properties {
	products := make([]analytics.Properties, 0, len(items))
	for _, li := range items {
		if li.Product == nil {
			continue
		}
		products = append(products, listItem(li.Product, "", money(li.Product.Price), li.Quantity, len(products)+1))
	}
	return products
}
