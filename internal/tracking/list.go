package tracking

import (
	"strconv"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/host"
	"github.com/darkkaiser/kepixel-server/pkg/strutil"
)

// ProductListViewed 카테고리 페이지의 "Product List Viewed" 이벤트를 생성합니다. 상품이 없으면 생략합니다.
func (b *Builder) ProductListViewed(c *host.Category) (analytics.Event, bool) {
	if c == nil || len(c.Products) == 0 {
		return analytics.Event{}, false
	}

	products := make([]analytics.Properties, 0, len(c.Products))
	for i := range c.Products {
		p := &c.Products[i]
		products = append(products, listItem(p, "", money(p.Price), 1, i+1))
	}

	props := withContent(analytics.Properties{
		"list_id":  "category_" + strconv.FormatInt(c.TermID, 10),
		"category": strutil.FirstNonEmpty(c.Name, "Category"),
		"currency": b.Currency(""),
	}, products)

	return analytics.Event{Name: EventProductListViewed, Properties: props}, true
}

// CartViewed 장바구니 페이지의 "Cart Viewed" 이벤트를 생성합니다. 장바구니가 비어있으면 생략합니다.
func (b *Builder) CartViewed(visitor host.Visitor, cart *host.Cart) (analytics.Event, bool) {
	if cart == nil {
		return analytics.Event{}, false
	}

	products := lineItems(cart.Items)
	if len(products) == 0 {
		return analytics.Event{}, false
	}

	props := withContent(analytics.Properties{
		"cart_id":  b.CartID(visitor),
		"currency": b.Currency(""),
	}, products)

	return analytics.Event{Name: EventCartViewed, Properties: props}, true
}
