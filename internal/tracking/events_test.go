package tracking

import (
	"testing"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/host"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProduct(id int64, price string) host.Product {
	return host.Product{
		ID:         id,
		SKU:        "SKU-" + idString(id),
		Name:       "Product " + idString(id),
		Price:      decimal.RequireFromString(price),
		Permalink:  "https://shop.test/p/" + idString(id),
		ImageURL:   "https://shop.test/img/" + idString(id) + ".jpg",
		Categories: []string{"Shoes", "Sale"},
	}
}

func TestBuilder_Currency(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "EUR", newTestBuilder(host.Site{}).Currency("eur"))
	assert.Equal(t, "KRW", newTestBuilder(host.Site{Currency: "KRW"}).Currency(""))
	assert.Equal(t, "KRW", newTestBuilder(host.Site{Currency: "KRW"}).Currency("???"))
	assert.Equal(t, "USD", newTestBuilder(host.Site{}).Currency(""))
}

func TestContentOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		products []analytics.Properties
		wantType string
		wantID   any
	}{
		{"성공: 상품 없음", nil, "product", ""},
		{"성공: ID 없는 상품만 존재", []analytics.Properties{{"product_id": ""}}, "product", ""},
		{"성공: 상품 1개", []analytics.Properties{{"product_id": "10"}}, "product", "10"},
		{"성공: 상품 여러 개", []analytics.Properties{{"product_id": "10"}, {"product_id": "11"}}, "product_group", []string{"10", "11"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotType, gotID := contentOf(tt.products)
			assert.Equal(t, tt.wantType, gotType)
			assert.Equal(t, tt.wantID, gotID)
		})
	}
}

func TestBuilder_ProductViewed(t *testing.T) {
	t.Parallel()

	t.Run("성공: 상품 상세", func(t *testing.T) {
		t.Parallel()

		p := sampleProduct(10, "19.90")
		event, ok := newTestBuilder(host.Site{Currency: "KRW"}).ProductViewed(&p, "https://shop.test/p/10?utm=x")
		require.True(t, ok)

		assert.Equal(t, EventProductViewed, event.Name)
		props := event.Properties
		assert.Equal(t, "10", props["product_id"])
		assert.Equal(t, "product", props["content_type"])
		assert.Equal(t, "10", props["content_id"])
		assert.Equal(t, "Shoes, Sale", props["category"])
		assert.Equal(t, 19.9, props["price"])
		assert.Equal(t, 1, props["quantity"])
		assert.Equal(t, 1, props["position"])
		assert.Equal(t, "KRW", props["currency"])
		assert.Equal(t, "https://shop.test/p/10?utm=x", props["url"])

		products := props["products"].([]analytics.Properties)
		require.Len(t, products, 1)
		assert.Equal(t, "KRW", products[0]["currency"])
		assert.NotContains(t, products[0], "products")
	})

	t.Run("성공: 페이지 주소가 없으면 상품 주소 사용", func(t *testing.T) {
		t.Parallel()

		p := sampleProduct(10, "0")
		event, _ := newTestBuilder(host.Site{}).ProductViewed(&p, "")
		assert.Equal(t, "https://shop.test/p/10", event.Properties["url"])
		assert.Equal(t, "USD", event.Properties["currency"])
	})

	t.Run("실패: 상품 없음", func(t *testing.T) {
		t.Parallel()

		_, ok := newTestBuilder(host.Site{}).ProductViewed(nil, "")
		assert.False(t, ok)
	})
}

func TestBuilder_ProductListViewed(t *testing.T) {
	t.Parallel()

	t.Run("성공: 카테고리 목록", func(t *testing.T) {
		t.Parallel()

		c := &host.Category{TermID: 15, Products: []host.Product{sampleProduct(1, "10"), sampleProduct(2, "20")}}
		event, ok := newTestBuilder(host.Site{}).ProductListViewed(c)
		require.True(t, ok)

		props := event.Properties
		assert.Equal(t, "category_15", props["list_id"])
		assert.Equal(t, "Category", props["category"])
		assert.Equal(t, "product_group", props["content_type"])
		assert.Equal(t, []string{"1", "2"}, props["content_id"])

		products := props["products"].([]analytics.Properties)
		require.Len(t, products, 2)
		assert.Equal(t, 2, products[1]["position"])
		assert.Equal(t, 1, products[1]["quantity"])
		assert.Equal(t, 20.0, products[1]["price"])
	})

	t.Run("성공: 빈 카테고리는 생략", func(t *testing.T) {
		t.Parallel()

		_, ok := newTestBuilder(host.Site{}).ProductListViewed(&host.Category{TermID: 1, Name: "Empty"})
		assert.False(t, ok)
	})
}

func TestBuilder_CartViewed(t *testing.T) {
	t.Parallel()

	p := sampleProduct(5, "12.5")
	cart := &host.Cart{Items: []host.LineItem{{Product: &p, Quantity: 3}, {Product: nil, Quantity: 1}}}

	t.Run("성공: 비로그인 방문자", func(t *testing.T) {
		t.Parallel()

		event, ok := newTestBuilder(host.Site{}).CartViewed(host.Visitor{SessionID: "abc"}, cart)
		require.True(t, ok)

		props := event.Properties
		assert.Equal(t, "cart_guest_abc_1772355600", props["cart_id"])
		assert.Equal(t, "product", props["content_type"])
		assert.Equal(t, "5", props["content_id"])

		products := props["products"].([]analytics.Properties)
		require.Len(t, products, 1)
		assert.Equal(t, 3, products[0]["quantity"])
	})

	t.Run("성공: 로그인 사용자", func(t *testing.T) {
		t.Parallel()

		event, _ := newTestBuilder(host.Site{}).CartViewed(host.Visitor{User: &host.User{ID: 8}}, cart)
		assert.Equal(t, "cart_user_8_1772355600", event.Properties["cart_id"])
	})

	t.Run("성공: 빈 장바구니는 생략", func(t *testing.T) {
		t.Parallel()

		_, ok := newTestBuilder(host.Site{}).CartViewed(host.Visitor{}, &host.Cart{})
		assert.False(t, ok)
	})
}

func TestBuilder_Checkout(t *testing.T) {
	t.Parallel()

	t.Run("성공: 상품이 있는 결제", func(t *testing.T) {
		t.Parallel()

		p1, p2 := sampleProduct(1, "10"), sampleProduct(2, "5")
		cart := &host.Cart{
			Items:    []host.LineItem{{Product: &p1, Quantity: 1}, {Product: &p2, Quantity: 2}},
			Total:    decimal.RequireFromString("23.00"),
			Shipping: decimal.RequireFromString("3"),
			Tax:      decimal.RequireFromString("1.5"),
			Discount: decimal.RequireFromString("2"),
			Coupons:  []string{"WELCOME", "EXTRA"},
		}

		events := newTestBuilder(host.Site{Name: "My Shop"}).Checkout(host.Visitor{User: &host.User{ID: 4}}, cart)
		require.Len(t, events, 3)

		step := events[0]
		assert.Equal(t, EventCheckoutStepViewed, step.Name)
		assert.Equal(t, "checkout_user_4_1772355600", step.Properties["checkout_id"])
		assert.Equal(t, "checkout_user_4_1772355600", step.Properties["content_id"])
		assert.Equal(t, "checkout", step.Properties["content_type"])
		assert.Equal(t, "Standard", step.Properties["shipping_method"])
		assert.Equal(t, "Unknown", step.Properties["payment_method"])
		assert.Equal(t, 1, step.Properties["step"])

		started := events[1]
		assert.Equal(t, EventCheckoutStarted, started.Name)
		assert.Equal(t, "temp_order_1772355600_1234", started.Properties["order_id"])
		assert.Equal(t, "My Shop", started.Properties["affiliation"])
		assert.Equal(t, 23.0, started.Properties["value"])
		assert.Equal(t, 23.0, started.Properties["revenue"])
		assert.Equal(t, 1.5, started.Properties["tax"])
		assert.Equal(t, "WELCOME", started.Properties["coupon"])
		assert.Equal(t, "product_group", started.Properties["content_type"])

		assert.Equal(t, EventBeginCheckout, events[2].Name)
		assert.Equal(t, started.Properties, events[2].Properties)
	})

	t.Run("성공: 빈 장바구니는 단계 조회만 생성", func(t *testing.T) {
		t.Parallel()

		events := newTestBuilder(host.Site{}).Checkout(host.Visitor{SessionID: "s"}, nil)
		require.Len(t, events, 1)
		assert.Equal(t, EventCheckoutStepViewed, events[0].Name)
		assert.Equal(t, "checkout_guest_s_1772355600", events[0].Properties["checkout_id"])
		assert.Empty(t, events[0].Properties["products"])
	})
}

func TestBuilder_OrderReceived(t *testing.T) {
	t.Parallel()

	t.Run("성공: 주문 완료", func(t *testing.T) {
		t.Parallel()

		p := sampleProduct(3, "10")
		order := &host.Order{
			ID:                 1001,
			Items:              []host.LineItem{{Product: &p, Name: "Line Name", Quantity: 4, Subtotal: decimal.RequireFromString("36")}},
			Total:              decimal.RequireFromString("40"),
			Subtotal:           decimal.RequireFromString("36"),
			Coupons:            []string{"SPRING"},
			Currency:           "eur",
			ShippingMethods:    []string{"Express"},
			PaymentMethodTitle: "Card",
		}

		events := newTestBuilder(host.Site{}).OrderReceived(order)
		require.Len(t, events, 2)

		completed := events[0]
		assert.Equal(t, EventOrderCompleted, completed.Name)
		assert.Equal(t, "checkout_1001_1772355600", completed.Properties["checkout_id"])
		assert.Equal(t, "1001", completed.Properties["order_id"])
		assert.Equal(t, "Online Store", completed.Properties["affiliation"])
		assert.Equal(t, 40.0, completed.Properties["revenue"])
		assert.Equal(t, "SPRING", completed.Properties["coupon"])
		assert.Equal(t, "EUR", completed.Properties["currency"])

		products := completed.Properties["products"].([]analytics.Properties)
		require.Len(t, products, 1)
		assert.Equal(t, "Line Name", products[0]["name"])
		assert.Equal(t, 9.0, products[0]["price"])

		step := events[1]
		assert.Equal(t, EventCheckoutStepCompleted, step.Name)
		assert.Equal(t, "Express", step.Properties["shipping_method"])
		assert.Equal(t, "Card", step.Properties["payment_method"])
	})

	t.Run("성공: 상품 없는 주문은 단계 완료만 생성", func(t *testing.T) {
		t.Parallel()

		events := newTestBuilder(host.Site{}).OrderReceived(&host.Order{ID: 5, Items: []host.LineItem{{Quantity: 0}}})
		require.Len(t, events, 1)
		assert.Equal(t, EventCheckoutStepCompleted, events[0].Name)
		assert.Equal(t, "Standard", events[0].Properties["shipping_method"])
		assert.Equal(t, "Unknown", events[0].Properties["payment_method"])
	})

	t.Run("성공: 수량 0인 줄의 단가는 0", func(t *testing.T) {
		t.Parallel()

		p := sampleProduct(3, "10")
		events := newTestBuilder(host.Site{}).OrderReceived(&host.Order{ID: 6, Items: []host.LineItem{{Product: &p, Subtotal: decimal.RequireFromString("10")}}})
		products := events[0].Properties["products"].([]analytics.Properties)
		assert.Equal(t, 0.0, products[0]["price"])
		assert.Equal(t, 1, products[0]["quantity"])
	})
}

func TestBuilder_AddToCartPayload(t *testing.T) {
	t.Parallel()

	p := sampleProduct(21, "30")
	p.Type = host.ProductTypeVariation
	p.Brands = []string{"Acme", "Other"}
	p.VariationAttributes = []host.Attribute{{Name: "color", Value: "Red"}, {Name: "size", Value: "L"}}

	payload := newTestBuilder(host.Site{}).AddToCartPayload(&p, 0, CartContext{CartID: "cart_guest_x_1", Coupon: "TEN", ContentsCount: 2})

	assert.Equal(t, "cart_guest_x_1", payload["cart_id"])
	assert.Equal(t, "21", payload["content_id"])
	assert.Equal(t, "product", payload["content_type"])
	assert.Equal(t, "Acme", payload["brand"])
	assert.Equal(t, "Red, L", payload["variant"])
	assert.Equal(t, 1, payload["quantity"])
	assert.Equal(t, 3, payload["position"])
	assert.Equal(t, "TEN", payload["coupon"])

	products := payload["products"].([]analytics.Properties)
	require.Len(t, products, 1)
	assert.NotContains(t, products[0], "cart_id")
	assert.Equal(t, 30.0, products[0]["price"])
}

func TestBuilder_ProductsSearched(t *testing.T) {
	t.Parallel()

	event, ok := newTestBuilder(host.Site{}).ProductsSearched("  red shoes ")
	require.True(t, ok)
	assert.Equal(t, analytics.Properties{"query": "red shoes", "content_type": "search", "content_id": "red shoes"}, event.Properties)
}

func TestBuilder_CompleteRegistration(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(host.Site{})

	event, ok := b.CompleteRegistration(host.Visitor{Cookies: map[string]string{RegistrationCookie: "1"}})
	require.True(t, ok)
	assert.Equal(t, EventCompleteRegistration, event.Name)
	assert.Empty(t, event.Properties)

	_, ok = b.CompleteRegistration(host.Visitor{Cookies: map[string]string{RegistrationCookie: "0"}})
	assert.False(t, ok)

	set := b.RegistrationCookieSet()
	assert.Equal(t, "1", set.Value)
	assert.Equal(t, "/", set.Path)
	assert.Equal(t, 3600, set.MaxAge)

	cleared := b.RegistrationCookieClear()
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.Expires.Before(fixedNow))
}

func TestBuilder_FormSubmitted(t *testing.T) {
	t.Parallel()

	event := newTestBuilder(host.Site{}).FormSubmitted(FormSubmission{
		FormID: "12",
		Fields: map[string]string{"your-name": "Kim", "_wpcf7": "12", "empty": ""},
	})

	assert.Equal(t, EventFormSubmitted, event.Name)
	assert.Equal(t, "submitted", event.Properties["status"])
	assert.Equal(t, "wpcf7", event.Properties["form_label"])
	assert.Equal(t, map[string]any{"your-name": "Kim"}, event.Properties["fields"])
}
