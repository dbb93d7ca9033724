package tracking

import (
	"strconv"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/host"
	"github.com/darkkaiser/kepixel-server/pkg/strutil"
)

const (
	defaultShippingMethod = "Standard"
	defaultPaymentMethod  = "Unknown"
)

// Checkout 결제 페이지의 이벤트를 생성합니다.
//
// "Checkout Step Viewed"는 항상 생성되며, 장바구니에 상품이 있으면
// 동일한 페이로드의 "Checkout Started"와 "Begin Checkout"이 이어집니다.
func (b *Builder) Checkout(visitor host.Visitor, cart *host.Cart) []analytics.Event {
	if cart == nil {
		cart = &host.Cart{}
	}

	checkoutID := b.visitorScopedID("checkout", visitor)
	products := lineItems(cart.Items)

	events := []analytics.Event{{
		Name: EventCheckoutStepViewed,
		Properties: analytics.Properties{
			"checkout_id":     checkoutID,
			"step":            1,
			"shipping_method": defaultShippingMethod,
			"payment_method":  defaultPaymentMethod,
			"content_type":    ContentTypeCheckout,
			"content_id":      checkoutID,
			"products":        products,
		},
	}}

	if len(products) == 0 {
		return events
	}

	total := money(cart.Total)
	started := withContent(analytics.Properties{
		"order_id":    "temp_order_" + b.unix() + "_" + strconv.Itoa(1000+b.rand(9000)),
		"affiliation": b.affiliation(DefaultAffiliation),
		"value":       total,
		"revenue":     total,
		"shipping":    money(cart.Shipping),
		"tax":         money(cart.Tax),
		"discount":    money(cart.Discount),
		"coupon":      cart.FirstCoupon(),
		"currency":    b.Currency(""),
	}, products)

	return append(events,
		analytics.Event{Name: EventCheckoutStarted, Properties: started},
		analytics.Event{Name: EventBeginCheckout, Properties: clone(started)},
	)
}

// OrderReceived 주문 완료 페이지의 이벤트를 생성합니다.
//
// 상품이 있으면 "Order Completed"를, 이어서 항상 "Checkout Step Completed"를 생성합니다.
func (b *Builder) OrderReceived(order *host.Order) []analytics.Event {
	if order == nil {
		return nil
	}

	orderID := idString(order.ID)
	checkoutID := "checkout_" + orderID + "_" + b.unix()

	products := make([]analytics.Properties, 0, len(order.Items))
	for _, li := range order.Items {
		if li.Product == nil {
			continue
		}

		var unitPrice float64
		if li.Quantity > 0 {
			unitPrice = money(li.Subtotal) / float64(li.Quantity)
		}
		products = append(products, listItem(li.Product, li.Name, unitPrice, li.Quantity, len(products)+1))
	}

	var events []analytics.Event
	if len(products) > 0 {
		total := money(order.Total)
		completed := withContent(analytics.Properties{
			"checkout_id": checkoutID,
			"order_id":    orderID,
			"affiliation": b.affiliation(DefaultAffiliation),
			"total":       total,
			"subtotal":    money(order.Subtotal),
			"revenue":     total,
			"shipping":    money(order.Shipping),
			"tax":         money(order.Tax),
			"discount":    money(order.Discount),
			"coupon":      order.FirstCoupon(),
			"currency":    b.Currency(order.Currency),
		}, products)
		events = append(events, analytics.Event{Name: EventOrderCompleted, Properties: completed})
	}

	shippingMethod := defaultShippingMethod
	if len(order.ShippingMethods) > 0 {
		shippingMethod = order.ShippingMethods[0]
	}

	events = append(events, analytics.Event{
		Name: EventCheckoutStepCompleted,
		Properties: analytics.Properties{
			"checkout_id":     checkoutID,
			"step":            1,
			"shipping_method": shippingMethod,
			"payment_method":  strutil.FirstNonEmpty(order.PaymentMethodTitle, defaultPaymentMethod),
			"content_type":    ContentTypeCheckout,
			"content_id":      checkoutID,
			"products":        products,
		},
	})

	return events
}
