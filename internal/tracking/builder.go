// Package tracking 호스트 페이지 상태로부터 kepixel 이벤트(track 이벤트, identify 속성)를 생성하는 빌더를 제공합니다.
//
// 빌더는 에러를 반환하지 않습니다. 이벤트를 만들 수 없는 상황(빈 장바구니, 미완료 후원 등)에서는
// 이벤트를 생략하며, 호스트가 전달하지 않은 값은 필드별 기본값('', 0, 1)으로 채웁니다.
package tracking

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/host"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	// DefaultCurrency 사이트와 주문 어디에도 통화가 지정되지 않았을 때 사용하는 통화입니다.
	DefaultCurrency = "USD"

	// DefaultAffiliation 사이트 이름이 없을 때 쇼핑몰 이벤트의 affiliation 값입니다.
	DefaultAffiliation = "Online Store"

	// DefaultDonationAffiliation 사이트 이름이 없을 때 후원 이벤트의 affiliation 값입니다.
	DefaultDonationAffiliation = "Donation Site"
)

// 이벤트 이름
const (
	EventProductViewed         = "Product Viewed"
	EventProductListViewed     = "Product List Viewed"
	EventProductAdded          = "Product Added"
	EventProductClicked        = "Product Clicked"
	EventProductsSearched      = "Products Searched"
	EventCartViewed            = "Cart Viewed"
	EventCheckoutStepViewed    = "Checkout Step Viewed"
	EventCheckoutStarted       = "Checkout Started"
	EventBeginCheckout         = "Begin Checkout"
	EventOrderCompleted        = "Order Completed"
	EventCheckoutStepCompleted = "Checkout Step Completed"
	EventCompleteRegistration  = "CompleteRegistration"
	EventFormSubmitted         = "Form Submitted"
	EventWhatsAppClicked       = "WhatsApp Clicked"
)

// content_type 값
const (
	ContentTypeProduct      = "product"
	ContentTypeProductGroup = "product_group"
	ContentTypeCheckout     = "checkout"
	ContentTypeSearch       = "search"
	ContentTypeDonationForm = "donation_form"
)

// Identity identify 호출의 인자입니다.
type Identity struct {
	UserID string
	Traits analytics.Traits
}

// Builder 사이트 설정을 바탕으로 이벤트를 생성합니다.
type Builder struct {
	site host.Site

	now  func() time.Time
	rand func(n int) int
}

// Option Builder 생성 옵션입니다.
type Option func(*Builder)

// WithClock 식별자(cart_id, checkout_id 등)에 포함되는 시각의 기준 시계를 지정합니다.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithRand 임시 주문번호의 난수 생성 함수를 지정합니다. 함수는 [0, n) 범위의 값을 반환해야 합니다.
func WithRand(fn func(n int) int) Option {
	return func(b *Builder) { b.rand = fn }
}

// NewBuilder 새로운 Builder를 생성합니다.
func NewBuilder(site host.Site, opts ...Option) *Builder {
	b := &Builder{
		site: site,
		now:  time.Now,
		rand: rand.IntN,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Site 빌더의 사이트 설정을 반환합니다.
func (b *Builder) Site() host.Site {
	return b.site
}

// Currency code를 ISO 4217 통화 코드로 정규화합니다.
// code가 비어있거나 올바르지 않으면 사이트 통화를, 그것도 없으면 USD를 반환합니다.
func (b *Builder) Currency(code string) string {
	for _, candidate := range []string{code, b.site.Currency} {
		if unit, err := currency.ParseISO(strings.TrimSpace(candidate)); err == nil {
			return unit.String()
		}
	}
	return DefaultCurrency
}

// affiliation 사이트 이름을 반환합니다. 이름이 없으면 fallback을 반환합니다.
func (b *Builder) affiliation(fallback string) string {
	if name := strings.TrimSpace(b.site.Name); name != "" {
		return name
	}
	return fallback
}

func (b *Builder) unix() string {
	return strconv.FormatInt(b.now().Unix(), 10)
}

// visitorScopedID 로그인 사용자는 "{prefix}_user_{id}_{t}", 비로그인 방문자는 "{prefix}_guest_{session}_{t}" 형식의 식별자를 생성합니다.
func (b *Builder) visitorScopedID(prefix string, visitor host.Visitor) string {
	if visitor.LoggedIn() {
		return prefix + "_user_" + strconv.FormatInt(visitor.User.ID, 10) + "_" + b.unix()
	}
	return prefix + "_guest_" + visitor.SessionID + "_" + b.unix()
}

// CartID 방문자의 장바구니 식별자를 생성합니다.
func (b *Builder) CartID(visitor host.Visitor) string {
	return b.visitorScopedID("cart", visitor)
}

// money 금액을 이벤트 속성에 사용할 실수 값으로 변환합니다.
func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func idString(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// contentOf 상품 목록의 content_type과 content_id를 결정합니다.
//
//   - 상품 ID가 2개 이상: "product_group", ID 목록
//   - 상품 ID가 1개: "product", 해당 ID
//   - 상품 ID가 없음: "product", ""
func contentOf(products []analytics.Properties) (string, any) {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		if id, _ := p["product_id"].(string); id != "" {
			ids = append(ids, id)
		}
	}

	switch len(ids) {
	case 0:
		return ContentTypeProduct, ""
	case 1:
		return ContentTypeProduct, ids[0]
	default:
		return ContentTypeProductGroup, ids
	}
}

// withContent props에 products와 그로부터 결정한 content_type, content_id를 추가합니다.
func withContent(props analytics.Properties, products []analytics.Properties) analytics.Properties {
	contentType, contentID := contentOf(products)
	props["products"] = products
	props["content_type"] = contentType
	props["content_id"] = contentID
	return props
}

// clone 얕은 복사본을 반환합니다. 같은 페이로드를 여러 이벤트에 사용할 때 이벤트끼리 맵을 공유하지 않도록 합니다.
func clone(props analytics.Properties) analytics.Properties {
	c := make(analytics.Properties, len(props))
	for k, v := range props {
		c[k] = v
	}
	return c
}
