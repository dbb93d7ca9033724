// Package render 호스트가 전달한 페이지 상태로부터 <head>, 본문, 푸터에 삽입할 추적 스크립트를 생성합니다.
package render

import (
	"context"
	"embed"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/host"
	"github.com/darkkaiser/kepixel-server/internal/nonce"
	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/darkkaiser/kepixel-server/internal/tracking"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
)

// component 렌더러 로깅용 컴포넌트 이름
const component = "render"

//go:embed assets/*.js
var assets embed.FS

// Settings 사이트별 렌더링 설정입니다.
type Settings struct {
	SiteID    string
	WriteKey  string
	LoaderURL string

	// Enabled 추적 활성화 여부입니다. false이면 어떤 스크립트도 출력하지 않습니다.
	Enabled bool

	// AjaxURL 브라우저가 장바구니 상품 정보를 조회할 API 주소입니다.
	AjaxURL string
}

// Request 렌더링 요청입니다.
type Request struct {
	Site    host.Site    `json:"site"`
	Visitor host.Visitor `json:"visitor"`
	Page    host.Page    `json:"page"`
}

// Cookie 호스트가 방문자에게 설정(또는 만료)해야 하는 쿠키입니다.
type Cookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path"`
	Expires time.Time `json:"expires"`
	MaxAge  int       `json:"max_age"`
}

// NewCookie http.Cookie를 응답용 Cookie로 변환합니다.
func NewCookie(c *http.Cookie) Cookie {
	return Cookie{
		Name:    c.Name,
		Value:   c.Value,
		Path:    c.Path,
		Expires: c.Expires.UTC(),
		MaxAge:  c.MaxAge,
	}
}

// Output 렌더링 결과입니다. 호스트는 각 블록을 해당 위치에 그대로 출력합니다.
type Output struct {
	Head   string `json:"head"`
	Body   string `json:"body"`
	Footer string `json:"footer"`

	Cookies []Cookie `json:"cookies,omitempty"`

	// Calls 생성된 스크립트에 포함된 추적 호출 목록입니다.
	Calls []analytics.Call `json:"calls,omitempty"`
}

// Renderer 추적 스크립트를 생성합니다. 여러 고루틴에서 동시에 사용해도 안전합니다.
type Renderer struct {
	nonces *nonce.Manager

	now       func() time.Time
	newID     func() string
	observers []func(analytics.Call)

	builderOpts []tracking.Option
}

// Option Renderer 생성 옵션입니다.
type Option func(*Renderer)

// WithClock 호출 시각과 식별자에 사용할 시계를 지정합니다.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
		r.builderOpts = append(r.builderOpts, tracking.WithClock(now))
	}
}

// WithIDGenerator 호출의 MessageID 생성 함수를 지정합니다.
func WithIDGenerator(newID func() string) Option {
	return func(r *Renderer) { r.newID = newID }
}

// WithRand 임시 주문번호의 난수 생성 함수를 지정합니다.
func WithRand(fn func(n int) int) Option {
	return func(r *Renderer) { r.builderOpts = append(r.builderOpts, tracking.WithRand(fn)) }
}

// WithObserver 스크립트에 포함된 호출마다 실행될 함수를 등록합니다.
func WithObserver(fn func(analytics.Call)) Option {
	return func(r *Renderer) { r.observers = append(r.observers, fn) }
}

// New 새로운 Renderer를 생성합니다. nonces가 nil이면 장바구니 담기 추적 스크립트를 출력하지 않습니다.
func New(nonces *nonce.Manager, opts ...Option) *Renderer {
	r := &Renderer{
		nonces: nonces,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render 요청된 페이지의 추적 스크립트를 생성합니다.
//
// 로더와 identify, page 호출은 쓰기 키가 있어야 출력되며, 나머지 스크립트는 추적이 활성화되어 있으면 출력됩니다.
// 개별 이벤트 생성에 실패하면 해당 스크립트만 생략하고 나머지는 계속 출력합니다.
// 요청이 취소되었거나 시간이 초과된 경우에만 에러를 반환합니다.
func (r *Renderer) Render(ctx context.Context, s Settings, req Request) (Output, error) {
	var out Output
	if !s.Enabled {
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		return out, apperrors.Wrap(err, apperrors.Timeout, "추적 스크립트 렌더링 전에 요청이 취소되었습니다")
	}

	p := &pass{
		renderer: r,
		ctx:      ctx,
		settings: s,
		req:      req,
		builder:  tracking.NewBuilder(req.Site, r.builderOpts...),
		out:      &out,
	}

	var head, body, footer strings.Builder

	head.WriteString(p.mainScript())
	head.WriteString(analytics.ScriptTag(asset("analytics.js"), false))
	head.WriteString(analytics.ScriptTag(asset("whatsapp_head.js"), false))
	head.WriteString(p.addToCartHead())
	head.WriteString(analytics.ScriptTag(asset("forms.js"), false))
	head.WriteString(p.pageEvents())

	body.WriteString(p.orderReceived())
	body.WriteString(p.donationReceipt())
	body.WriteString(p.donationFormViews())

	footer.WriteString(analytics.ScriptTag(asset("whatsapp_footer.js"), false))
	footer.WriteString(p.addToCartFooter())
	footer.WriteString(p.giveWPFooter())

	// 렌더링 도중 취소된 요청은 일부 호출이 빠졌을 수 있으므로 결과를 버린다.
	if err := ctx.Err(); err != nil {
		return Output{}, apperrors.Wrap(err, apperrors.Timeout, "추적 스크립트 렌더링 중 요청이 취소되었습니다")
	}

	out.Head = head.String()
	out.Body = body.String()
	out.Footer = footer.String()

	return out, nil
}

// pass 한 번의 렌더링 상태입니다.
type pass struct {
	renderer *Renderer
	ctx      context.Context
	settings Settings
	req      Request
	builder  *tracking.Builder
	out      *Output
}

// client 호출을 buf에 쌓고, 전송된 호출을 결과와 관찰자에게 전달하는 Client를 생성합니다.
func (p *pass) client(buf *analytics.ScriptBuffer) *analytics.Client {
	opts := []analytics.Option{
		analytics.WithClock(p.renderer.now),
		analytics.WithObserver(func(call analytics.Call) {
			p.out.Calls = append(p.out.Calls, call)
		}),
	}
	if p.renderer.newID != nil {
		opts = append(opts, analytics.WithIDGenerator(p.renderer.newID))
	}
	for _, fn := range p.renderer.observers {
		opts = append(opts, analytics.WithObserver(fn))
	}

	return analytics.NewClient(buf, opts...)
}

func (p *pass) warn(err error, message string) {
	applog.WithComponentAndFields(component, applog.Fields{
		"site_id":   p.settings.SiteID,
		"page_type": p.req.Page.Type,
		"error":     err,
	}).Warn(message)
}

// flush buf를 렌더링합니다. 실패하면 빈 문자열을 반환합니다.
func (p *pass) flush(buf *analytics.ScriptBuffer) string {
	script, err := buf.Render()
	if err != nil {
		p.warn(err, "추적 스크립트 렌더링에 실패하여 해당 스크립트를 생략합니다")
		return ""
	}
	return script
}

// mainScript 로더 태그와 identify(로그인 사용자), page 호출을 생성합니다.
func (p *pass) mainScript() string {
	loader := analytics.Loader(p.settings.WriteKey, p.settings.LoaderURL)
	if loader == "" {
		return ""
	}

	buf := analytics.NewScriptBuffer(false)
	client := p.client(buf)

	if identity, ok := p.builder.Identify(p.req.Visitor); ok {
		if err := client.Identify(p.ctx, identity.UserID, identity.Traits, analytics.CallOptions{}); err != nil {
			p.warn(err, "identify 호출 생성에 실패했습니다")
		}
	}
	if err := client.Page(p.ctx); err != nil {
		p.warn(err, "page 호출 생성에 실패했습니다")
	}

	return loader + p.flush(buf)
}

// addToCartHead 장바구니 담기 버튼이 노출되는 쇼핑몰 페이지에 조회용 데이터 객체와 추적 함수를 출력합니다.
func (p *pass) addToCartHead() string {
	if !p.showsAddToCart() {
		return ""
	}

	cart := p.req.Page.Cart
	contentsCount := 0
	if cart != nil {
		contentsCount = cart.ContentsCount
	}

	data, err := json.Marshal(map[string]any{
		"cartId":        p.builder.CartID(p.req.Visitor),
		"currency":      p.builder.Currency(""),
		"ajaxUrl":       p.settings.AjaxURL,
		"nonce":         p.renderer.nonces.Create(nonce.ActionAddToCart, p.settings.SiteID, p.req.Visitor.SessionID),
		"siteId":        p.settings.SiteID,
		"sessionId":     p.req.Visitor.SessionID,
		"coupon":        cart.FirstCoupon(),
		"contentsCount": contentsCount,
	})
	if err != nil {
		p.warn(err, "장바구니 담기 데이터 생성에 실패했습니다")
		return ""
	}

	return analytics.ScriptTag("window.wpKepixelAddToCartData = "+string(data)+";\n", false) +
		analytics.ScriptTag(asset("addtocart_head.js"), false)
}

func (p *pass) addToCartFooter() string {
	if !p.showsAddToCart() {
		return ""
	}
	return analytics.ScriptTag(asset("addtocart_footer.js"), false)
}

func (p *pass) showsAddToCart() bool {
	return p.renderer.nonces != nil && p.req.Site.WooCommerce && p.req.Page.Type.ShowsAddToCart()
}

// pageEvents 페이지 종류별 이벤트를 <head>에 출력할 순서대로 생성합니다.
// 각 이벤트는 별도의 스크립트 블록이며, DOMContentLoaded 이후에 실행됩니다.
func (p *pass) pageEvents() string {
	page := p.req.Page

	var sb strings.Builder
	emit := func(events ...analytics.Event) {
		if len(events) == 0 {
			return
		}
		buf := analytics.NewScriptBuffer(true)
		client := p.client(buf)
		for _, e := range events {
			if err := client.TrackEvent(p.ctx, e); err != nil {
				p.warn(err, "이벤트 호출 생성에 실패했습니다")
			}
		}
		sb.WriteString(p.flush(buf))
	}

	if page.Type == host.PageSearch {
		if e, ok := p.builder.ProductsSearched(page.SearchQuery); ok {
			emit(e)
		}
	}

	if e, ok := p.builder.CompleteRegistration(p.req.Visitor); ok {
		emit(e)
		p.out.Cookies = append(p.out.Cookies, NewCookie(p.builder.RegistrationCookieClear()))
	}

	if !p.req.Site.WooCommerce {
		return sb.String()
	}

	switch page.Type {
	case host.PageCheckout:
		emit(p.builder.Checkout(p.req.Visitor, page.Cart)...)
	case host.PageCart:
		if e, ok := p.builder.CartViewed(p.req.Visitor, page.Cart); ok {
			emit(e)
		}
	case host.PageProduct:
		if e, ok := p.builder.ProductViewed(page.Product, page.URL); ok {
			emit(e)
		}
	case host.PageCategory:
		if e, ok := p.builder.ProductListViewed(page.Category); ok {
			emit(e)
		}
	}

	return sb.String()
}

// orderReceived 주문 완료 페이지 본문에 주문 완료 이벤트를 출력합니다.
func (p *pass) orderReceived() string {
	if !p.req.Site.WooCommerce || p.req.Page.Type != host.PageOrderReceived {
		return ""
	}

	events := p.builder.OrderReceived(p.req.Page.Order)
	if len(events) == 0 {
		return ""
	}

	buf := analytics.NewScriptBuffer(true)
	client := p.client(buf)
	for _, e := range events {
		if err := client.TrackEvent(p.ctx, e); err != nil {
			p.warn(err, "주문 완료 이벤트 호출 생성에 실패했습니다")
		}
	}
	return p.flush(buf)
}

// donationReceipt 후원 영수증 페이지 본문에 후원 완료 이벤트와 후원자 identify를 한 번만 출력합니다.
func (p *pass) donationReceipt() string {
	if !p.req.Site.GiveWP || p.req.Page.Type != host.PageDonationReceipt {
		return ""
	}

	event, donor, ok := p.builder.DonationReceipt(p.req.Page.Donation)
	if !ok {
		return ""
	}

	buf := analytics.NewScriptBuffer(true)
	client := p.client(buf)
	if err := client.TrackEvent(p.ctx, event); err != nil {
		p.warn(err, "후원 완료 이벤트 호출 생성에 실패했습니다")
	}
	if donor != nil {
		if err := client.Identify(p.ctx, donor.UserID, donor.Traits); err != nil {
			p.warn(err, "후원자 identify 호출 생성에 실패했습니다")
		}
	}
	return p.flush(buf)
}

// donationFormViews 페이지에 노출된 후원 양식마다 조회 이벤트를 한 번씩 출력합니다.
// 양식 출력 직전에 삽입되므로 DOMContentLoaded를 기다리지 않고 즉시 실행합니다.
func (p *pass) donationFormViews() string {
	if !p.req.Site.GiveWP {
		return ""
	}

	var sb strings.Builder
	seen := make(map[int64]struct{}, len(p.req.Page.DonationForms))
	for _, form := range p.req.Page.DonationForms {
		if _, dup := seen[form.ID]; dup {
			continue
		}
		seen[form.ID] = struct{}{}

		buf := analytics.NewScriptBuffer(false)
		if err := p.client(buf).TrackEvent(p.ctx, p.builder.DonationFormViewed(form)); err != nil {
			p.warn(err, "후원 양식 조회 이벤트 호출 생성에 실패했습니다")
			continue
		}

		calls := buf.Calls()
		snippet, err := analytics.Snippet(calls[0])
		if err != nil {
			p.warn(err, "후원 양식 조회 스크립트 렌더링에 실패했습니다")
			continue
		}
		sb.WriteString(analytics.ScriptTag("(function() {\n"+snippet+"})();\n", false))
	}
	return sb.String()
}

// giveWPFooter 후원 양식 제출과 후원 금액 변경을 추적하는 스크립트를 출력합니다.
func (p *pass) giveWPFooter() string {
	if !p.req.Site.GiveWP {
		return ""
	}

	data, err := json.Marshal(map[string]string{"currency": p.builder.Currency("")})
	if err != nil {
		p.warn(err, "후원 추적 데이터 생성에 실패했습니다")
		return ""
	}

	return analytics.ScriptTag("window.wpKepixelGiveData = "+string(data)+";\n", false) +
		analytics.ScriptTag(asset("givewp_footer.js"), false)
}

// asset 내장된 브라우저 스크립트를 반환합니다.
func asset(name string) string {
	data, err := assets.ReadFile("assets/" + name)
	if err != nil {
		panic("내장 스크립트를 찾을 수 없습니다: " + name)
	}
	return string(data)
}
