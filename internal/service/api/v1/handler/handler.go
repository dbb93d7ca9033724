// Package handler v1 API의 HTTP 요청 핸들러를 제공합니다.
//
// 인증 미들웨어가 Context에 저장한 사이트 설정을 기준으로 요청을 검증하고,
// 렌더러, 카탈로그, 후원 서비스 등 도메인 컴포넌트를 호출한 결과를 응답합니다.
package handler

import (
	"strings"

	"github.com/darkkaiser/kepixel-server/internal/config"
	"github.com/darkkaiser/kepixel-server/internal/host"
	"github.com/darkkaiser/kepixel-server/internal/metrics"
	"github.com/darkkaiser/kepixel-server/internal/nonce"
	"github.com/darkkaiser/kepixel-server/internal/render"
	"github.com/darkkaiser/kepixel-server/internal/service/api/auth"
	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	"github.com/darkkaiser/kepixel-server/internal/service/donation"
	"github.com/darkkaiser/kepixel-server/internal/store"
	"github.com/darkkaiser/kepixel-server/internal/tracking"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/darkkaiser/kepixel-server/pkg/strutil"
	"github.com/labstack/echo/v4"
)

// Dependencies Handler가 사용하는 도메인 컴포넌트입니다. Metrics를 제외한 모든 항목은 필수입니다.
type Dependencies struct {
	Tracking config.TrackingConfig

	Authenticator *auth.Authenticator
	Renderer      *render.Renderer
	Nonces        *nonce.Manager
	Store         store.Store
	Donations     *donation.Service
	Metrics       *metrics.Metrics
}

// Handler v1 API 요청을 처리하고 도메인 로직을 연결하는 핸들러입니다.
type Handler struct {
	tracking config.TrackingConfig

	// authenticator 인증 헤더 없이 호출되는 장바구니 조회 요청의 사이트를 찾는 데 사용합니다.
	authenticator *auth.Authenticator

	renderer  *render.Renderer
	nonces    *nonce.Manager
	store     store.Store
	catalog   *store.Catalog
	donations *donation.Service
	metrics   *metrics.Metrics
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(deps Dependencies) *Handler {
	if deps.Authenticator == nil {
		panic(constants.PanicMsgAuthenticatorRequired)
	}
	if deps.Renderer == nil {
		panic(constants.PanicMsgRendererRequired)
	}
	if deps.Nonces == nil {
		panic(constants.PanicMsgNonceManagerRequired)
	}
	if deps.Store == nil {
		panic(constants.PanicMsgStoreRequired)
	}
	if deps.Donations == nil {
		panic(constants.PanicMsgDonationRequired)
	}

	return &Handler{
		tracking: deps.Tracking,

		authenticator: deps.Authenticator,

		renderer:  deps.Renderer,
		nonces:    deps.Nonces,
		store:     deps.Store,
		catalog:   store.NewCatalog(deps.Store),
		donations: deps.Donations,
		metrics:   deps.Metrics,
	}
}

// hostSite 사이트 설정으로 요청의 사이트 정보를 보완합니다.
// 이름은 요청, 사이트 이름, 사이트 제목 순으로, 통화는 요청, 사이트 통화, 기본 통화 순으로 사용합니다.
func (h *Handler) hostSite(site *config.SiteConfig, s host.Site) host.Site {
	s.Name = strutil.FirstNonEmpty(s.Name, site.Name, site.Title)
	s.Currency = strutil.FirstNonEmpty(s.Currency, site.Currency, h.tracking.DefaultCurrency)
	return s
}

func (h *Handler) builder(site *config.SiteConfig, s host.Site) *tracking.Builder {
	return tracking.NewBuilder(h.hostSite(site, s))
}

// ajaxURL 브라우저가 장바구니 상품 정보를 조회할 주소를 반환합니다.
// 외부 주소가 설정되지 않았으면 현재 요청의 스킴과 Host를 사용합니다.
func (h *Handler) ajaxURL(c echo.Context) string {
	base := strings.TrimRight(h.tracking.PublicURL, "/")
	if base == "" {
		base = c.Scheme() + "://" + c.Request().Host
	}
	return base + constants.APIv1Prefix + constants.PathCartProductData
}

// checkSiteID 요청 본문에 site_id가 있으면 인증된 사이트와 같은지 확인합니다.
func checkSiteID(reqSiteID string, site *config.SiteConfig) error {
	if reqSiteID != "" && reqSiteID != site.ID {
		return NewErrSiteIDMismatch(reqSiteID, site.ID)
	}
	return nil
}

// log 공통 로깅 필드가 설정된 로거 엔트리를 반환합니다.
func (h *Handler) log(c echo.Context) *applog.Entry {
	return applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint": c.Path(),
	})
}
