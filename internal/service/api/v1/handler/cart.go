package handler

import (
	"errors"
	"net/http"

	"github.com/darkkaiser/kepixel-server/internal/host"
	"github.com/darkkaiser/kepixel-server/internal/nonce"
	"github.com/darkkaiser/kepixel-server/internal/service/api/v1/model/request"
	"github.com/darkkaiser/kepixel-server/internal/service/api/v1/model/response"
	"github.com/darkkaiser/kepixel-server/internal/store"
	"github.com/darkkaiser/kepixel-server/internal/tracking"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/darkkaiser/kepixel-server/pkg/maputil"
	"github.com/labstack/echo/v4"
)

// ProductDataHandler godoc
// @Summary 장바구니 담기 상품 정보 조회
// @Description 브라우저 스크립트가 장바구니 담기 버튼 클릭 시 호출하여 "Product Added" 이벤트에 사용할 상품 정보를 받습니다.
// @Description
// @Description API 키 대신 렌더링 시 발급된 nonce로 요청을 검증합니다.
// @Description 옵션 상품 ID(variation_id)가 0이 아니면 옵션 상품을 조회합니다.
// @Description 실패 시 success가 false이고 data.message에 사유가 담깁니다.
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body request.ProductDataRequest true "조회 요청"
// @Success 200 {object} response.AjaxResponse "상품 정보"
// @Failure 400 {object} response.AjaxResponse "잘못된 요청 또는 쇼핑몰 플러그인 비활성화"
// @Failure 403 {object} response.AjaxResponse "유효하지 않은 nonce 또는 미등록 사이트"
// @Failure 404 {object} response.AjaxResponse "상품 없음"
// @Router /api/v1/cart/product-data [post]
func (h *Handler) ProductDataHandler(c echo.Context) error {
	// 브라우저 스크립트는 숫자 값을 문자열("42")로 보내기도 하므로 느슨한 타입 변환으로 디코딩한다.
	var payload map[string]any
	if err := c.Bind(&payload); err != nil {
		return h.ajaxError(c, http.StatusBadRequest, msgInvalidRequest, err)
	}
	req, err := maputil.Decode[request.ProductDataRequest](payload)
	if err != nil {
		return h.ajaxError(c, http.StatusBadRequest, msgInvalidRequest, err)
	}
	if err := ValidateRequest(req); err != nil {
		return h.ajaxError(c, http.StatusBadRequest, FormatValidationError(err), nil)
	}

	site, ok := h.authenticator.Site(req.SiteID)
	if !ok {
		return h.ajaxError(c, http.StatusForbidden, msgInvalidSite, nil)
	}

	if err := h.nonces.Verify(req.Nonce, nonce.ActionAddToCart, site.ID, req.SessionID); err != nil {
		return h.ajaxError(c, http.StatusForbidden, msgInvalidNonce, err)
	}

	ctx := c.Request().Context()

	// 카탈로그를 한 번도 전송하지 않은 사이트는 쇼핑몰 플러그인이 비활성화된 것으로 본다.
	state, err := h.catalog.State(ctx, site.ID)
	if err != nil {
		return h.ajaxError(c, http.StatusServiceUnavailable, msgProductLookupFailure, err)
	}
	if !state.Synced() {
		return h.ajaxError(c, http.StatusBadRequest, msgWooCommerceInactive, nil)
	}

	product, err := h.catalog.Product(ctx, site.ID, req.LookupID())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return h.ajaxError(c, http.StatusNotFound, msgProductNotFound, nil)
		}
		return h.ajaxError(c, http.StatusServiceUnavailable, msgProductLookupFailure, err)
	}

	payload := h.builder(site, host.Site{WooCommerce: true}).AddToCartPayload(product, req.Quantity, tracking.CartContext{
		CartID:        req.CartID,
		Coupon:        req.Coupon,
		ContentsCount: req.ContentsCount,
	})

	return c.JSON(http.StatusOK, response.AjaxResponse{Success: true, Data: payload})
}

// ajaxError 브라우저 스크립트가 해석할 수 있는 실패 응답을 반환합니다.
func (h *Handler) ajaxError(c echo.Context, status int, message string, cause error) error {
	fields := applog.Fields{
		"status":    status,
		"remote_ip": c.RealIP(),
	}
	if cause != nil {
		fields["error"] = cause
	}
	h.log(c).WithFields(fields).Warn("장바구니 상품 조회 실패: " + message)

	return c.JSON(status, response.AjaxResponse{
		Success: false,
		Data:    response.AjaxError{Message: message},
	})
}
