package handler

import (
	"net/http"

	"github.com/darkkaiser/kepixel-server/internal/render"
	"github.com/darkkaiser/kepixel-server/internal/service/api/auth"
	"github.com/darkkaiser/kepixel-server/internal/service/api/v1/model/request"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// RenderHandler godoc
// @Summary 페이지 추적 스크립트 렌더링
// @Description 호스트가 페이지를 출력하기 전에 호출하여 <head>, <body> 시작, 푸터에 삽입할 추적 스크립트를 받습니다.
// @Description
// @Description 사이트의 추적이 비활성화되어 있으면 빈 스크립트를 반환합니다.
// @Description 응답의 cookies는 호스트가 방문자에게 그대로 설정해야 하는 쿠키입니다. (회원가입 쿠키 제거 등)
// @Description
// @Description ## 사용 예시
// @Description ```bash
// @Description curl -X POST "http://localhost:2443/api/v1/render" \
// @Description   -H "Content-Type: application/json" \
// @Description   -H "X-Site-Id: my-shop" -H "X-Api-Key: your-api-key" \
// @Description   -d '{"site":{"woocommerce":true},"visitor":{"session_id":"abc"},"page":{"type":"shop","url":"https://example.com/shop"}}'
// @Description ```
// @Tags Tracking
// @Accept json
// @Produce json
// @Param X-Site-Id header string false "사이트 ID" example(my-shop)
// @Param X-Api-Key header string true "사이트 API 키"
// @Param request body request.RenderRequest true "렌더링 요청"
// @Success 200 {object} render.Output "추적 스크립트"
// @Failure 400 {object} response.ErrorResponse "잘못된 요청"
// @Failure 401 {object} response.ErrorResponse "인증 실패"
// @Failure 500 {object} response.ErrorResponse "서버 내부 오류"
// @Security ApiKeyAuth
// @Router /api/v1/render [post]
func (h *Handler) RenderHandler(c echo.Context) error {
	site := auth.MustGetSite(c)

	req := new(request.RenderRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	if err := checkSiteID(req.SiteID, site); err != nil {
		return err
	}

	settings := render.Settings{
		SiteID:    site.ID,
		WriteKey:  site.WriteKey,
		LoaderURL: h.tracking.LoaderURL,
		Enabled:   site.TrackingEnabled(),
		AjaxURL:   h.ajaxURL(c),
	}

	out, err := h.renderer.Render(c.Request().Context(), settings, render.Request{
		Site:    h.hostSite(site, req.Site),
		Visitor: req.Visitor,
		Page:    req.Page,
	})
	if err != nil {
		h.log(c).WithFields(applog.Fields{
			"site_id":   site.ID,
			"page_type": req.Page.Type,
			"error":     err,
		}).Error("추적 스크립트 렌더링 실패")

		return NewErrRenderFailed()
	}

	h.log(c).WithFields(applog.Fields{
		"site_id":   site.ID,
		"page_type": req.Page.Type,
		"calls":     len(out.Calls),
	}).Debug("추적 스크립트 렌더링 완료")

	return c.JSON(http.StatusOK, out)
}
