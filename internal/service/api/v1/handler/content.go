package handler

import (
	"net/http"

	"github.com/darkkaiser/kepixel-server/internal/markup"
	"github.com/darkkaiser/kepixel-server/internal/service/api/auth"
	"github.com/darkkaiser/kepixel-server/internal/service/api/httputil"
	"github.com/darkkaiser/kepixel-server/internal/service/api/v1/model/request"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// EnhanceContentHandler godoc
// @Summary 콘텐츠 추적 속성 추가
// @Description 게시물 HTML의 WhatsApp 링크(data-kepixel-whatsapp)와 장바구니 담기 버튼(data-kepixel-addtocart)에 추적용 속성을 추가합니다.
// @Description 이미 속성이 있는 태그는 건너뛰며, 나머지 부분은 입력과 동일하게 반환합니다.
// @Tags Content
// @Accept json
// @Produce json
// @Param X-Site-Id header string false "사이트 ID" example(my-shop)
// @Param X-Api-Key header string true "사이트 API 키"
// @Param request body request.EnhanceRequest true "콘텐츠"
// @Success 200 {object} markup.Result "속성이 추가된 HTML"
// @Failure 400 {object} response.ErrorResponse "잘못된 요청"
// @Failure 401 {object} response.ErrorResponse "인증 실패"
// @Security ApiKeyAuth
// @Router /api/v1/content/enhance [post]
func (h *Handler) EnhanceContentHandler(c echo.Context) error {
	site := auth.MustGetSite(c)

	req := new(request.EnhanceRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	if err := checkSiteID(req.SiteID, site); err != nil {
		return err
	}

	whatsApp, addToCart := req.Options()
	result, err := markup.Enhance(c.Request().Context(), req.HTML, markup.Options{WhatsApp: whatsApp, AddToCart: addToCart})
	if err != nil {
		h.log(c).WithFields(applog.Fields{
			"site_id": site.ID,
			"error":   err,
		}).Warn("콘텐츠 속성 추가 실패")

		return httputil.NewBadRequestError("콘텐츠를 처리할 수 없습니다")
	}

	h.metrics.ObserveEnhance(result.WhatsApp, result.AddToCart)

	return c.JSON(http.StatusOK, result)
}
