package handler

import (
	"net/http"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/darkkaiser/kepixel-server/internal/service/api/auth"
	"github.com/darkkaiser/kepixel-server/internal/service/api/v1/model/request"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// PutProductsHandler godoc
// @Summary 상품 카탈로그 동기화
// @Description 호스트의 쇼핑몰 상품 정보를 저장합니다. 같은 ID의 상품은 덮어씁니다.
// @Description 장바구니 담기 조회는 이 카탈로그를 사용하며, 카탈로그를 한 번도 전송하지 않은 사이트는 쇼핑몰 플러그인이 비활성화된 것으로 처리됩니다.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param X-Site-Id header string false "사이트 ID" example(my-shop)
// @Param X-Api-Key header string true "사이트 API 키"
// @Param request body request.CatalogRequest true "상품 목록"
// @Success 200 {object} store.CatalogState "동기화 상태"
// @Failure 400 {object} response.ErrorResponse "잘못된 요청"
// @Failure 401 {object} response.ErrorResponse "인증 실패"
// @Failure 503 {object} response.ErrorResponse "저장소 오류"
// @Security ApiKeyAuth
// @Router /api/v1/catalog/products [put]
func (h *Handler) PutProductsHandler(c echo.Context) error {
	site := auth.MustGetSite(c)

	req := new(request.CatalogRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	if err := checkSiteID(req.SiteID, site); err != nil {
		return err
	}

	state, err := h.catalog.PutProducts(c.Request().Context(), site.ID, req.Products)
	if err != nil {
		if apperrors.Is(err, apperrors.InvalidInput) {
			return NewErrInvalidInput(err)
		}

		h.log(c).WithFields(applog.Fields{
			"site_id": site.ID,
			"error":   err,
		}).Error("상품 카탈로그 저장 실패")

		return NewErrStorageUnavailable()
	}

	h.log(c).WithFields(applog.Fields{
		"site_id":       site.ID,
		"product_count": state.ProductCount,
	}).Info("상품 카탈로그 동기화 완료")

	return c.JSON(http.StatusOK, state)
}
