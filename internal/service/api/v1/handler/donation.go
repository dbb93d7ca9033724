package handler

import (
	"net/http"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/darkkaiser/kepixel-server/internal/service/api/auth"
	"github.com/darkkaiser/kepixel-server/internal/service/api/v1/model/request"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// CompleteDonationHandler godoc
// @Summary 후원 완료 기록
// @Description 결제가 완료된 후원을 서버 측에서 기록합니다. 같은 후원은 한 번만 기록되며(status: duplicate),
// @Description 추적이 비활성화되었거나 쓰기 키가 없는 사이트는 기록하지 않습니다(status: skipped).
// @Description
// @Description 기록된 후원의 identify(후원자 이메일이 있을 때)와 "Order Completed" 호출은 전송 대기열을 거쳐 수집 서버로 전달됩니다.
// @Tags Donation
// @Accept json
// @Produce json
// @Param X-Site-Id header string false "사이트 ID" example(charity)
// @Param X-Api-Key header string true "사이트 API 키"
// @Param request body request.DonationCompleteRequest true "완료된 후원"
// @Success 200 {object} donation.Result "처리 결과"
// @Failure 400 {object} response.ErrorResponse "잘못된 요청 또는 결제 미완료"
// @Failure 401 {object} response.ErrorResponse "인증 실패"
// @Failure 503 {object} response.ErrorResponse "저장소 오류"
// @Security ApiKeyAuth
// @Router /api/v1/donations/complete [post]
func (h *Handler) CompleteDonationHandler(c echo.Context) error {
	site := auth.MustGetSite(c)

	req := new(request.DonationCompleteRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	if err := checkSiteID(req.SiteID, site); err != nil {
		return err
	}
	if !req.Donation.Completed() {
		return NewErrDonationNotCompleted(req.Donation.Status)
	}

	result, err := h.donations.Complete(c.Request().Context(), *site, req.Donation)
	if err != nil {
		if apperrors.Is(err, apperrors.InvalidInput) {
			return NewErrInvalidInput(err)
		}

		h.log(c).WithFields(applog.Fields{
			"site_id":     site.ID,
			"donation_id": req.Donation.ID,
			"error":       err,
		}).Error("후원 완료 기록 실패")

		return NewErrStorageUnavailable()
	}

	return c.JSON(http.StatusOK, result)
}
