package handler

import (
	"net/http"

	"github.com/darkkaiser/kepixel-server/internal/host"
	"github.com/darkkaiser/kepixel-server/internal/render"
	"github.com/darkkaiser/kepixel-server/internal/service/api/auth"
	"github.com/darkkaiser/kepixel-server/internal/service/api/v1/model/response"
	"github.com/labstack/echo/v4"
)

// RegistrationHandler godoc
// @Summary 회원가입 완료 알림
// @Description 호스트가 회원가입 직후 호출합니다. 응답의 쿠키(kepixel_user_registered=1, 1시간)를 방문자에게 설정하면
// @Description 다음 페이지 렌더링에서 "CompleteRegistration" 이벤트가 출력되고 쿠키 제거 지시가 함께 반환됩니다.
// @Description 사이트의 추적이 비활성화되어 있으면 쿠키 없이 응답합니다.
// @Tags Tracking
// @Produce json
// @Param X-Site-Id header string true "사이트 ID" example(my-shop)
// @Param X-Api-Key header string true "사이트 API 키"
// @Success 200 {object} response.RegistrationResponse "설정할 쿠키"
// @Failure 401 {object} response.ErrorResponse "인증 실패"
// @Security ApiKeyAuth
// @Router /api/v1/registrations [post]
func (h *Handler) RegistrationHandler(c echo.Context) error {
	site := auth.MustGetSite(c)

	if !site.TrackingEnabled() {
		h.log(c).WithField("site_id", site.ID).Debug("추적이 비활성화된 사이트이므로 회원가입 쿠키를 발급하지 않습니다")
		return c.JSON(http.StatusOK, response.RegistrationResponse{})
	}

	cookie := render.NewCookie(h.builder(site, host.Site{}).RegistrationCookieSet())

	h.log(c).WithField("site_id", site.ID).Debug("회원가입 쿠키 발급")

	return c.JSON(http.StatusOK, response.RegistrationResponse{Cookie: &cookie})
}

