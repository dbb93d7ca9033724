// Package v1 kepixel API의 v1 버전 라우트를 정의하고 설정합니다.
//
// 이 패키지는 /api/v1 경로 하위의 모든 엔드포인트를 관리합니다.
//
// 주요 엔드포인트:
//   - POST /api/v1/render               - 페이지 추적 스크립트 렌더링
//   - POST /api/v1/cart/product-data    - 장바구니 담기 상품 정보 조회 (브라우저, nonce 검증)
//   - PUT  /api/v1/catalog/products     - 상품 카탈로그 동기화
//   - POST /api/v1/registrations        - 회원가입 쿠키 발급
//   - POST /api/v1/content/enhance      - 콘텐츠 추적 속성 추가
//   - POST /api/v1/forms/submissions    - 문의 양식 제출 기록
//   - POST /api/v1/donations/complete   - 후원 완료 기록
//
// 장바구니 조회를 제외한 모든 엔드포인트는 사이트 인증(X-Site-Id, X-Api-Key)을 요구합니다.
package v1

import (
	"github.com/darkkaiser/kepixel-server/internal/service/api/auth"
	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	"github.com/darkkaiser/kepixel-server/internal/service/api/middleware"
	"github.com/darkkaiser/kepixel-server/internal/service/api/v1/handler"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes Echo 인스턴스에 v1 API 라우트를 설정합니다.
//
// 미들웨어 적용:
//   - 모든 엔드포인트: ValidateContentType (JSON 검증)
//   - 장바구니 조회를 제외한 엔드포인트: RequireAuthentication (사이트 인증)
func RegisterRoutes(e *echo.Echo, h *handler.Handler, authenticator *auth.Authenticator) {
	v1Group := e.Group(constants.APIv1Prefix, middleware.ValidateContentType(echo.MIMEApplicationJSON))

	// 브라우저가 직접 호출하므로 API 키 대신 nonce로 검증한다.
	v1Group.POST(constants.PathCartProductData, h.ProductDataHandler)

	authMiddleware := middleware.RequireAuthentication(authenticator)

	v1Group.POST("/render", h.RenderHandler, authMiddleware)
	v1Group.PUT("/catalog/products", h.PutProductsHandler, authMiddleware)
	v1Group.POST("/registrations", h.RegistrationHandler, authMiddleware)
	v1Group.POST("/content/enhance", h.EnhanceContentHandler, authMiddleware)
	v1Group.POST("/forms/submissions", h.FormSubmissionHandler, authMiddleware)
	v1Group.POST("/donations/complete", h.CompleteDonationHandler, authMiddleware)
}
