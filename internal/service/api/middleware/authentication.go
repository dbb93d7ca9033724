package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/darkkaiser/kepixel-server/internal/service/api/auth"
	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// RequireAuthentication 사이트 인증을 수행하는 미들웨어를 반환합니다.
//
// 처리 과정:
//  1. API 키 추출 (X-Api-Key 헤더 우선, api_key 쿼리 파라미터 폴백)
//  2. Site ID 추출 (X-Site-Id 헤더 우선, 요청 본문의 site_id 폴백)
//  3. Authenticator를 통한 인증 처리
//  4. 인증된 사이트 설정을 Context에 저장
//
// 인증 실패 시:
//   - 400 Bad Request: API 키/Site ID 누락, 빈 본문, 잘못된 JSON
//   - 401 Unauthorized: 미등록 Site ID 또는 잘못된 API 키
//   - 413 Request Entity Too Large: 요청 크기가 제한을 초과함
//
// Panics:
//   - authenticator가 nil인 경우
func RequireAuthentication(authenticator *auth.Authenticator) echo.MiddlewareFunc {
	if authenticator == nil {
		panic(constants.PanicMsgAuthenticatorRequired)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			apiKey := extractAPIKey(c)
			if apiKey == "" {
				return ErrAPIKeyRequired
			}

			siteID, err := extractSiteID(c)
			if err != nil {
				return err
			}
			if siteID == "" {
				return ErrSiteIDRequired
			}

			site, err := authenticator.Authenticate(siteID, apiKey)
			if err != nil {
				return err
			}

			auth.SetSite(c, site)

			return next(c)
		}
	}
}

// extractAPIKey API 키를 추출합니다. 쿼리 파라미터로 전달된 경우 경고 로그를 남깁니다.
func extractAPIKey(c echo.Context) string {
	apiKey := c.Request().Header.Get(constants.HeaderAPIKey)
	if apiKey == "" {
		apiKey = c.QueryParam(constants.QueryParamAPIKey)

		if apiKey != "" {
			applog.WithComponentAndFields(constants.ComponentMiddlewareAuthentication, applog.Fields{
				"method":    c.Request().Method,
				"path":      c.Path(),
				"remote_ip": c.RealIP(),
			}).Warn("보안 경고: 쿼리 파라미터로 API 키 전달됨 (헤더 사용 권장)")
		}
	}
	return apiKey
}

// extractSiteID Site ID를 추출합니다.
//
// X-Site-Id 헤더가 없으면 요청 본문의 site_id를 읽고, 다음 핸들러가 다시 읽을 수 있도록 본문을 복원합니다.
func extractSiteID(c echo.Context) (string, error) {
	if siteID := c.Request().Header.Get(constants.HeaderSiteID); siteID != "" {
		return siteID, nil
	}

	if c.Request().Body == nil {
		return "", ErrEmptyBody
	}

	bodyBytes, err := io.ReadAll(c.Request().Body)
	if err != nil {
		// BodyLimit 미들웨어(echo.HTTPError) 또는 http.MaxBytesReader에 의해 읽기가 중단된 경우
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return "", ErrBodyTooLarge
		}
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return "", ErrBodyTooLarge
		}
		return "", ErrBodyReadFailed
	}
	_ = c.Request().Body.Close()

	if len(bodyBytes) == 0 {
		return "", ErrEmptyBody
	}

	c.Request().Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var authRequest struct {
		SiteID string `json:"site_id"`
	}
	if err := json.Unmarshal(bodyBytes, &authRequest); err != nil {
		return "", ErrInvalidJSON
	}

	return authRequest.SiteID, nil
}
