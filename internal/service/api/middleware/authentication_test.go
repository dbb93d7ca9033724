package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/darkkaiser/kepixel-server/internal/config"
	"github.com/darkkaiser/kepixel-server/internal/service/api/auth"
	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuthentication(t *testing.T) {
	t.Parallel()

	authenticator := auth.NewAuthenticator([]config.SiteConfig{
		{ID: "shop", APIKey: "shop-key", WriteKey: "wk_shop"},
	})

	tests := []struct {
		name           string
		headers        map[string]string
		query          string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "성공: 헤더 인증",
			headers:        map[string]string{constants.HeaderSiteID: "shop", constants.HeaderAPIKey: "shop-key"},
			body:           `{"page":{}}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"page":{}}`,
		},
		{
			name:           "성공: 본문의 site_id와 쿼리 파라미터 키",
			query:          "?api_key=shop-key",
			body:           `{"site_id":"shop","html":"<a>"}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"site_id":"shop","html":"<a>"}`,
		},
		{
			name:           "실패: API 키 없음",
			headers:        map[string]string{constants.HeaderSiteID: "shop"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "실패: Site ID 없음",
			headers:        map[string]string{constants.HeaderAPIKey: "shop-key"},
			body:           `{"html":"x"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "실패: 빈 본문",
			headers:        map[string]string{constants.HeaderAPIKey: "shop-key"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "실패: 잘못된 JSON",
			headers:        map[string]string{constants.HeaderAPIKey: "shop-key"},
			body:           `{site_id`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "실패: 잘못된 키",
			headers:        map[string]string{constants.HeaderSiteID: "shop", constants.HeaderAPIKey: "wrong"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "실패: 미등록 사이트",
			headers:        map[string]string{constants.HeaderSiteID: "unknown", constants.HeaderAPIKey: "shop-key"},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			e.POST("/api/v1/render", func(c echo.Context) error {
				site := auth.MustGetSite(c)
				assert.Equal(t, "shop", site.ID)
				assert.Empty(t, site.APIKey)

				body, err := io.ReadAll(c.Request().Body)
				require.NoError(t, err)
				return c.String(http.StatusOK, string(body))
			}, RequireAuthentication(authenticator))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/render"+tt.query, strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, rec.Body.String(), "인증 후에도 본문을 다시 읽을 수 있어야 합니다")
			}
		})
	}
}

func TestRequireAuthentication_BodyTooLarge(t *testing.T) {
	t.Parallel()

	authenticator := auth.NewAuthenticator([]config.SiteConfig{{ID: "shop", APIKey: "shop-key"}})

	e := echo.New()
	e.POST("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		echomiddleware.BodyLimit("1K"), RequireAuthentication(authenticator))

	body := `{"site_id":"shop","html":"` + strings.Repeat("a", 2048) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.ContentLength = -1
	req.Header.Set(constants.HeaderAPIKey, "shop-key")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRequireAuthentication_NilAuthenticator(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, constants.PanicMsgAuthenticatorRequired, func() {
		RequireAuthentication(nil)
	})
}
