package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/darkkaiser/kepixel-server/internal/nonce"
	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	"github.com/darkkaiser/kepixel-server/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (env *testEnv) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

var shopAuth = map[string]string{
	constants.HeaderSiteID: "shop",
	constants.HeaderAPIKey: "shop-key",
}

func TestV1API_Authentication(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)

	tests := []struct {
		name           string
		target         string
		body           string
		headers        map[string]string
		expectedStatus int
	}{
		{"성공: 헤더 인증", "/api/v1/render", `{"page":{}}`, shopAuth, http.StatusOK},
		{"성공: 본문 site_id와 쿼리 키", "/api/v1/render?api_key=shop-key", `{"site_id":"shop","page":{}}`, nil, http.StatusOK},
		{"실패: API 키 누락", "/api/v1/render", `{"page":{}}`, map[string]string{constants.HeaderSiteID: "shop"}, http.StatusBadRequest},
		{"실패: 잘못된 API 키", "/api/v1/render", `{"page":{}}`, map[string]string{constants.HeaderSiteID: "shop", constants.HeaderAPIKey: "wrong"}, http.StatusUnauthorized},
		{"실패: 미등록 사이트", "/api/v1/content/enhance", `{"html":""}`, map[string]string{constants.HeaderSiteID: "ghost", constants.HeaderAPIKey: "shop-key"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := env.do(http.MethodPost, tt.target, tt.body, tt.headers)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus != http.StatusOK {
				var errResp response.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
				assert.Equal(t, tt.expectedStatus, errResp.ResultCode)
				assert.NotEmpty(t, errResp.Message)
			}
		})
	}
}

func TestV1API_ContentType(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/render", strings.NewReader(`{"page":{}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMETextPlain)
	req.Header.Set(constants.HeaderSiteID, "shop")
	req.Header.Set(constants.HeaderAPIKey, "shop-key")
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

// TestV1API_AddToCartFlow 카탈로그 동기화부터 브라우저의 장바구니 조회까지의 흐름을 검증합니다.
func TestV1API_AddToCartFlow(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)

	rec := env.do(http.MethodPut, "/api/v1/catalog/products",
		`{"products":[{"id":42,"sku":"TS-01","name":"티셔츠","price":"19000","permalink":"https://shop.test/p/42"}]}`, shopAuth)
	require.Equal(t, http.StatusOK, rec.Code)

	token := env.nonces.Create(nonce.ActionAddToCart, "shop", "sess-1")
	body := fmt.Sprintf(`{"site_id":"shop","session_id":"sess-1","nonce":%q,"product_id":42,"quantity":1,"variation_id":0,"cart_id":"cart_1","contents_count":0}`, token)

	// 장바구니 조회는 API 키 없이 호출된다.
	rec = env.do(http.MethodPost, "/api/v1/cart/product-data", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "42", resp.Data["product_id"])
	assert.Equal(t, "TS-01", resp.Data["sku"])
	assert.EqualValues(t, 1, resp.Data["position"])
}
