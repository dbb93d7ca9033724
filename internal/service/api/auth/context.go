package auth

import (
	"fmt"

	"github.com/darkkaiser/kepixel-server/internal/config"
	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	"github.com/labstack/echo/v4"
)

// SetSite 인증된 사이트 정보를 Context에 저장합니다.
func SetSite(c echo.Context, site *config.SiteConfig) {
	c.Set(constants.ContextKeySite, site)
}

// GetSite Context에서 사이트 정보를 조회합니다.
func GetSite(c echo.Context) (*config.SiteConfig, error) {
	val := c.Get(constants.ContextKeySite)
	if val == nil {
		return nil, ErrSiteMissingInContext
	}

	site, ok := val.(*config.SiteConfig)
	if !ok || site == nil {
		return nil, ErrSiteTypeMismatch
	}

	return site, nil
}

// MustGetSite Context에서 사이트 정보를 조회합니다.
// 인증 미들웨어를 통과하여 사이트 정보가 반드시 존재한다고 보장될 때 사용하며, 조회에 실패하면 panic이 발생합니다.
func MustGetSite(c echo.Context) *config.SiteConfig {
	site, err := GetSite(c)
	if err != nil {
		panic(fmt.Sprintf("Auth: Context에서 사이트 정보를 가져올 수 없습니다. 인증 미들웨어가 적용되었는지 확인해주세요. (원인: %v)", err))
	}
	return site
}
