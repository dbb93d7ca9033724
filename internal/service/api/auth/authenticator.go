// Package auth 호스트 사이트의 API 키 인증과 인증된 사이트 정보를 echo.Context에 보관하는 기능을 제공합니다.
package auth

import (
	"crypto/subtle"
	"sync"

	"github.com/darkkaiser/kepixel-server/internal/config"
	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/darkkaiser/kepixel-server/pkg/strutil"
)

// Authenticator 사이트 인증을 담당하는 인증자입니다.
//
// 설정 파일에 등록된 사이트를 메모리에 보관하고 Site ID와 API 키로 인증을 수행합니다.
// 인증 결과로 반환되는 사이트 설정에는 API 키가 포함되지 않습니다.
//
// 여러 고루틴에서 동시에 호출해도 안전합니다.
type Authenticator struct {
	mu    sync.RWMutex
	sites map[string]config.SiteConfig
}

// NewAuthenticator 설정에 등록된 사이트로 Authenticator를 생성합니다.
func NewAuthenticator(sites []config.SiteConfig) *Authenticator {
	m := make(map[string]config.SiteConfig, len(sites))
	for _, site := range sites {
		m[site.ID] = site
	}

	return &Authenticator{
		sites: m,
	}
}

// Authenticate 사이트를 찾고 API 키를 검증합니다.
// 성공 시 API 키를 제거한 사이트 설정을 반환하고, 실패 시 401 에러를 반환합니다.
func (a *Authenticator) Authenticate(siteID, apiKey string) (*config.SiteConfig, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	site, ok := a.sites[siteID]
	if !ok {
		return nil, NewErrInvalidSiteID(siteID)
	}

	if site.APIKey == "" || subtle.ConstantTimeCompare([]byte(site.APIKey), []byte(apiKey)) != 1 {
		applog.WithComponentAndFields(constants.ComponentMiddlewareAuthentication, applog.Fields{
			"site_id":          siteID,
			"received_api_key": strutil.Mask(apiKey),
		}).Warn("API 키 불일치")

		return nil, NewErrInvalidAPIKey(siteID)
	}

	site.APIKey = ""
	return &site, nil
}

// Site API 키 검증 없이 사이트 설정을 조회합니다.
// 브라우저가 직접 호출하는 공개 엔드포인트(nonce로 보호)에서 사용합니다.
func (a *Authenticator) Site(siteID string) (*config.SiteConfig, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	site, ok := a.sites[siteID]
	if !ok {
		return nil, false
	}

	site.APIKey = ""
	return &site, true
}
