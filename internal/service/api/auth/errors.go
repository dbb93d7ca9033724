package auth

import (
	"errors"
	"fmt"

	"github.com/darkkaiser/kepixel-server/internal/service/api/httputil"
)

var (
	// ErrSiteMissingInContext Context 내에서 사이트 정보를 조회할 수 없을 때 반환하는 에러입니다.
	ErrSiteMissingInContext = errors.New("Context에서 사이트 정보를 찾을 수 없습니다")

	// ErrSiteTypeMismatch Context에 저장된 객체가 *config.SiteConfig 타입이 아닐 때 반환하는 에러입니다.
	ErrSiteTypeMismatch = errors.New("Context에 저장된 사이트 정보의 타입이 올바르지 않습니다")
)

// NewErrInvalidSiteID 등록되지 않은 Site ID로 인증을 시도했을 때 반환하는 401 에러를 생성합니다.
func NewErrInvalidSiteID(id string) error {
	return httputil.NewUnauthorizedError(fmt.Sprintf("등록되지 않은 site_id입니다 (ID: %s)", id))
}

// NewErrInvalidAPIKey API 키가 사이트의 인증 정보와 일치하지 않을 때 반환하는 401 에러를 생성합니다.
func NewErrInvalidAPIKey(id string) error {
	return httputil.NewUnauthorizedError(fmt.Sprintf("api_key가 유효하지 않습니다 (site_id: %s)", id))
}
