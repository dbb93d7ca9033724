package constants

// API 요청에 사용되는 인증 관련 헤더 및 파라미터 키입니다.
const (
	// HeaderSiteID 사이트 식별용 HTTP 헤더 키
	HeaderSiteID = "X-Site-Id"

	// HeaderAPIKey 사이트 인증용 HTTP 헤더 키
	HeaderAPIKey = "X-Api-Key"

	// QueryParamAPIKey 사이트 인증용 쿼리 파라미터 키 (헤더를 보낼 수 없는 호스트용)
	QueryParamAPIKey = "api_key"

	// ContextKeySite 인증된 사이트 설정을 echo.Context에 저장할 때 사용하는 키
	ContextKeySite = "darkkaiser/kepixel-server/api/auth/AuthenticatedSite"
)

// SensitiveQueryParams 로그에 남길 때 마스킹 처리해야 할 쿼리 파라미터 목록입니다.
var SensitiveQueryParams = []string{
	QueryParamAPIKey,
	"nonce",
	"password",
	"token",
	"secret",
}
