package constants

// 클라이언트에게 반환되는 표준 에러 메시지입니다.
const (
	ErrMsgNotFound             = "페이지를 찾을 수 없습니다."
	ErrMsgInternalServer       = "내부 서버 오류가 발생했습니다."
	ErrMsgTooManyRequests      = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요"
	ErrMsgUnsupportedMediaType = "지원하지 않는 Content-Type 형식입니다"
)

// 필수 의존성이 누락되었을 때의 panic 메시지입니다.
const (
	PanicMsgAppConfigRequired     = "AppConfig는 필수입니다"
	PanicMsgAuthenticatorRequired = "Authenticator는 필수입니다"
	PanicMsgRendererRequired      = "Renderer는 필수입니다"
	PanicMsgNonceManagerRequired  = "Nonce Manager는 필수입니다"
	PanicMsgStoreRequired         = "Store는 필수입니다"
	PanicMsgDonationRequired      = "Donation 서비스는 필수입니다"
)
