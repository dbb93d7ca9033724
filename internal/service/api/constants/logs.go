package constants

// API 서비스 생명주기 로그 메시지
const (
	LogMsgServiceStarting       = "API 서비스 시작: HTTP 서버를 구성합니다"
	LogMsgServiceStarted        = "API 서비스 시작 완료"
	LogMsgServiceAlreadyStarted = "API 서비스가 이미 실행 중입니다 (중복 호출)"
	LogMsgServiceStopping       = "API 서비스 종료: 진행 중인 요청을 마무리합니다"
	LogMsgServiceStopped        = "API 서비스 종료 완료"
	LogMsgServiceUnexpectedExit = "HTTP 서버가 종료 신호 없이 멈췄습니다"

	LogMsgServiceHTTPServerStarting      = "HTTP 서버 수신 대기 시작"
	LogMsgServiceHTTPServerStopped       = "HTTP 서버 수신 대기 종료"
	LogMsgServiceHTTPServerShutdownError = "HTTP 서버 정상 종료 실패: 제한 시간 안에 요청이 끝나지 않았습니다"
	LogMsgServiceHTTPServerFatalError    = "HTTP 서버 실행 실패: 포트 또는 인증서 설정을 확인하세요"
)

// 요청 처리 로그 메시지
const (
	LogMsgHealthCheck = "헬스체크 요청"
	LogMsgVersionInfo = "버전 정보 요청"

	LogMsgAccess                 = "HTTP 요청 처리"
	LogMsgHTTP4xxClientError     = "요청 거부: 클라이언트 오류 응답"
	LogMsgHTTP5xxServerError     = "요청 실패: 서버 오류 응답"
	LogMsgUnsupportedContentType = "요청 거부: 지원하지 않는 Content-Type"
	LogMsgPanicRecovered         = "핸들러 실행 중 panic이 발생하여 복구했습니다"
)
