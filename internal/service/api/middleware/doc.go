// Package middleware API 서버의 Echo 미들웨어를 제공합니다.
//
// 설치 순서는 http_server.go의 NewHTTPServer가 정합니다. PanicRecovery가 가장 바깥에서 나머지를 감싸고,
// HTTPLogger는 요청 ID가 정해진 뒤에 실행되어야 접근 로그에 request_id가 남습니다.
// RequireAuthentication과 ValidateContentType은 전역이 아니라 v1 라우트 그룹에만 적용됩니다.
package middleware
