package analytics

import (
	"html"
	"net/url"
	"strings"
)

// Loader 수집 서버의 로더 스크립트 태그를 생성합니다. writeKey가 비어 있으면 빈 문자열을 반환합니다.
//
// 로더 태그 뒤에는 로더 로드 전에 발생한 호출을 쌓아둘 전역 배열 초기화 코드가 이어집니다.
func Loader(writeKey, loaderURL string) string {
	writeKey = strings.TrimSpace(writeKey)
	if writeKey == "" {
		return ""
	}

	src := strings.TrimRight(loaderURL, "?") + "?" + url.Values{"writeKey": {writeKey}}.Encode()

	var sb strings.Builder
	sb.WriteString(`<script src="`)
	sb.WriteString(html.EscapeString(src))
	sb.WriteString("\"></script>\n")
	sb.WriteString("<script type=\"text/javascript\">\n")
	sb.WriteString("var kepixelAnalytics = window.kepixelAnalytics = window.kepixelAnalytics || [];\n")
	sb.WriteString("</script>\n")

	return sb.String()
}
