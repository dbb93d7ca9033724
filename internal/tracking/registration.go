package tracking

import (
	"net/http"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/host"
)

const (
	// RegistrationCookie 회원가입 직후임을 다음 페이지 렌더링에 알리는 쿠키 이름입니다.
	RegistrationCookie = "kepixel_user_registered"

	// registrationCookieTTL 회원가입 쿠키의 유효 기간입니다.
	registrationCookieTTL = time.Hour
)

// RegistrationCookieSet 회원가입 직후 호스트가 방문자에게 설정할 쿠키를 생성합니다.
func (b *Builder) RegistrationCookieSet() *http.Cookie {
	return &http.Cookie{
		Name:    RegistrationCookie,
		Value:   "1",
		Path:    "/",
		Expires: b.now().Add(registrationCookieTTL),
		MaxAge:  int(registrationCookieTTL.Seconds()),
	}
}

// RegistrationCookieClear 회원가입 쿠키를 만료시키는 쿠키를 생성합니다.
func (b *Builder) RegistrationCookieClear() *http.Cookie {
	return &http.Cookie{
		Name:    RegistrationCookie,
		Value:   "",
		Path:    "/",
		Expires: b.now().Add(-registrationCookieTTL),
		MaxAge:  -1,
	}
}

// CompleteRegistration 방문자에게 회원가입 쿠키가 "1"로 설정되어 있으면 "CompleteRegistration" 이벤트를 생성합니다.
// 이벤트가 생성되면 호스트는 RegistrationCookieClear로 쿠키를 제거해야 합니다.
func (b *Builder) CompleteRegistration(visitor host.Visitor) (analytics.Event, bool) {
	if visitor.Cookie(RegistrationCookie) != "1" {
		return analytics.Event{}, false
	}

	return analytics.Event{Name: EventCompleteRegistration, Properties: analytics.Properties{}}, true
}
