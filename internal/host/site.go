// Package host 호스트 사이트(CMS, 쇼핑몰 플러그인, 후원 플러그인)가 요청마다 전달하는 페이지 상태 모델을 정의합니다.
//
// 호스트가 값을 알 수 없는 필드는 생략할 수 있으며, 이벤트 빌더는 생략된 값을 필드별 기본값('', 0, 1)으로 대체합니다.
package host

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Site 사이트 단위 설정입니다.
type Site struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`

	// WooCommerce 쇼핑몰 플러그인 활성화 여부입니다.
	WooCommerce bool `json:"woocommerce"`

	// GiveWP 후원 플러그인 활성화 여부입니다.
	GiveWP bool `json:"givewp"`
}

// Visitor 현재 페이지를 요청한 방문자입니다. 로그인하지 않은 방문자는 User가 nil입니다.
type Visitor struct {
	User      *User             `json:"user,omitempty"`
	SessionID string            `json:"session_id"`
	Cookies   map[string]string `json:"cookies,omitempty"`
}

// LoggedIn 로그인한 방문자인지 여부를 반환합니다.
func (v Visitor) LoggedIn() bool {
	return v.User != nil && v.User.ID > 0
}

// Cookie name 쿠키 값을 반환합니다.
func (v Visitor) Cookie(name string) string {
	return v.Cookies[name]
}

// User 로그인한 사용자입니다.
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Login       string `json:"login"`
	Nicename    string `json:"nicename,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
	Registered  string `json:"registered,omitempty"`
	Avatar      string `json:"avatar,omitempty"`

	// Meta 사용자 메타 값입니다. (phone, billing_*, shipping_*, company_*, kepixel_trait_* 등)
	Meta map[string]string `json:"meta,omitempty"`

	// Customer 쇼핑몰 고객 통계입니다. 쇼핑몰 플러그인이 없으면 nil입니다.
	Customer *Customer `json:"customer,omitempty"`
}

// MetaValue key에 해당하는 메타 값을 앞뒤 공백을 제거하여 반환합니다.
func (u *User) MetaValue(key string) string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.Meta[key])
}

// Customer 쇼핑몰 고객 통계입니다.
type Customer struct {
	IsPayingCustomer bool            `json:"is_paying_customer"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
	OrderCount       int             `json:"order_count"`
}
