package host

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DonationStatusComplete 결제가 완료된 후원의 상태 값입니다.
const DonationStatusComplete = "publish"

// Donation 후원 플러그인의 후원(결제) 한 건입니다.
type Donation struct {
	ID       int64           `json:"id"`
	Status   string          `json:"status"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency,omitempty"`
	Date     time.Time       `json:"date"`

	Gateway      string `json:"gateway,omitempty"`
	GatewayLabel string `json:"gateway_label,omitempty"`

	// Recurring 정기 후원의 최초 결제인지 여부입니다.
	Recurring bool `json:"recurring,omitempty"`

	// LevelTitle 다단계 후원 양식에서 선택한 후원 단계의 이름입니다.
	LevelTitle string `json:"level_title,omitempty"`

	Form  DonationForm `json:"form"`
	Donor Donor        `json:"donor"`
}

// Completed 결제가 완료된 후원인지 여부를 반환합니다.
func (d *Donation) Completed() bool {
	return d != nil && d.Status == DonationStatusComplete
}

// PaymentMethod 결제 수단의 표시 이름을 반환합니다. 표시 이름이 없으면 게이트웨이 ID를 반환합니다.
func (d *Donation) PaymentMethod() string {
	if d.GatewayLabel != "" {
		return d.GatewayLabel
	}
	return d.Gateway
}

// Donor 후원자입니다.
type Donor struct {
	Email     string         `json:"email"`
	FirstName string         `json:"first_name,omitempty"`
	LastName  string         `json:"last_name,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Address   BillingAddress `json:"address"`
}

// FullName 이름과 성을 공백으로 연결합니다.
func (d Donor) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// BillingAddress 후원자의 청구지 주소입니다.
type BillingAddress struct {
	Address1 string `json:"address1,omitempty"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Country  string `json:"country,omitempty"`
}

// IsEmpty 주소 정보가 하나도 없는지 여부를 반환합니다. Address2만 있는 주소는 비어있는 것으로 봅니다.
func (a BillingAddress) IsEmpty() bool {
	return a.Address1 == "" && a.City == "" && a.State == "" && a.Zip == "" && a.Country == ""
}

// DonationForm 후원 양식입니다. 이벤트에서는 상품처럼 취급됩니다.
type DonationForm struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	DefaultAmount decimal.Decimal `json:"default_amount"`
	URL           string          `json:"url,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	Categories    []string        `json:"categories,omitempty"`
}

// CategoryNames 양식 카테고리를 ", "로 연결합니다. 카테고리가 없으면 fallback을 반환합니다.
func (f DonationForm) CategoryNames(fallback string) string {
	if len(f.Categories) == 0 {
		return fallback
	}
	return strings.Join(f.Categories, ", ")
}
