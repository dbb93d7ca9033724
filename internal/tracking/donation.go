package tracking

import (
	"strings"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/host"
	"github.com/darkkaiser/kepixel-server/pkg/strutil"
)

const defaultDonationCategory = "Donations"

// DonationReceipt 후원 영수증 페이지의 "Order Completed" 이벤트와 후원자 identify 인자를 생성합니다.
//
// 결제가 완료(publish)된 후원만 대상이며, 후원자 이메일이 없으면 donor는 nil입니다.
func (b *Builder) DonationReceipt(d *host.Donation) (event analytics.Event, donor *Identity, ok bool) {
	if !d.Completed() {
		return analytics.Event{}, nil, false
	}

	total := money(d.Total)
	currency := b.Currency(d.Currency)
	address := billingAddress(d.Donor)

	product := b.donationProduct(d, d.Form.CategoryNames(defaultDonationCategory))
	product["url"] = d.Form.URL
	product["image_url"] = d.Form.ImageURL
	if d.LevelTitle != "" {
		product["variant"] = d.LevelTitle
	}

	props := b.donationOrderProperties(d, product)
	if len(address) > 0 {
		props["billing_address"] = address
	}
	event = analytics.Event{Name: EventOrderCompleted, Properties: props}

	email := strings.TrimSpace(d.Donor.Email)
	if email == "" {
		return event, nil, true
	}

	traits := analytics.Traits{"email": email}
	setIfPresent(traits, "firstName", d.Donor.FirstName)
	setIfPresent(traits, "lastName", d.Donor.LastName)
	setIfPresent(traits, "name", d.Donor.FullName())
	setIfPresent(traits, "phone", d.Donor.Phone)
	if len(address) > 0 {
		traits["address"] = address
	}
	traits["isDonor"] = true
	traits["lastDonationAmount"] = total
	traits["lastDonationDate"] = formatDonationDate(d.Date)
	traits["lastDonationCurrency"] = currency
	traits["lastDonationForm"] = d.Form.Title

	return event, &Identity{UserID: email, Traits: traits}, true
}

// DonationEvent 서버 측에서 기록하고 수집 서버로 전달하는 후원 완료 이벤트 데이터입니다.
type DonationEvent struct {
	Event      string               `json:"event"`
	Properties analytics.Properties `json:"properties"`
	UserID     string               `json:"userId"`
	Traits     analytics.Traits     `json:"traits"`
	Timestamp  time.Time            `json:"timestamp"`
}

// DonationServerEvent 결제 완료 알림(웹훅 등)으로 받은 후원의 서버 측 이벤트 데이터를 생성합니다.
// 영수증 페이지와 달리 상품 카테고리는 항상 "Donations"이며, 후원자 속성은 값이 비어있어도 포함됩니다.
func (b *Builder) DonationServerEvent(d *host.Donation) DonationEvent {
	product := b.donationProduct(d, defaultDonationCategory)
	props := b.donationOrderProperties(d, product)

	traits := analytics.Traits{
		"email":     d.Donor.Email,
		"firstName": d.Donor.FirstName,
		"lastName":  d.Donor.LastName,
		"name":      d.Donor.FullName(),
		"isDonor":   true,
	}

	if address := billingAddress(d.Donor); len(address) > 0 {
		props["billing_address"] = address
		traits["address"] = address
	}
	if phone := strings.TrimSpace(d.Donor.Phone); phone != "" {
		traits["phone"] = phone
	}

	timestamp := d.Date
	if timestamp.IsZero() {
		timestamp = b.now()
	}

	return DonationEvent{
		Event:      EventOrderCompleted,
		Properties: props,
		UserID:     d.Donor.Email,
		Traits:     traits,
		Timestamp:  timestamp.UTC(),
	}
}

// DonationFormViewed 후원 양식이 노출될 때의 "Product Viewed" 이벤트를 생성합니다.
func (b *Builder) DonationFormViewed(f host.DonationForm) analytics.Event {
	formID := idString(f.ID)

	props := analytics.Properties{
		"product_id":   formID,
		"sku":          "donation-" + formID,
		"name":         f.Title,
		"price":        money(f.DefaultAmount),
		"currency":     b.Currency(""),
		"category":     f.CategoryNames(defaultDonationCategory),
		"url":          f.URL,
		"content_type": ContentTypeDonationForm,
		"form_id":      formID,
		"form_title":   f.Title,
	}
	if f.ImageURL != "" {
		props["image_url"] = f.ImageURL
	}

	return analytics.Event{Name: EventProductViewed, Properties: props}
}

func (b *Builder) donationProduct(d *host.Donation, category string) analytics.Properties {
	formID := idString(d.Form.ID)

	return analytics.Properties{
		"product_id": formID,
		"sku":        "donation-" + formID,
		"name":       d.Form.Title,
		"price":      money(d.Total),
		"currency":   b.Currency(d.Currency),
		"category":   category,
		"quantity":   1,
	}
}

func (b *Builder) donationOrderProperties(d *host.Donation, product analytics.Properties) analytics.Properties {
	total := money(d.Total)

	donationType := "one-time"
	if d.Recurring {
		donationType = "recurring"
	}

	return analytics.Properties{
		"order_id":       idString(d.ID),
		"affiliation":    b.affiliation(DefaultDonationAffiliation),
		"value":          total,
		"revenue":        total,
		"shipping":       0,
		"tax":            0,
		"discount":       0,
		"coupon":         "",
		"currency":       b.Currency(d.Currency),
		"products":       []analytics.Properties{product},
		"payment_method": d.PaymentMethod(),
		"donation_type":  donationType,
		"form_id":        idString(d.Form.ID),
		"form_title":     d.Form.Title,
	}
}

// billingAddress 후원자의 청구지 주소 객체를 생성합니다. 주소와 이름이 모두 없으면 nil을 반환합니다.
func billingAddress(donor host.Donor) map[string]any {
	name := donor.FullName()
	a := donor.Address
	if a.IsEmpty() && name == "" {
		return nil
	}

	address := map[string]any{"name": name}
	if a.Address1 != "" {
		address["street"] = strutil.JoinNonEmpty(", ", a.Address1, a.Address2)
	}
	setIfPresent(address, "city", a.City)
	setIfPresent(address, "state", a.State)
	setIfPresent(address, "postal_code", a.Zip)
	setIfPresent(address, "country", a.Country)

	return address
}

func formatDonationDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
