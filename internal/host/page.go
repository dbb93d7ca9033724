package host

// PageType 호스트가 판별한 현재 페이지의 종류입니다.
type PageType string

const (
	PageGeneric          PageType = ""
	PageProduct          PageType = "product"
	PageShop             PageType = "shop"
	PageCategory         PageType = "category"
	PageTag              PageType = "tag"
	PageCart             PageType = "cart"
	PageCheckout         PageType = "checkout"
	PageOrderReceived    PageType = "order_received"
	PageSearch           PageType = "search"
	PageDonationReceipt  PageType = "donation_receipt"
	PageDonationFormView PageType = "donation_form"
)

// ShowsAddToCart 상품 목록 또는 상품 상세처럼 장바구니 담기 버튼이 노출되는 페이지인지 여부를 반환합니다.
func (t PageType) ShowsAddToCart() bool {
	switch t {
	case PageProduct, PageShop, PageCategory, PageTag:
		return true
	}
	return false
}

// Page 렌더링 요청에 포함되는 현재 페이지 상태입니다. 페이지 종류에 해당하는 필드만 채워집니다.
type Page struct {
	Type  PageType `json:"type"`
	URL   string   `json:"url"`
	Title string   `json:"title,omitempty"`

	SearchQuery string `json:"search_query,omitempty"`

	Product  *Product  `json:"product,omitempty"`
	Category *Category `json:"category,omitempty"`
	Cart     *Cart     `json:"cart,omitempty"`
	Order    *Order    `json:"order,omitempty"`

	Donation      *Donation      `json:"donation,omitempty"`
	DonationForms []DonationForm `json:"donation_forms,omitempty"`
}
