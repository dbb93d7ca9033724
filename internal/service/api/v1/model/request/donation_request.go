package request

import "github.com/darkkaiser/kepixel-server/internal/host"

// DonationCompleteRequest 결제 완료된 후원 기록 요청
type DonationCompleteRequest struct {
	SiteID   string         `json:"site_id,omitempty" korean:"사이트 ID" example:"charity"`
	Donation *host.Donation `json:"donation" validate:"required" korean:"후원"`
}
