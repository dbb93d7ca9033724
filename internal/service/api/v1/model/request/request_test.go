package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductDataRequest_LookupID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		req      ProductDataRequest
		expected int64
	}{
		{"성공: 일반 상품", ProductDataRequest{ProductID: 42}, 42},
		{"성공: 옵션 상품 우선", ProductDataRequest{ProductID: 42, VariationID: 57}, 57},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.req.LookupID())
		})
	}
}

func TestEnhanceRequest_Options(t *testing.T) {
	t.Parallel()

	yes, no := true, false

	tests := []struct {
		name              string
		req               EnhanceRequest
		whatsApp, addCart bool
	}{
		{"성공: 기본값", EnhanceRequest{}, true, true},
		{"성공: WhatsApp만", EnhanceRequest{AddToCart: &no}, true, false},
		{"성공: 장바구니만", EnhanceRequest{WhatsApp: &no, AddToCart: &yes}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			whatsApp, addCart := tt.req.Options()
			assert.Equal(t, tt.whatsApp, whatsApp)
			assert.Equal(t, tt.addCart, addCart)
		})
	}
}
