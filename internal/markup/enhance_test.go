package markup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnhance(t *testing.T) {
	t.Parallel()

	all := Options{WhatsApp: true, AddToCart: true}

	tests := []struct {
		name          string
		content       string
		opts          Options
		want          string
		wantWhatsApp  int
		wantAddToCart int
	}{
		{
			name:         "성공: wa.me 링크",
			content:      `<p>문의 <a href="https://wa.me/821012345678">채팅</a></p>`,
			opts:         all,
			want:         `<p>문의 <a href="https://wa.me/821012345678" data-kepixel-whatsapp="true">채팅</a></p>`,
			wantWhatsApp: 1,
		},
		{
			name:         "성공: 대소문자 무관 whatsapp.com 링크",
			content:      `<A HREF="https://API.WhatsApp.com/send?phone=1">Chat</A>`,
			opts:         all,
			want:         `<A HREF="https://API.WhatsApp.com/send?phone=1" data-kepixel-whatsapp="true">Chat</A>`,
			wantWhatsApp: 1,
		},
		{
			name:         "성공: class에 whatsapp이 포함된 임의 태그",
			content:      `<div class="float-WhatsApp-btn"><span id="x">hi</span></div>`,
			opts:         all,
			want:         `<div class="float-WhatsApp-btn" data-kepixel-whatsapp="true"><span id="x">hi</span></div>`,
			wantWhatsApp: 1,
		},
		{
			name:    "성공: 이미 속성이 있으면 건너뜀",
			content: `<a href="https://wa.me/1" data-kepixel-whatsapp="true">x</a>`,
			opts:    all,
			want:    `<a href="https://wa.me/1" data-kepixel-whatsapp="true">x</a>`,
		},
		{
			name:          "성공: 장바구니 담기 버튼",
			content:       `<button type="submit" class="single_add_to_cart_button button alt">Add</button>`,
			opts:          all,
			want:          `<button type="submit" class="single_add_to_cart_button button alt" data-kepixel-addtocart="true">Add</button>`,
			wantAddToCart: 1,
		},
		{
			name:          "성공: id가 add...cart 형태",
			content:       `<a id="AddToCart-42" href="?add-to-cart=42">Buy</a>`,
			opts:          all,
			want:          `<a id="AddToCart-42" href="?add-to-cart=42" data-kepixel-addtocart="true">Buy</a>`,
			wantAddToCart: 1,
		},
		{
			name:          "성공: 자체 닫힘 태그",
			content:       `<input type="submit" class="add_to_cart_button" />`,
			opts:          all,
			want:          `<input type="submit" class="add_to_cart_button" data-kepixel-addtocart="true" />`,
			wantAddToCart: 1,
		},
		{
			name:    "성공: cart 다음에 add가 오면 일치하지 않음",
			content: `<div class="cart-add">x</div>`,
			opts:    all,
			want:    `<div class="cart-add">x</div>`,
		},
		{
			name:         "성공: 선택한 종류만 추가",
			content:      `<a class="whatsapp add_to_cart_button" href="#">x</a>`,
			opts:         Options{WhatsApp: true},
			want:         `<a class="whatsapp add_to_cart_button" href="#" data-kepixel-whatsapp="true">x</a>`,
			wantWhatsApp: 1,
		},
		{
			name:          "성공: 두 속성 모두 추가",
			content:       `<a class="whatsapp add_to_cart_button" href="#">x</a>`,
			opts:          all,
			want:          `<a class="whatsapp add_to_cart_button" href="#" data-kepixel-whatsapp="true" data-kepixel-addtocart="true">x</a>`,
			wantWhatsApp:  1,
			wantAddToCart: 1,
		},
		{
			name:    "성공: 스크립트와 주석은 그대로 유지",
			content: "<!-- a class=\"whatsapp\" --><script>var s = '<a href=\"https://wa.me/1\">';</script>",
			opts:    all,
			want:    "<!-- a class=\"whatsapp\" --><script>var s = '<a href=\"https://wa.me/1\">';</script>",
		},
		{
			name:    "성공: 옵션이 없으면 원본 반환",
			content: `<a href="https://wa.me/1">x</a>`,
			want:    `<a href="https://wa.me/1">x</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Enhance(context.Background(), tt.content, tt.opts)
			require.NoError(t, err)

			assert.Equal(t, tt.want, got.HTML)
			assert.Equal(t, tt.wantWhatsApp, got.WhatsApp)
			assert.Equal(t, tt.wantAddToCart, got.AddToCart)
		})
	}
}

func TestEnhance_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Enhance(ctx, `<a href="https://wa.me/1">x</a>`, Options{WhatsApp: true})
	assert.Error(t, err)
}

func TestMatchesAddCart(t *testing.T) {
	t.Parallel()

	assert.True(t, matchesAddCart("add_to_cart_button"))
	assert.True(t, matchesAddCart("btn ADD-CART"))
	assert.True(t, matchesAddCart("cart add cart"))
	assert.False(t, matchesAddCart("cart-add"))
	assert.False(t, matchesAddCart(""))
}
