// Package markup 호스트 HTML에 추적용 data 속성을 추가하고, 제출된 양식 HTML에서 입력값을 추출합니다.
package markup

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"golang.org/x/net/html"
)

const (
	// AttrWhatsApp WhatsApp 링크 표시 속성입니다.
	AttrWhatsApp = "data-kepixel-whatsapp"

	// AttrAddToCart 장바구니 담기 버튼 표시 속성입니다.
	AttrAddToCart = "data-kepixel-addtocart"
)

// Options 추가할 속성의 종류를 선택합니다.
type Options struct {
	WhatsApp  bool
	AddToCart bool
}

// Result 속성 추가 결과입니다.
type Result struct {
	HTML string `json:"html"`

	// WhatsApp, AddToCart 속성이 추가된 태그 수입니다.
	WhatsApp  int `json:"whatsapp"`
	AddToCart int `json:"addtocart"`
}

// Enhance content의 태그 중 WhatsApp 링크와 장바구니 담기 버튼에 추적용 data 속성을 추가합니다.
//
// 태그와 속성 이름, 값 비교는 대소문자를 구분하지 않으며, 이미 해당 속성이 있는 태그는 건너뜁니다.
// 일치하지 않는 부분은 입력과 한 바이트도 다르지 않게 그대로 출력됩니다.
func Enhance(ctx context.Context, content string, opts Options) (Result, error) {
	if !opts.WhatsApp && !opts.AddToCart {
		return Result{HTML: content}, nil
	}

	var (
		out    strings.Builder
		result Result
	)
	out.Grow(len(content) + 64)

	z := html.NewTokenizer(&contextAwareReader{ctx: ctx, r: strings.NewReader(content)})
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return Result{}, apperrors.Wrap(err, apperrors.ExecutionFailed, "HTML 콘텐츠를 읽는 중 에러가 발생했습니다")
			}
			break
		}

		// TagName, TagAttr 호출은 내부 버퍼의 이름을 소문자로 바꾸므로 원본을 먼저 복사한다.
		raw := append([]byte(nil), z.Raw()...)
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.Write(raw)
			continue
		}

		t := readTag(z)
		var attrs []string
		if opts.WhatsApp && t.isWhatsApp() {
			attrs = append(attrs, AttrWhatsApp)
			result.WhatsApp++
		}
		if opts.AddToCart && t.isAddToCart() {
			attrs = append(attrs, AttrAddToCart)
			result.AddToCart++
		}

		out.Write(insertAttrs(raw, attrs))
	}

	result.HTML = out.String()

	return result, nil
}

// tag 판별에 필요한 태그 이름과 속성 값입니다. 속성 이름은 소문자입니다.
type tag struct {
	name  string
	attrs map[string]string
}

func readTag(z *html.Tokenizer) tag {
	name, hasAttr := z.TagName()
	t := tag{name: string(name), attrs: map[string]string{}}

	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if _, exists := t.attrs[string(key)]; !exists {
			t.attrs[string(key)] = string(val)
		}
	}

	return t
}

func (t tag) has(attr string) bool {
	_, ok := t.attrs[attr]
	return ok
}

func (t tag) attrContains(attr, substr string) bool {
	return strings.Contains(strings.ToLower(t.attrs[attr]), substr)
}

// isWhatsApp whatsapp.com 또는 wa.me로 연결되는 <a> 태그이거나, class 또는 id에 whatsapp이 포함된 태그인지 판단합니다.
func (t tag) isWhatsApp() bool {
	if t.has(AttrWhatsApp) {
		return false
	}
	if t.name == "a" && (t.attrContains("href", "whatsapp.com") || t.attrContains("href", "wa.me")) {
		return true
	}
	return t.attrContains("class", "whatsapp") || t.attrContains("id", "whatsapp")
}

// isAddToCart class 또는 id가 "add...cart" 형태인 장바구니 담기 버튼인지 판단합니다.
// add_to_cart_button, single_add_to_cart_button 클래스도 이 형태에 포함됩니다.
func (t tag) isAddToCart() bool {
	if t.has(AttrAddToCart) {
		return false
	}
	return matchesAddCart(t.attrs["class"]) || matchesAddCart(t.attrs["id"])
}

// matchesAddCart "add" 뒤 어딘가에 "cart"가 나오는지 확인합니다.
func matchesAddCart(value string) bool {
	value = strings.ToLower(value)
	i := strings.Index(value, "add")
	return i >= 0 && strings.Contains(value[i+len("add"):], "cart")
}

// insertAttrs 태그 원문의 닫는 '>'('/>') 바로 앞에 attrs를 ="true" 값으로 삽입합니다.
func insertAttrs(raw []byte, attrs []string) []byte {
	if len(attrs) == 0 {
		return raw
	}

	end := len(raw) - 1
	if end < 0 || raw[end] != '>' {
		return raw
	}
	if end > 0 && raw[end-1] == '/' {
		end--
	}

	var buf bytes.Buffer
	buf.Grow(len(raw) + len(attrs)*32)
	buf.Write(bytes.TrimRight(raw[:end], " \t\r\n"))
	for _, attr := range attrs {
		buf.WriteString(" " + attr + `="true"`)
	}
	if end < len(raw)-1 {
		buf.WriteString(" ")
	}
	buf.Write(raw[end:])

	return buf.Bytes()
}
