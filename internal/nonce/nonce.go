// Package nonce 브라우저가 보내는 요청을 보호하기 위한 시간 제한 토큰을 발급하고 검증합니다.
//
// 토큰은 (tick, action, 사이트, 세션)을 서버 비밀 키로 서명한 HMAC-SHA256 값의 앞부분입니다.
// tick은 TTL의 절반 단위로 증가하며, 현재 tick과 직전 tick의 토큰을 모두 유효한 것으로 인정하므로
// 발급된 토큰의 실제 유효 시간은 TTL/2 이상 TTL 이하입니다.
package nonce

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
)

// ActionAddToCart 장바구니 상품 조회 요청에 사용되는 nonce action입니다.
const ActionAddToCart = "kepixel_add_to_cart_nonce"

// tokenLength 발급되는 토큰의 길이(16진수 문자 수)입니다.
const tokenLength = 20

// ErrInvalidNonce 토큰이 비어 있거나, 만료되었거나, 서명이 일치하지 않을 때 반환하는 에러입니다.
var ErrInvalidNonce = apperrors.New(apperrors.Forbidden, "보안 토큰(nonce)이 유효하지 않습니다")

// Manager nonce 발급과 검증을 담당합니다. 여러 고루틴에서 동시에 사용해도 안전합니다.
type Manager struct {
	secret []byte
	tick   time.Duration

	now func() time.Time
}

// Option Manager 생성 옵션입니다.
type Option func(*Manager)

// WithClock 현재 시각을 구하는 함수를 지정합니다.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager 새로운 Manager를 생성합니다.
func NewManager(secret string, ttl time.Duration, opts ...Option) (*Manager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "nonce 서명 키가 비어있습니다")
	}
	if ttl < 2*time.Second {
		return nil, apperrors.Newf(apperrors.InvalidInput, "nonce 유효 시간이 너무 짧습니다 (ttl: %s)", ttl)
	}

	m := &Manager{
		secret: []byte(secret),
		tick:   ttl / 2,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Create action에 대한 토큰을 발급합니다. siteID와 session은 토큰을 특정 사이트의 방문자 세션에 묶습니다.
func (m *Manager) Create(action, siteID, session string) string {
	return m.sign(m.currentTick(), action, siteID, session)
}

// Verify token이 현재 또는 직전 tick에 같은 인자로 발급된 토큰인지 검증합니다.
func (m *Manager) Verify(token, action, siteID, session string) error {
	token = strings.TrimSpace(token)
	if len(token) != tokenLength {
		return ErrInvalidNonce
	}

	tick := m.currentTick()
	for _, t := range []int64{tick, tick - 1} {
		if hmac.Equal([]byte(token), []byte(m.sign(t, action, siteID, session))) {
			return nil
		}
	}

	return ErrInvalidNonce
}

func (m *Manager) currentTick() int64 {
	return m.now().UnixNano() / int64(m.tick)
}

func (m *Manager) sign(tick int64, action, siteID, session string) string {
	mac := hmac.New(sha256.New, m.secret)
	for _, part := range []string{strconv.FormatInt(tick, 10), action, siteID, session} {
		// 길이 접두사로 경계를 구분하여 ("ab","c")와 ("a","bc")가 같은 입력이 되지 않도록 한다.
		mac.Write([]byte(strconv.Itoa(len(part)) + ":" + part + "|"))
	}

	return hex.EncodeToString(mac.Sum(nil))[:tokenLength]
}
