package nonce

import (
	"testing"
	"time"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef-test-secret"

func newTestManager(t *testing.T, now *time.Time) *Manager {
	t.Helper()

	m, err := NewManager(testSecret, time.Hour, WithClock(func() time.Time { return *now }))
	require.NoError(t, err)
	return m
}

func flipFirst(s string) string {
	if s[0] == '0' {
		return "1" + s[1:]
	}
	return "0" + s[1:]
}

func TestNewManager(t *testing.T) {
	t.Parallel()

	t.Run("실패: 빈 서명 키", func(t *testing.T) {
		t.Parallel()

		_, err := NewManager("  ", time.Hour)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})

	t.Run("실패: 너무 짧은 유효 시간", func(t *testing.T) {
		t.Parallel()

		_, err := NewManager(testSecret, time.Second)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})
}

func TestManager_Verify(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		action  string
		siteID  string
		session string
		mutate  func(string) string
		wantErr bool
	}{
		{name: "성공: 발급 직후", action: ActionAddToCart, siteID: "shop", session: "s1"},
		{name: "성공: TTL 절반 경과", elapsed: 30 * time.Minute, action: ActionAddToCart, siteID: "shop", session: "s1"},
		{name: "실패: TTL 경과", elapsed: 61 * time.Minute, action: ActionAddToCart, siteID: "shop", session: "s1", wantErr: true},
		{name: "실패: 다른 action", action: "other", siteID: "shop", session: "s1", wantErr: true},
		{name: "실패: 다른 사이트", action: ActionAddToCart, siteID: "blog", session: "s1", wantErr: true},
		{name: "실패: 다른 세션", action: ActionAddToCart, siteID: "shop", session: "s2", wantErr: true},
		{name: "실패: 변조된 토큰", action: ActionAddToCart, siteID: "shop", session: "s1", mutate: flipFirst, wantErr: true},
		{name: "실패: 빈 토큰", action: ActionAddToCart, siteID: "shop", session: "s1", mutate: func(string) string { return "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			now := base
			m := newTestManager(t, &now)

			token := m.Create(ActionAddToCart, "shop", "s1")
			require.Len(t, token, tokenLength)
			if tt.mutate != nil {
				token = tt.mutate(token)
			}

			now = base.Add(tt.elapsed)
			err := m.Verify(token, tt.action, tt.siteID, tt.session)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNonce)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
