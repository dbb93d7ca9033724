package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestClient(t Transport, opts ...Option) *Client {
	base := []Option{
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() string { return "msg-1" }),
	}
	return NewClient(t, append(base, opts...)...)
}

func TestClient_Track(t *testing.T) {
	t.Parallel()

	t.Run("성공: 호출 필드 채움", func(t *testing.T) {
		t.Parallel()

		rec := NewRecorder()
		c := newTestClient(rec)

		require.NoError(t, c.Track(context.Background(), "Product Viewed", Properties{"product_id": "42"}))

		calls := rec.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, TypeTrack, calls[0].Type)
		assert.Equal(t, "Product Viewed", calls[0].Event)
		assert.Equal(t, "42", calls[0].Properties["product_id"])
		assert.Equal(t, "msg-1", calls[0].MessageID)
		assert.Equal(t, fixedTime, calls[0].Timestamp)
	})

	t.Run("성공: nil 속성은 빈 객체", func(t *testing.T) {
		t.Parallel()

		rec := NewRecorder()
		require.NoError(t, newTestClient(rec).Track(context.Background(), "CompleteRegistration", nil))

		require.Len(t, rec.Calls(), 1)
		assert.NotNil(t, rec.Calls()[0].Properties)
		assert.Empty(t, rec.Calls()[0].Properties)
	})

	t.Run("실패: 빈 이벤트 이름", func(t *testing.T) {
		t.Parallel()

		rec := NewRecorder()
		err := newTestClient(rec).Track(context.Background(), "  ", nil)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
		assert.Empty(t, rec.Calls())
	})

	t.Run("실패: 전송 오류 전파", func(t *testing.T) {
		t.Parallel()

		rec := NewRecorder()
		rec.FailWith(errors.New("boom"))

		observed := 0
		c := newTestClient(rec, WithObserver(func(Call) { observed++ }))

		assert.EqualError(t, c.Track(context.Background(), "X", nil), "boom")
		assert.Zero(t, observed)
	})
}

func TestClient_Disabled(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	tests := []struct {
		name   string
		client *Client
	}{
		{"비활성화 옵션", newTestClient(rec, WithEnabled(false))},
		{"Transport 없음", NewClient(nil)},
		{"nil Client", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			assert.False(t, tt.client.Enabled())
			assert.NoError(t, tt.client.Track(ctx, "", nil))
			assert.NoError(t, tt.client.Identify(ctx, "", nil))
			assert.NoError(t, tt.client.Page(ctx))
		})
	}

	assert.Empty(t, rec.Calls())
}

func TestClient_Identify(t *testing.T) {
	t.Parallel()

	t.Run("성공: 옵션 포함", func(t *testing.T) {
		t.Parallel()

		rec := NewRecorder()
		c := newTestClient(rec)

		require.NoError(t, c.Identify(context.Background(), "7", Traits{"email": "a@b.c"}, CallOptions{}))

		call := rec.Calls()[0]
		assert.Equal(t, TypeIdentify, call.Type)
		assert.Equal(t, "7", call.UserID)
		assert.Equal(t, "a@b.c", call.Traits["email"])
		assert.NotNil(t, call.Options)
	})

	t.Run("성공: 옵션 생략", func(t *testing.T) {
		t.Parallel()

		rec := NewRecorder()
		require.NoError(t, newTestClient(rec).Identify(context.Background(), "donor@example.com", nil))

		call := rec.Calls()[0]
		assert.Nil(t, call.Options)
		assert.NotNil(t, call.Traits)
	})

	t.Run("실패: 빈 사용자 ID", func(t *testing.T) {
		t.Parallel()

		err := newTestClient(NewRecorder()).Identify(context.Background(), "", Traits{})
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})
}

func TestClient_ObserverAndPage(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	var observed []CallType
	c := newTestClient(rec, WithObserver(func(call Call) { observed = append(observed, call.Type) }))

	ctx := context.Background()
	require.NoError(t, c.Identify(ctx, "1", nil, nil))
	require.NoError(t, c.Page(ctx))
	require.NoError(t, c.TrackEvent(ctx, Event{Name: "Cart Viewed", Properties: Properties{"cart_id": "c"}}))

	assert.Equal(t, []CallType{TypeIdentify, TypePage, TypeTrack}, observed)
	require.Len(t, rec.Events(), 1)
	assert.Equal(t, "Cart Viewed", rec.Events()[0].Name)

	rec.Reset()
	assert.Empty(t, rec.Calls())
}
