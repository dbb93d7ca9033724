package donation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/config"
	"github.com/darkkaiser/kepixel-server/internal/host"
	"github.com/darkkaiser/kepixel-server/internal/metrics"
	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/darkkaiser/kepixel-server/internal/store"
	"github.com/darkkaiser/kepixel-server/internal/tracking"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var donatedAt = time.Date(2026, 2, 14, 18, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()

	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	svc := NewService(s, metrics.New(), "USD")
	svc.now = func() time.Time { return time.Date(2026, 2, 14, 18, 31, 0, 0, time.UTC) }
	return svc, s
}

func testSite() config.SiteConfig {
	return config.SiteConfig{ID: "charity", APIKey: "k", WriteKey: "wk_1", Name: "희망 재단", Currency: "KRW"}
}

func testDonation() *host.Donation {
	return &host.Donation{
		ID:     301,
		Status: host.DonationStatusComplete,
		Total:  decimal.NewFromInt(50000),
		Date:   donatedAt,
		Form:   host.DonationForm{ID: 9, Title: "겨울 나기"},
		Donor: host.Donor{
			Email:     "donor@example.com",
			FirstName: "Min",
			LastName:  "Park",
			Address:   host.BillingAddress{City: "Seoul", Country: "KR"},
		},
	}
}

func TestService_Complete(t *testing.T) {
	t.Parallel()

	t.Run("성공: 후원 기록 및 전송 대기열 추가", func(t *testing.T) {
		t.Parallel()

		svc, s := newTestService(t)

		var (
			mu       sync.Mutex
			received []tracking.DonationEvent
		)
		svc.OnTracked(func(_ context.Context, siteID string, d *host.Donation, e tracking.DonationEvent) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, "charity", siteID)
			assert.Equal(t, int64(301), d.ID)
			received = append(received, e)
		})

		result, err := svc.Complete(context.Background(), testSite(), testDonation())
		require.NoError(t, err)
		require.Equal(t, StatusTracked, result.Status)
		require.NotNil(t, result.Event)

		assert.Equal(t, tracking.EventOrderCompleted, result.Event.Event)
		assert.Equal(t, "donor@example.com", result.Event.UserID)
		assert.Equal(t, "희망 재단", result.Event.Properties["affiliation"])
		assert.Equal(t, "KRW", result.Event.Properties["currency"])
		assert.Equal(t, donatedAt, result.Event.Timestamp)
		assert.Len(t, received, 1)

		var stored tracking.DonationEvent
		require.NoError(t, s.GetJSON(context.Background(), eventKey("charity", 301), &stored))
		assert.Equal(t, "301", stored.Properties["order_id"])

		pending, err := s.ListPending(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, analytics.TypeIdentify, pending[0].Call.Type)
		assert.Equal(t, "donor@example.com", pending[0].Call.UserID)
		assert.Equal(t, analytics.TypeTrack, pending[1].Call.Type)
		assert.Equal(t, tracking.EventOrderCompleted, pending[1].Call.Event)
		for _, r := range pending {
			assert.Equal(t, "charity", r.SiteID)
			assert.Equal(t, donatedAt, r.Call.Timestamp)
			assert.NotEmpty(t, r.Call.MessageID)
		}
	})

	t.Run("성공: 같은 후원은 한 번만 기록", func(t *testing.T) {
		t.Parallel()

		svc, s := newTestService(t)

		first, err := svc.Complete(context.Background(), testSite(), testDonation())
		require.NoError(t, err)
		second, err := svc.Complete(context.Background(), testSite(), testDonation())
		require.NoError(t, err)

		assert.Equal(t, StatusTracked, first.Status)
		assert.Equal(t, StatusDuplicate, second.Status)
		assert.Nil(t, second.Event)

		pending, err := s.ListPending(context.Background(), 10)
		require.NoError(t, err)
		assert.Len(t, pending, 2)
	})

	t.Run("성공: 사이트가 다르면 별도로 기록", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService(t)
		other := testSite()
		other.ID = "other"

		r1, err := svc.Complete(context.Background(), testSite(), testDonation())
		require.NoError(t, err)
		r2, err := svc.Complete(context.Background(), other, testDonation())
		require.NoError(t, err)

		assert.Equal(t, StatusTracked, r1.Status)
		assert.Equal(t, StatusTracked, r2.Status)
	})

	t.Run("성공: 후원자 이메일이 없으면 identify 생략", func(t *testing.T) {
		t.Parallel()

		svc, s := newTestService(t)
		d := testDonation()
		d.Donor.Email = ""

		_, err := svc.Complete(context.Background(), testSite(), d)
		require.NoError(t, err)

		pending, err := s.ListPending(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, analytics.TypeTrack, pending[0].Call.Type)
	})

	t.Run("성공: 추적 비활성화 또는 쓰기 키 없음", func(t *testing.T) {
		t.Parallel()

		svc, s := newTestService(t)

		disabled := false
		noTracking := testSite()
		noTracking.EnableTracking = &disabled
		noKey := testSite()
		noKey.WriteKey = ""

		for _, site := range []config.SiteConfig{noTracking, noKey} {
			result, err := svc.Complete(context.Background(), site, testDonation())
			require.NoError(t, err)
			assert.Equal(t, StatusSkipped, result.Status)
		}

		pending, err := s.ListPending(context.Background(), 10)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("성공: 리스너 Panic은 처리를 중단하지 않음", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService(t)
		called := false
		svc.OnTracked(func(context.Context, string, *host.Donation, tracking.DonationEvent) { panic("boom") })
		svc.OnTracked(func(context.Context, string, *host.Donation, tracking.DonationEvent) { called = true })

		result, err := svc.Complete(context.Background(), testSite(), testDonation())
		require.NoError(t, err)
		assert.Equal(t, StatusTracked, result.Status)
		assert.True(t, called)
	})

	t.Run("실패: 후원 ID 없음", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService(t)

		_, err := svc.Complete(context.Background(), testSite(), &host.Donation{})
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))

		_, err = svc.Complete(context.Background(), testSite(), nil)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})

	t.Run("실패: 대기열 추가 실패 후 재시도하면 기록", func(t *testing.T) {
		t.Parallel()

		_, s := newTestService(t)
		failing := &failingEnqueueStore{Store: s, failures: 1}
		svc := NewService(failing, nil, "USD")

		_, err := svc.Complete(context.Background(), testSite(), testDonation())
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Internal))

		pending, err := s.ListPending(context.Background(), 10)
		require.NoError(t, err)
		assert.Empty(t, pending)

		result, err := svc.Complete(context.Background(), testSite(), testDonation())
		require.NoError(t, err)
		assert.Equal(t, StatusTracked, result.Status)

		pending, err = s.ListPending(context.Background(), 10)
		require.NoError(t, err)
		assert.Len(t, pending, 2)
	})

	t.Run("실패: 이벤트 데이터 저장 실패 시 선점 해제", func(t *testing.T) {
		t.Parallel()

		_, s := newTestService(t)
		svc := NewService(&failingPutStore{Store: s}, nil, "USD")

		_, err := svc.Complete(context.Background(), testSite(), testDonation())
		require.Error(t, err)

		claimed, err := s.Claim(context.Background(), trackedKey("charity", 301))
		require.NoError(t, err)
		assert.True(t, claimed)
	})
}

func TestNewService_NilStore(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewService(nil, nil, "USD") })
}

// failingEnqueueStore 처음 failures번의 Enqueue만 실패시킵니다.
type failingEnqueueStore struct {
	store.Store

	mu       sync.Mutex
	failures int
}

func (f *failingEnqueueStore) Enqueue(ctx context.Context, records ...store.Record) error {
	f.mu.Lock()
	if f.failures > 0 {
		f.failures--
		f.mu.Unlock()
		return errors.New("disk full")
	}
	f.mu.Unlock()

	return f.Store.Enqueue(ctx, records...)
}

type failingPutStore struct {
	store.Store
}

func (f *failingPutStore) PutJSON(context.Context, string, any) error {
	return errors.New("disk full")
}
