// Package donation 결제가 완료된 후원을 서버 측에서 한 번만 기록하고, 수집 서버로 전달할 호출을 전송 대기열에 추가합니다.
package donation

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/config"
	"github.com/darkkaiser/kepixel-server/internal/host"
	"github.com/darkkaiser/kepixel-server/internal/metrics"
	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/darkkaiser/kepixel-server/internal/store"
	"github.com/darkkaiser/kepixel-server/internal/tracking"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/darkkaiser/kepixel-server/pkg/strutil"
)

// component 후원 서비스 로깅용 컴포넌트 이름
const component = "donation.service"

// EventTracked 후원이 기록된 직후 리스너에 전달되는 이벤트 이름입니다.
const EventTracked = "donation.tracked"

// Status 후원 처리 결과입니다.
type Status string

const (
	// StatusTracked 후원이 기록되고 전송 대기열에 추가되었습니다.
	StatusTracked Status = "tracked"

	// StatusDuplicate 이미 기록된 후원입니다.
	StatusDuplicate Status = "duplicate"

	// StatusSkipped 사이트의 추적이 비활성화되었거나 쓰기 키가 없어 기록하지 않았습니다.
	StatusSkipped Status = "skipped"
)

// Result 후원 처리 결과입니다.
type Result struct {
	Status Status                  `json:"status"`
	Event  *tracking.DonationEvent `json:"event,omitempty"`
}

// Listener 후원이 기록될 때마다 호출되는 함수입니다.
type Listener func(ctx context.Context, siteID string, donation *host.Donation, event tracking.DonationEvent)

// Service 후원 완료를 기록합니다.
type Service struct {
	store   store.Store
	metrics *metrics.Metrics

	defaultCurrency string

	now func() time.Time

	listenersMu sync.RWMutex
	listeners   []Listener
}

// NewService 새로운 Service를 생성합니다. defaultCurrency는 사이트에 통화가 설정되지 않았을 때 사용됩니다.
func NewService(s store.Store, m *metrics.Metrics, defaultCurrency string) *Service {
	if s == nil {
		panic("Store는 필수입니다")
	}

	return &Service{
		store:           s,
		metrics:         m,
		defaultCurrency: defaultCurrency,
		now:             time.Now,
	}
}

// OnTracked 후원이 기록될 때 호출될 리스너를 등록합니다.
func (s *Service) OnTracked(l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	s.listeners = append(s.listeners, l)
}

func trackedKey(siteID string, donationID int64) string {
	return "donation/" + siteID + "/" + strconv.FormatInt(donationID, 10) + "/tracked"
}

func eventKey(siteID string, donationID int64) string {
	return "donation/" + siteID + "/" + strconv.FormatInt(donationID, 10) + "/event"
}

// Complete 결제 완료된 후원을 기록합니다.
//
// 추적이 활성화되어 있고 쓰기 키가 설정된 사이트만 처리하며, 같은 후원은 한 번만 기록합니다.
// 기록된 후원의 identify(후원자 이메일이 있을 때)와 "Order Completed" 호출은 전송 대기열에 추가되어
// 전송 스케줄러가 수집 서버로 전달합니다.
func (s *Service) Complete(ctx context.Context, site config.SiteConfig, d *host.Donation) (Result, error) {
	if !site.TrackingEnabled() || site.WriteKey == "" {
		return Result{Status: StatusSkipped}, nil
	}
	if d == nil || d.ID <= 0 {
		return Result{}, apperrors.New(apperrors.InvalidInput, "후원 ID가 올바르지 않습니다")
	}

	fields := applog.Fields{
		"site_id":     site.ID,
		"donation_id": d.ID,
	}

	claimed, err := s.store.Claim(ctx, trackedKey(site.ID, d.ID))
	if err != nil {
		return Result{}, err
	}
	if !claimed {
		applog.WithComponentAndFields(component, fields).Debug("이미 기록된 후원이므로 건너뜁니다")
		return Result{Status: StatusDuplicate}, nil
	}

	event, records, err := s.persist(ctx, site, d)
	if err != nil {
		// 호스트가 같은 후원을 다시 보내면 처음부터 처리되도록 선점을 해제한다.
		if releaseErr := s.store.Release(ctx, trackedKey(site.ID, d.ID)); releaseErr != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"site_id":     site.ID,
				"donation_id": d.ID,
				"error":       releaseErr,
			}).Error("후원 선점 해제 실패: 재시도 시 중복으로 처리될 수 있습니다")
		}
		return Result{}, err
	}

	s.metrics.ObserveDonation(site.ID)
	s.notify(ctx, site.ID, d, event)

	applog.WithComponentAndFields(component, applog.Fields{
		"site_id":     site.ID,
		"donation_id": d.ID,
		"records":     len(records),
	}).Info("후원 완료 이벤트를 기록했습니다")

	return Result{Status: StatusTracked, Event: &event}, nil
}

// persist 후원 이벤트 데이터를 저장하고 전송 대기열에 추가합니다.
func (s *Service) persist(ctx context.Context, site config.SiteConfig, d *host.Donation) (tracking.DonationEvent, []store.Record, error) {
	builder := tracking.NewBuilder(host.Site{
		Name:     site.Name,
		Currency: strutil.FirstNonEmpty(site.Currency, s.defaultCurrency),
		GiveWP:   true,
	}, tracking.WithClock(s.now))
	event := builder.DonationServerEvent(d)

	if err := s.store.PutJSON(ctx, eventKey(site.ID, d.ID), event); err != nil {
		return event, nil, apperrors.Wrap(err, apperrors.Internal, "후원 이벤트 데이터 저장에 실패했습니다")
	}

	records, err := s.records(ctx, site.ID, event)
	if err != nil {
		return event, nil, err
	}
	if err := s.store.Enqueue(ctx, records...); err != nil {
		return event, nil, apperrors.Wrap(err, apperrors.Internal, "후원 이벤트를 전송 대기열에 추가하지 못했습니다")
	}

	return event, records, nil
}

// records 후원 이벤트를 전송 대기열 레코드로 변환합니다. 호출 시각은 후원 일시입니다.
func (s *Service) records(ctx context.Context, siteID string, event tracking.DonationEvent) ([]store.Record, error) {
	var records []store.Record
	createdAt := s.now()

	client := analytics.NewClient(
		analytics.TransportFunc(func(_ context.Context, call analytics.Call) error {
			// 대기열이 생성 시각 순이므로 호출 순서(identify, track)대로 꺼내지도록 1µs씩 차이를 둔다.
			at := createdAt.Add(time.Duration(len(records)) * time.Microsecond)
			records = append(records, store.NewRecord(siteID, call, at))
			return nil
		}),
		analytics.WithClock(func() time.Time { return event.Timestamp }),
	)

	if event.UserID != "" {
		if err := client.Identify(ctx, event.UserID, event.Traits); err != nil {
			return nil, err
		}
	}
	if err := client.Track(ctx, event.Event, event.Properties); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *Service) notify(ctx context.Context, siteID string, d *host.Donation, event tracking.DonationEvent) {
	s.listenersMu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.listenersMu.RUnlock()

	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					applog.WithComponentAndFields(component, applog.Fields{
						"site_id":     siteID,
						"donation_id": d.ID,
						"event":       EventTracked,
						"panic":       fmt.Sprint(r),
					}).Error("후원 기록 리스너 실행 중 Panic이 발생했습니다")
				}
			}()

			l(ctx, siteID, d, event)
		}()
	}
}
