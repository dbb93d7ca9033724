// Package delivery 전송 대기열(outbox)에 쌓인 서버 측 추적 호출을 Cron 스케줄에 맞춰 수집 서버로 전달하는 서비스를 제공합니다.
package delivery

import (
	"context"
	"sync"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/config"
	"github.com/darkkaiser/kepixel-server/internal/metrics"
	"github.com/darkkaiser/kepixel-server/internal/store"
	"github.com/darkkaiser/kepixel-server/pkg/cronx"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/robfig/cron/v3"
)

// component Delivery 서비스의 로깅용 컴포넌트 이름
const component = "delivery.service"

// flushTimeout 한 번의 전송 주기에 허용되는 최대 시간
const flushTimeout = time.Minute

// Sender 호출 묶음을 수집 서버로 전송합니다.
type Sender interface {
	SendBatch(ctx context.Context, writeKey string, calls []analytics.Call) error
}

// Summary 한 번의 전송 주기 결과입니다.
type Summary struct {
	Delivered int
	Failed    int
	Abandoned int
}

// Service 전송 대기 중인 레코드를 주기적으로 수집 서버에 전달합니다.
type Service struct {
	cfg config.DeliveryConfig

	// writeKeys 사이트 ID별 쓰기 키입니다.
	writeKeys map[string]string

	store   store.Store
	sender  Sender
	metrics *metrics.Metrics

	now func() time.Time

	cron *cron.Cron

	// flushMu 수동 전송(Flush)과 스케줄 전송이 같은 레코드를 동시에 처리하지 않도록 합니다.
	flushMu sync.Mutex

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Delivery 서비스 인스턴스를 생성합니다.
func NewService(cfg config.DeliveryConfig, sites []config.SiteConfig, s store.Store, sender Sender, m *metrics.Metrics) *Service {
	if s == nil {
		panic("Store는 필수입니다")
	}
	if sender == nil {
		panic("Sender는 필수입니다")
	}

	writeKeys := make(map[string]string, len(sites))
	for _, site := range sites {
		writeKeys[site.ID] = site.WriteKey
	}

	return &Service{
		cfg:       cfg,
		writeKeys: writeKeys,
		store:     s,
		sender:    sender,
		metrics:   m,
		now:       time.Now,
	}
}

// Start 전송 스케줄을 Cron 엔진에 등록하고 시작합니다.
//
// 매개변수:
//   - serviceStopCtx: 서비스 종료 신호를 받기 위한 Context
//   - serviceStopWG: 서비스 종료 완료를 알리기 위한 WaitGroup
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: Delivery 서비스 초기화 프로세스를 시작합니다")

	if s.store == nil {
		serviceStopWG.Done()
		return ErrStoreNotInitialized
	}
	if s.sender == nil {
		serviceStopWG.Done()
		return ErrSenderNotInitialized
	}

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Delivery 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// Recover: Panic이 발생해도 다음 주기는 정상 실행
	// SkipIfStillRunning: 이전 전송이 끝나지 않았으면 이번 주기를 건너뜀
	c := cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	if _, err := c.AddFunc(s.cfg.TimeSpec, s.runScheduled); err != nil {
		serviceStopWG.Done()
		return NewErrInvalidCronSpec(s.cfg.TimeSpec, err)
	}

	s.cron = c
	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"time_spec":    s.cfg.TimeSpec,
		"batch_size":   s.cfg.BatchSize,
		"max_attempts": s.cfg.MaxAttempts,
	}).Info("서비스 시작 완료: Delivery 서비스가 정상적으로 초기화되었습니다")

	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 스케줄을 중지하고 진행 중인 전송이 끝날 때까지 기다립니다.
func (s *Service) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("종료 절차 진입: Delivery 서비스 중지 시그널을 수신했습니다")

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Delivery 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// runScheduled Cron 스케줄에 의해 호출됩니다.
//
// 전송 컨텍스트는 서비스 종료 신호와 분리합니다. 종료 시 cron.Stop()이 진행 중인 전송의 완료를 기다리므로
// 레코드 상태 갱신이 중간에 끊기지 않습니다.
func (s *Service) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if _, err := s.Flush(ctx); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Error("전송 실패: 대기 중인 레코드를 처리하지 못했습니다")
	}
}

// Flush 대기 중인 레코드를 최대 batch_size개 읽어 사이트별로 묶어 전송합니다.
//
// 전송에 성공한 레코드는 완료로 표시되고, 실패한 레코드는 시도 횟수와 에러가 기록됩니다.
// 시도 횟수가 max_attempts에 도달한 레코드는 포기(Abandoned) 처리되어 더 이상 전송하지 않습니다.
func (s *Service) Flush(ctx context.Context) (Summary, error) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	var summary Summary

	records, err := s.store.ListPending(ctx, s.cfg.BatchSize)
	if err != nil {
		return summary, err
	}
	if len(records) == 0 {
		return summary, nil
	}

	for _, batch := range groupBySite(records) {
		s.deliver(ctx, batch, &summary)
	}

	s.metrics.ObserveDelivery(metrics.DeliveryDelivered, summary.Delivered)
	s.metrics.ObserveDelivery(metrics.DeliveryFailed, summary.Failed)
	s.metrics.ObserveDelivery(metrics.DeliveryAbandoned, summary.Abandoned)

	applog.WithComponentAndFields(component, applog.Fields{
		"delivered": summary.Delivered,
		"failed":    summary.Failed,
		"abandoned": summary.Abandoned,
	}).Info("전송 주기 완료")

	return summary, nil
}

// siteBatch 같은 사이트(쓰기 키)로 전송될 레코드 묶음입니다.
type siteBatch struct {
	siteID  string
	records []store.Record
}

// groupBySite 레코드를 사이트별로 묶습니다. 묶음과 묶음 안의 레코드는 입력 순서를 유지합니다.
func groupBySite(records []store.Record) []siteBatch {
	var batches []siteBatch
	index := map[string]int{}
	for _, r := range records {
		i, ok := index[r.SiteID]
		if !ok {
			i = len(batches)
			index[r.SiteID] = i
			batches = append(batches, siteBatch{siteID: r.SiteID})
		}
		batches[i].records = append(batches[i].records, r)
	}
	return batches
}

func (s *Service) deliver(ctx context.Context, batch siteBatch, summary *Summary) {
	var err error
	if writeKey := s.writeKeys[batch.siteID]; writeKey == "" {
		err = newErrWriteKeyMissing(batch.siteID)
	} else {
		calls := make([]analytics.Call, 0, len(batch.records))
		for _, r := range batch.records {
			calls = append(calls, r.Call)
		}
		err = s.sender.SendBatch(ctx, writeKey, calls)
	}

	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"site_id": batch.siteID,
			"records": len(batch.records),
			"error":   err,
		}).Warn("수집 서버 전송 실패: 다음 주기에 다시 시도합니다")
	}

	abandoned := 0
	now := s.now().UTC()
	for _, r := range batch.records {
		r.Attempts++
		if err == nil {
			r.Delivered = true
			r.DeliveredAt = &now
			r.LastError = ""
			summary.Delivered++
		} else {
			r.LastError = err.Error()
			if r.Attempts >= s.cfg.MaxAttempts {
				r.Abandoned = true
				abandoned++
			} else {
				summary.Failed++
			}
		}

		if updateErr := s.store.UpdateRecord(ctx, r); updateErr != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"site_id":   batch.siteID,
				"record_id": r.ID,
				"error":     updateErr,
			}).Error("레코드 상태 갱신 실패: 다음 주기에 다시 전송될 수 있습니다")
		}
	}

	if abandoned > 0 {
		summary.Abandoned += abandoned
		applog.WithComponentAndFields(component, applog.Fields{
			"site_id":      batch.siteID,
			"abandoned":    abandoned,
			"max_attempts": s.cfg.MaxAttempts,
		}).Error("최대 시도 횟수를 초과한 레코드의 전송을 포기했습니다")
	}
}
