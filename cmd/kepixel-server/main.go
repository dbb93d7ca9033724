package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/analytics/collector"
	"github.com/darkkaiser/kepixel-server/internal/config"
	"github.com/darkkaiser/kepixel-server/internal/host"
	"github.com/darkkaiser/kepixel-server/internal/metrics"
	"github.com/darkkaiser/kepixel-server/internal/nonce"
	"github.com/darkkaiser/kepixel-server/internal/pkg/version"
	"github.com/darkkaiser/kepixel-server/internal/render"
	"github.com/darkkaiser/kepixel-server/internal/service/api"
	apiconstants "github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	"github.com/darkkaiser/kepixel-server/internal/service/delivery"
	"github.com/darkkaiser/kepixel-server/internal/service/donation"
	"github.com/darkkaiser/kepixel-server/internal/store"
	"github.com/darkkaiser/kepixel-server/internal/tracking"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/shopspring/decimal"
)

// @title kepixel Server API
// @version 1.0.0
// @description 호스트 사이트(WordPress, WooCommerce, GiveWP)의 페이지와 이벤트를 kepixel 추적 스크립트 및 서버 측 호출로 변환하는 REST API입니다.
// @description
// @description ## 주요 기능
// @description - 페이지 요청에 대한 로더, 식별, 페이지 조회, 전자상거래 추적 스크립트 생성
// @description - 장바구니 담기 상품 정보 조회 (브라우저에서 nonce로 호출)
// @description - 본문 HTML의 WhatsApp 링크, 장바구니 버튼 속성 부여
// @description - 양식 제출, 회원가입, 후원 완료 이벤트 기록
// @description
// @description ## 인증 방법
// @description 설정 파일(kepixel-server.json)의 api.sites에 등록된 사이트 ID와 API Key를 사용합니다.
// @description X-Site-Id, X-Api-Key 헤더로 전달하며, 헤더를 보낼 수 없으면 본문의 site_id와 api_key 쿼리 파라미터를 사용할 수 있습니다.

// @contact.name DarkKaiser
// @contact.url https://github.com/DarkKaiser

// @license.name MIT

// @BasePath /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-Api-Key
// @description 사이트 인증용 API Key

const (
	banner = `
  _                     _              _
 | | __ ___  _ __  (_) __  __  ___ | |
 | |/ // _ \| '_ \ | | \ \/ / / _ \| |
 |   <|  __/| |_) || |  >  < |  __/| |
 |_|\_\\___|| .__/ |_| /_/\_\ \___||_|
            |_|                          %s
                                                        developed by DarkKaiser
--------------------------------------------------------------------------------
`

	// storageOpenTimeout 저장소 연결(Redis Ping 등)에 허용되는 최대 시간
	storageOpenTimeout = 10 * time.Second
)

// service main이 시작하고 종료를 기다리는 서비스입니다.
type service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}

func main() {
	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	configFile := config.DefaultFilename
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}

	appConfig, err := config.LoadWithFile(configFile)
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName)
	}
	logOpts.AccessLogComponent = apiconstants.ComponentMiddlewareAccessLog

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	applog.SetDebugMode(appConfig.Debug)

	// 추적 스크립트와 API 응답의 금액은 따옴표 없는 숫자로 출력한다.
	decimal.MarshalJSONWithoutQuotes = true

	buildInfo := version.Get()
	fmt.Printf(banner, buildInfo.Version)

	applog.WithComponentAndFields("main", applog.Fields{
		"version": buildInfo.String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
		"storage": appConfig.Storage.Driver,
		"sites":   len(appConfig.API.Sites),
	}).Info("서버 초기화 시작")

	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(warning)
	}

	services, closer, err := buildServices(appConfig, buildInfo)
	if err != nil {
		applog.WithComponentAndFields("main", applog.Fields{
			"error": err,
		}).Error("서비스 구성 실패")
		os.Exit(1)
	}
	defer closer.Close()

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields("main", applog.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel()
			serviceStopWG.Wait()

			_ = closer.Close()
			applog.StandardLogger().Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
		}
	}

	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC

	applog.WithComponent("main").Info("종료 신호를 수신했습니다")
	cancel()
	serviceStopWG.Wait()
}

// buildServices 설정으로부터 도메인 컴포넌트를 생성하고 시작할 서비스 목록을 반환합니다.
// 반환된 io.Closer는 모든 서비스가 종료된 후 저장소를 닫는 데 사용합니다.
func buildServices(appConfig *config.AppConfig, buildInfo version.Info) ([]service, io.Closer, error) {
	m := metrics.New()

	ctx, cancel := context.WithTimeout(context.Background(), storageOpenTimeout)
	defer cancel()

	s, err := store.Open(ctx, appConfig.Storage)
	if err != nil {
		return nil, nil, err
	}

	nonces, err := nonce.NewManager(appConfig.Nonce.Secret, appConfig.Nonce.TTL)
	if err != nil {
		_ = s.Close()
		return nil, nil, err
	}

	c := collector.New(collector.Config{
		Endpoint:   appConfig.Collector.Endpoint,
		Timeout:    appConfig.Collector.Timeout,
		MaxRetries: appConfig.Collector.MaxRetries,
		RetryDelay: appConfig.Collector.RetryDelay,
		RateLimit:  appConfig.Collector.RateLimit,
		UserAgent:  version.UserAgent(config.AppName),
		Observer:   m.ObserveCollectorRequest,
	})

	donations := donation.NewService(s, m, appConfig.Tracking.DefaultCurrency)
	donations.OnTracked(func(_ context.Context, siteID string, d *host.Donation, e tracking.DonationEvent) {
		applog.WithComponentAndFields("main", applog.Fields{
			"site_id":     siteID,
			"donation_id": d.ID,
			"event":       e.Event,
		}).Debug("후원 완료 이벤트가 전송 대기열에 추가되었습니다")
	})

	deliveryService := delivery.NewService(appConfig.Delivery, appConfig.API.Sites, s, c, m)
	apiService := api.NewService(appConfig, api.Dependencies{
		Renderer:  render.New(nonces, render.WithObserver(m.ObserveCall)),
		Nonces:    nonces,
		Store:     s,
		Donations: donations,
		Metrics:   m,
	}, buildInfo)

	return []service{deliveryService, apiService}, s, nil
}
