package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	_ "github.com/darkkaiser/kepixel-server/docs"
	"github.com/darkkaiser/kepixel-server/internal/config"
	"github.com/darkkaiser/kepixel-server/internal/metrics"
	"github.com/darkkaiser/kepixel-server/internal/nonce"
	"github.com/darkkaiser/kepixel-server/internal/pkg/version"
	"github.com/darkkaiser/kepixel-server/internal/render"
	apiauth "github.com/darkkaiser/kepixel-server/internal/service/api/auth"
	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	"github.com/darkkaiser/kepixel-server/internal/service/api/handler/system"
	v1 "github.com/darkkaiser/kepixel-server/internal/service/api/v1"
	v1handler "github.com/darkkaiser/kepixel-server/internal/service/api/v1/handler"
	"github.com/darkkaiser/kepixel-server/internal/service/donation"
	"github.com/darkkaiser/kepixel-server/internal/store"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/labstack/echo/v4"
)

const (
	// shutdownTimeout Graceful Shutdown 시 최대 대기 시간 (5초)
	shutdownTimeout = 5 * time.Second
)

// Dependencies API 서비스가 핸들러에 연결하는 도메인 컴포넌트입니다. Metrics를 제외한 모든 항목은 필수입니다.
type Dependencies struct {
	Renderer  *render.Renderer
	Nonces    *nonce.Manager
	Store     store.Store
	Donations *donation.Service
	Metrics   *metrics.Metrics
}

// Service kepixel API 서버의 생명주기를 관리하는 서비스입니다.
//
// 서비스는 다음 역할을 수행합니다:
//   - Echo 기반 HTTP/HTTPS 서버 시작 및 종료
//   - 사이트 인증과 v1 API 라우팅 설정
//   - 시스템 엔드포인트(/health, /version, /metrics)와 Swagger UI 제공
//   - Graceful Shutdown 지원 (5초 타임아웃)
//
// Start() 메서드로 시작하고, context 취소로 종료됩니다.
type Service struct {
	appConfig *config.AppConfig

	deps Dependencies

	buildInfo version.Info

	running   bool
	runningMu sync.Mutex
}

// NewService Service 인스턴스를 생성합니다.
func NewService(appConfig *config.AppConfig, deps Dependencies, buildInfo version.Info) *Service {
	if appConfig == nil {
		panic(constants.PanicMsgAppConfigRequired)
	}
	if deps.Renderer == nil {
		panic(constants.PanicMsgRendererRequired)
	}
	if deps.Nonces == nil {
		panic(constants.PanicMsgNonceManagerRequired)
	}
	if deps.Store == nil {
		panic(constants.PanicMsgStoreRequired)
	}
	if deps.Donations == nil {
		panic(constants.PanicMsgDonationRequired)
	}

	return &Service{
		appConfig: appConfig,

		deps: deps,

		buildInfo: buildInfo,
	}
}

// Start API 서비스를 시작합니다.
//
// 이 함수는 즉시 반환되며, 실제 서버는 고루틴에서 실행됩니다.
// 서버가 완전히 종료되면 serviceStopWG.Done()이 호출됩니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarting)

	if s.deps.Store == nil {
		defer serviceStopWG.Done()
		return ErrStoreNotInitialized
	}

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(constants.ComponentService).Warn(constants.LogMsgServiceAlreadyStarted)
		return nil
	}

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarted)

	return nil
}

func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer Echo 서버 인스턴스를 생성하고 핸들러와 라우트를 연결합니다.
func (s *Service) setupServer() *echo.Echo {
	authenticator := apiauth.NewAuthenticator(s.appConfig.API.Sites)

	systemHandler := system.NewHandler(s.deps.Store, s.buildInfo)
	v1Handler := v1handler.NewHandler(v1handler.Dependencies{
		Tracking:      s.appConfig.Tracking,
		Authenticator: authenticator,
		Renderer:      s.deps.Renderer,
		Nonces:        s.deps.Nonces,
		Store:         s.deps.Store,
		Donations:     s.deps.Donations,
		Metrics:       s.deps.Metrics,
	})

	e := NewHTTPServer(HTTPServerConfig{
		Debug:        s.appConfig.Debug,
		AllowOrigins: s.appConfig.API.CORS.AllowOrigins,
	})

	RegisterRoutes(e, systemHandler, s.deps.Metrics)
	v1.RegisterRoutes(e, v1Handler, authenticator)

	return e
}

// startHTTPServer 설정에 따라 HTTP 또는 HTTPS 서버를 시작합니다. 서버가 종료되면 done 채널을 닫습니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	ws := s.appConfig.API.WS
	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port": ws.ListenPort,
		"tls":  ws.TLSServer,
	}).Debug(constants.LogMsgServiceHTTPServerStarting)

	var err error
	if ws.TLSServer {
		err = e.StartTLS(fmt.Sprintf(":%d", ws.ListenPort), ws.TLSCertFile, ws.TLSKeyFile)
	} else {
		err = e.Start(fmt.Sprintf(":%d", ws.ListenPort))
	}

	s.handleServerError(err)
}

// handleServerError HTTP 서버가 반환한 에러를 기록합니다. http.ErrServerClosed는 정상 종료로 취급합니다.
func (s *Service) handleServerError(err error) {
	if err == nil {
		return
	}

	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceHTTPServerStopped)
		return
	}

	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port":  s.appConfig.API.WS.ListenPort,
		"error": err,
	}).Error(constants.LogMsgServiceHTTPServerFatalError)
}

// waitForShutdown 종료 신호를 기다린 뒤 Graceful Shutdown을 수행합니다.
// HTTP 서버가 먼저 종료된 경우(포트 바인딩 실패 등)에는 Shutdown 없이 상태만 정리합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopping)
	case <-httpServerDone:
		applog.WithComponent(constants.ComponentService).Error(constants.LogMsgServiceUnexpectedExit)

		s.cleanup()

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": err,
		}).Error(constants.LogMsgServiceHTTPServerShutdownError)
	}

	<-httpServerDone

	s.cleanup()
}

func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopped)
}
