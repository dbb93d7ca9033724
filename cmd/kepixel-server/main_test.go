package main

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/config"
	"github.com/darkkaiser/kepixel-server/internal/pkg/version"
	"github.com/darkkaiser/kepixel-server/internal/service/api"
	"github.com/darkkaiser/kepixel-server/internal/service/delivery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppMetadata(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "kepixel-server", config.AppName)
	assert.Equal(t, "kepixel-server.json", config.DefaultFilename)
}

func TestBanner(t *testing.T) {
	t.Parallel()

	t.Run("성공: 템플릿 형식", func(t *testing.T) {
		t.Parallel()

		assert.Contains(t, banner, "%s")
		assert.Contains(t, banner, "DarkKaiser")
	})

	t.Run("성공: 버전 포맷팅", func(t *testing.T) {
		t.Parallel()

		v := version.Version()
		output := fmt.Sprintf(banner, v)
		assert.Contains(t, output, v)
		assert.NotContains(t, output, "%s")
	})
}

func TestSampleConfig(t *testing.T) {
	t.Parallel()

	appConfig, err := config.LoadWithFile(filepath.Join("..", "..", config.DefaultFilename))
	require.NoError(t, err)

	assert.Equal(t, config.StorageDriverFile, appConfig.Storage.Driver)
	assert.NotEmpty(t, appConfig.API.Sites)
	assert.Equal(t, "https://kepixel.example.com", appConfig.Tracking.PublicURL)
}

func newTestAppConfig(t *testing.T) *config.AppConfig {
	t.Helper()

	appConfig := &config.AppConfig{}
	appConfig.Tracking.DefaultCurrency = "USD"
	appConfig.Collector.Endpoint = "http://localhost:9"
	appConfig.Collector.Timeout = time.Second
	appConfig.Storage.Driver = config.StorageDriverFile
	appConfig.Storage.Dir = t.TempDir()
	appConfig.Delivery = config.DeliveryConfig{TimeSpec: "@every 1m", BatchSize: 10, MaxAttempts: 3}
	appConfig.Nonce = config.NonceConfig{Secret: "0123456789abcdef0123", TTL: time.Hour}
	appConfig.API.WS.ListenPort = 2443
	appConfig.API.CORS.AllowOrigins = []string{"*"}
	appConfig.API.Sites = []config.SiteConfig{{ID: "shop", APIKey: "key-1234", WriteKey: "wk_1"}}
	return appConfig
}

func TestBuildServices(t *testing.T) {
	t.Parallel()

	t.Run("성공: 전송 서비스와 API 서비스 구성", func(t *testing.T) {
		t.Parallel()

		services, closer, err := buildServices(newTestAppConfig(t), version.Info{Version: "test"})
		require.NoError(t, err)
		defer closer.Close()

		require.Len(t, services, 2)
		assert.IsType(t, &delivery.Service{}, services[0])
		assert.IsType(t, &api.Service{}, services[1])
	})

	t.Run("실패: 지원하지 않는 저장소 드라이버", func(t *testing.T) {
		t.Parallel()

		appConfig := newTestAppConfig(t)
		appConfig.Storage.Driver = "memory"

		_, _, err := buildServices(appConfig, version.Info{})
		assert.Error(t, err)
	})

	t.Run("실패: Nonce 유효 시간이 너무 짧음", func(t *testing.T) {
		t.Parallel()

		appConfig := newTestAppConfig(t)
		appConfig.Nonce.TTL = time.Second

		_, _, err := buildServices(appConfig, version.Info{})
		assert.Error(t, err)
	})
}
