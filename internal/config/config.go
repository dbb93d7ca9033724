package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/darkkaiser/kepixel-server/pkg/maputil"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "kepixel-server"

	// DefaultFilename 실행 인자로 경로가 주어지지 않았을 때 읽는 설정 파일명입니다.
	DefaultFilename = AppName + ".json"

	// EnvPrefix 설정을 덮어쓰는 환경 변수의 접두사입니다.
	// 예: KEPIXEL_COLLECTOR__MAX_RETRIES -> collector.max_retries
	EnvPrefix = "KEPIXEL_"
)

// 설정 기본값
const (
	DefaultLoaderURL        = "https://anubis.kepixel.com"
	DefaultCurrency         = "USD"
	DefaultCollectorURL     = "https://anubis.kepixel.com"
	DefaultCollectorTimeout = "10s"
	DefaultMaxRetries       = 3
	DefaultRetryDelay       = "1s"
	DefaultRateLimit        = 50
	DefaultStorageDriver    = StorageDriverFile
	DefaultStorageDir       = "data"
	DefaultDeliverySpec     = "@every 30s"
	DefaultBatchSize        = 100
	DefaultMaxAttempts      = 10
	DefaultNonceTTL         = "12h"
	DefaultListenPort       = 2443
)

func defaults() map[string]any {
	return map[string]any{
		"tracking.loader_url":       DefaultLoaderURL,
		"tracking.default_currency": DefaultCurrency,
		"collector.endpoint":        DefaultCollectorURL,
		"collector.timeout":         DefaultCollectorTimeout,
		"collector.max_retries":     DefaultMaxRetries,
		"collector.retry_delay":     DefaultRetryDelay,
		"collector.rate_limit":      DefaultRateLimit,
		"storage.driver":            DefaultStorageDriver,
		"storage.dir":               DefaultStorageDir,
		"delivery.time_spec":        DefaultDeliverySpec,
		"delivery.batch_size":       DefaultBatchSize,
		"delivery.max_attempts":     DefaultMaxAttempts,
		"nonce.ttl":                 DefaultNonceTTL,
		"api.ws.listen_port":        DefaultListenPort,
	}
}

// normalizeEnvKey 환경 변수 이름을 koanf 키 경로로 변환합니다.
// 이중 밑줄(__)은 계층 구분자(.)가 되고, 단일 밑줄은 키 이름의 일부로 유지됩니다.
func normalizeEnvKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 설정 파일을 읽어 AppConfig를 생성합니다.
//
// 우선순위 (낮음 -> 높음): 기본값 -> JSON 설정 파일 -> 환경 변수(KEPIXEL_)
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", normalizeEnvKey), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 환경 변수는 모두 문자열이므로 "off", "a,b" 같은 표기도 maputil의 훅으로 변환된다.
	var appConfig AppConfig
	if err := maputil.DecodeTo(k.Raw(), &appConfig, maputil.WithErrorUnused(true)); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	if err := appConfig.validate(newValidator()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}
