package config

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/darkkaiser/kepixel-server/pkg/cronx"
	"github.com/go-playground/validator/v10"
)

// 저장소 드라이버 종류
const (
	StorageDriverFile  = "file"
	StorageDriverRedis = "redis"
)

// AppConfig 애플리케이션의 모든 설정을 포함하는 최상위 구조체
type AppConfig struct {
	Debug     bool            `json:"debug"`
	Tracking  TrackingConfig  `json:"tracking"`
	Collector CollectorConfig `json:"collector"`
	Storage   StorageConfig   `json:"storage"`
	Delivery  DeliveryConfig  `json:"delivery"`
	Nonce     NonceConfig     `json:"nonce"`
	API       APIConfig       `json:"api"`
}

func (c *AppConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c.Tracking, "Tracking"); err != nil {
		return err
	}
	if err := checkStruct(v, c.Collector, "Collector"); err != nil {
		return err
	}
	if err := c.Storage.validate(v); err != nil {
		return err
	}
	if err := c.Delivery.validate(v); err != nil {
		return err
	}
	if err := checkStruct(v, c.Nonce, "Nonce"); err != nil {
		return err
	}
	if err := c.API.validate(v); err != nil {
		return err
	}

	return nil
}

// VerifyRecommendations 에러는 아니지만 운영상 주의가 필요한 설정에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	if c.API.WS.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.API.WS.ListenPort))
	}
	for _, site := range c.API.Sites {
		if site.TrackingEnabled() && site.WriteKey == "" {
			warnings = append(warnings, fmt.Sprintf("Site['%s']의 Write Key가 설정되지 않아 추적 스크립트가 출력되지 않습니다", site.ID))
		}
	}
	if c.Storage.Driver == StorageDriverFile {
		warnings = append(warnings, "파일 저장소는 단일 인스턴스 운영에만 적합합니다. 다중 인스턴스 환경에서는 redis 드라이버를 사용하세요")
	}

	return warnings
}

// TrackingConfig 브라우저 추적 스크립트 관련 공통 설정
type TrackingConfig struct {
	LoaderURL       string `json:"loader_url" validate:"required,endpoint_url"`
	DefaultCurrency string `json:"default_currency" validate:"required,iso4217"`

	// PublicURL 브라우저가 이 서버에 접근하는 외부 주소입니다. (예: https://pixel.example.com)
	// 비어있으면 요청의 Host 헤더로 장바구니 조회 주소를 만듭니다.
	PublicURL string `json:"public_url" validate:"omitempty,endpoint_url"`
}

// CollectorConfig 서버 측 이벤트를 전달할 수집 서버 설정
type CollectorConfig struct {
	Endpoint   string        `json:"endpoint" validate:"required,endpoint_url"`
	Timeout    time.Duration `json:"timeout" validate:"gt=0"`
	MaxRetries int           `json:"max_retries" validate:"min=0,max=10"`
	RetryDelay time.Duration `json:"retry_delay" validate:"gt=0"`
	RateLimit  int           `json:"rate_limit" validate:"min=1"`
}

// StorageConfig 이벤트 레코드와 상품 카탈로그를 보관할 저장소 설정
type StorageConfig struct {
	Driver string      `json:"driver" validate:"oneof=file redis"`
	Dir    string      `json:"dir"`
	Redis  RedisConfig `json:"redis" validate:"-"`
}

func (c *StorageConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c, "Storage"); err != nil {
		return err
	}

	switch c.Driver {
	case StorageDriverFile:
		if strings.TrimSpace(c.Dir) == "" {
			return apperrors.New(apperrors.InvalidInput, "파일 저장소 사용 시 저장 디렉토리(storage.dir)는 필수입니다")
		}
	case StorageDriverRedis:
		if err := checkStruct(v, c.Redis, "Storage > Redis"); err != nil {
			return err
		}
	}

	return nil
}

// RedisConfig Redis 접속 정보
type RedisConfig struct {
	Addr      string `json:"addr" validate:"required,hostname_port"`
	Password  string `json:"password"`
	DB        int    `json:"db" validate:"min=0,max=15"`
	KeyPrefix string `json:"key_prefix"`
}

// DeliveryConfig 미전송 이벤트를 수집 서버로 재전송하는 스케줄 설정
type DeliveryConfig struct {
	TimeSpec    string `json:"time_spec" validate:"required"`
	BatchSize   int    `json:"batch_size" validate:"min=1,max=1000"`
	MaxAttempts int    `json:"max_attempts" validate:"min=1"`
}

func (c *DeliveryConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c, "Delivery"); err != nil {
		return err
	}
	if err := cronx.Validate(c.TimeSpec); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("전송 스케줄(time_spec) 설정이 유효하지 않습니다: '%s'", c.TimeSpec))
	}
	return nil
}

// NonceConfig 장바구니 상품 조회 요청을 보호하는 nonce 설정
type NonceConfig struct {
	Secret string        `json:"secret" validate:"required,min=16"`
	TTL    time.Duration `json:"ttl" validate:"gt=0"`
}

// APIConfig REST API 서버 설정
type APIConfig struct {
	WS    WSConfig     `json:"ws"`
	CORS  CORSConfig   `json:"cors"`
	Sites []SiteConfig `json:"sites"`
}

func (c *APIConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c.WS, "웹 서버(ws)"); err != nil {
		return err
	}
	if err := c.CORS.validate(v); err != nil {
		return err
	}

	if len(c.Sites) == 0 {
		return apperrors.New(apperrors.InvalidInput, "등록된 사이트(api.sites)가 없습니다")
	}
	if err := checkUniqueField(v, c.Sites, "ID", "Site"); err != nil {
		return err
	}
	for _, site := range c.Sites {
		if err := checkStruct(v, site, fmt.Sprintf("Site['%s']", site.ID)); err != nil {
			return err
		}
		if strings.TrimSpace(site.APIKey) == "" {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("Site['%s']의 API 키(api_key)가 설정되지 않았습니다", site.ID))
		}
	}

	return nil
}

// WSConfig 웹 서버의 포트 및 TLS 설정
type WSConfig struct {
	TLSServer   bool   `json:"tls_server"`
	TLSCertFile string `json:"tls_cert_file" validate:"required_if=TLSServer true,omitempty,file"`
	TLSKeyFile  string `json:"tls_key_file" validate:"required_if=TLSServer true,omitempty,file"`
	ListenPort  int    `json:"listen_port" validate:"min=1,max=65535"`
}

// CORSConfig 교차 출처 리소스 공유(CORS) 정책
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

func (c *CORSConfig) validate(v *validator.Validate) error {
	if len(c.AllowOrigins) == 0 {
		return apperrors.New(apperrors.InvalidInput, "CORS 허용 도메인(allow_origins) 목록이 비어있습니다")
	}
	for _, origin := range c.AllowOrigins {
		if origin == "*" && len(c.AllowOrigins) > 1 {
			return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다. 모든 도메인을 허용하려면 와일드카드만 설정하세요")
		}
	}

	return checkStruct(v, c, "CORS")
}

// SiteConfig 추적 API를 사용하는 호스트 사이트의 인증 정보와 추적 설정
type SiteConfig struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
	APIKey      string `json:"api_key"`

	// WriteKey 수집 서버 계정 식별자입니다. 비어 있으면 로더 스크립트를 출력하지 않습니다.
	WriteKey string `json:"write_key"`

	// EnableTracking 생략하면 활성화로 간주합니다.
	EnableTracking *bool `json:"enable_tracking"`

	Name     string `json:"name"`
	Currency string `json:"currency" validate:"omitempty,iso4217"`
}

// TrackingEnabled 추적 활성화 여부를 반환합니다. 설정되지 않았으면 true입니다.
func (s SiteConfig) TrackingEnabled() bool {
	return s.EnableTracking == nil || *s.EnableTracking
}
