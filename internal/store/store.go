// Package store 서버 측 이벤트 레코드(outbox), 상품 카탈로그, 중복 처리 방지용 선점 키를 보관하는 저장소를 제공합니다.
//
// 파일 시스템(단일 인스턴스)과 Redis(다중 인스턴스) 두 가지 드라이버를 지원합니다.
package store

import (
	"context"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/config"
	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// component 저장소 로깅용 컴포넌트 이름
const component = "store"

var (
	// ErrNotFound 요청한 키나 레코드가 저장소에 없을 때 반환하는 에러입니다.
	ErrNotFound = apperrors.New(apperrors.NotFound, "저장소에서 요청한 데이터를 찾을 수 없습니다")

	// ErrEmptyKey 빈 키로 저장소에 접근했을 때 반환하는 에러입니다.
	ErrEmptyKey = apperrors.New(apperrors.InvalidInput, "저장소 키가 비어있습니다")
)

// Record 수집 서버로 전달될 서버 측 추적 호출 하나를 나타내는 outbox 레코드입니다.
type Record struct {
	ID     string         `json:"id"`
	SiteID string         `json:"site_id"`
	Call   analytics.Call `json:"call"`

	Delivered bool `json:"delivered"`

	// Abandoned 최대 시도 횟수를 넘겨 더 이상 전송하지 않는 레코드입니다.
	Abandoned bool `json:"abandoned,omitempty"`

	Attempts    int        `json:"attempts"`
	LastError   string     `json:"last_error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// Pending 아직 전송 대상인지 여부를 반환합니다.
func (r Record) Pending() bool {
	return !r.Delivered && !r.Abandoned
}

// NewRecord siteID 계정으로 전송될 call의 새 레코드를 생성합니다.
func NewRecord(siteID string, call analytics.Call, now time.Time) Record {
	return Record{
		ID:        uuid.NewString(),
		SiteID:    siteID,
		Call:      call,
		CreatedAt: now.UTC(),
	}
}

// Store 저장소 드라이버가 구현하는 인터페이스입니다. 모든 메서드는 동시에 호출해도 안전해야 합니다.
type Store interface {
	// Claim key를 처음 선점한 호출에만 true를 반환합니다. 이미 선점된 키이면 false입니다.
	Claim(ctx context.Context, key string) (bool, error)

	// Release 선점된 key를 해제하여 다시 선점할 수 있게 합니다. 선점되지 않은 키이면 아무것도 하지 않습니다.
	Release(ctx context.Context, key string) error

	// PutJSON v를 JSON으로 직렬화하여 key에 저장합니다.
	PutJSON(ctx context.Context, key string, v any) error

	// GetJSON key의 값을 v로 역직렬화합니다. 값이 없으면 ErrNotFound를 반환합니다.
	GetJSON(ctx context.Context, key string, v any) error

	// Enqueue 레코드를 전송 대기열에 추가합니다.
	Enqueue(ctx context.Context, records ...Record) error

	// ListPending 전송 대기 중인 레코드를 생성 순서대로 최대 limit개 반환합니다.
	ListPending(ctx context.Context, limit int) ([]Record, error)

	// UpdateRecord 레코드의 전송 상태를 갱신합니다. 전송 완료 또는 포기된 레코드는 대기열에서 빠지고 보관 영역으로 옮겨집니다.
	UpdateRecord(ctx context.Context, r Record) error

	Close() error
}

// Open 설정된 드라이버로 저장소를 엽니다.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.StorageDriverFile:
		return NewFileStore(cfg.Dir)

	case config.StorageDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, apperrors.Wrap(err, apperrors.Unavailable, "저장소 초기화 실패: Redis 서버에 연결할 수 없습니다 ("+cfg.Redis.Addr+")")
		}
		return NewRedisStore(client, cfg.Redis.KeyPrefix), nil
	}

	return nil, apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 저장소 드라이버입니다: '%s'", cfg.Driver)
}
