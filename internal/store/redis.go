package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// redisClient redisStore가 사용하는 명령의 집합입니다. *redis.Client가 이를 구현합니다.
type redisClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd
	ZRangeByScore(ctx context.Context, key string, opt *redis.ZRangeBy) *redis.StringSliceCmd
	ZRem(ctx context.Context, key string, members ...any) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// archivedRecordTTL 전송 완료 또는 포기된 레코드를 보관하는 기간입니다.
const archivedRecordTTL = 7 * 24 * time.Hour

// redisStore Redis 기반 저장소입니다.
//
// [키 구조]
//   - {prefix}kv:{키}: PutJSON으로 저장된 JSON 문자열
//   - {prefix}claim:{키}: Claim으로 선점된 키
//   - {prefix}record:{id}: outbox 레코드 JSON (전송 완료 또는 포기된 레코드는 archivedRecordTTL 후 만료)
//   - {prefix}outbox:pending: 대기 중인 레코드 ID의 ZSET (score: 생성 시각)
type redisStore struct {
	client redisClient
	prefix string
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Store = (*redisStore)(nil)

// NewRedisStore client를 사용하는 저장소를 생성합니다. 모든 키 앞에 prefix가 붙습니다.
func NewRedisStore(client redisClient, prefix string) Store {
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) key(parts ...string) string {
	return s.prefix + strings.Join(parts, ":")
}

func (s *redisStore) pendingKey() string {
	return s.key("outbox", "pending")
}

func (s *redisStore) Claim(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	ok, err := s.client.SetNX(ctx, s.key("claim", key), time.Now().UTC().Format(time.RFC3339), 0).Result()
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.Unavailable, "키 선점 실패: Redis 명령 실행 중 오류가 발생했습니다")
	}

	return ok, nil
}

func (s *redisStore) Release(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	if err := s.client.Del(ctx, s.key("claim", key)).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "키 선점 해제 실패: Redis 명령 실행 중 오류가 발생했습니다")
	}
	return nil
}

func (s *redisStore) PutJSON(ctx context.Context, key string, v any) error {
	if key == "" {
		return ErrEmptyKey
	}

	data, err := json.Marshal(v)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "데이터 처리 실패: JSON 직렬화 중 오류가 발생했습니다")
	}
	if err := s.client.Set(ctx, s.key("kv", key), data, 0).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "데이터 저장 실패: Redis 명령 실행 중 오류가 발생했습니다")
	}

	return nil
}

func (s *redisStore) GetJSON(ctx context.Context, key string, v any) error {
	if key == "" {
		return ErrEmptyKey
	}

	return s.getJSON(ctx, s.key("kv", key), v)
}

func (s *redisStore) getJSON(ctx context.Context, fullKey string, v any) error {
	data, err := s.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return apperrors.Wrap(err, apperrors.Unavailable, "데이터 조회 실패: Redis 명령 실행 중 오류가 발생했습니다")
	}

	if err := json.Unmarshal(data, v); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "데이터 처리 실패: JSON 역직렬화 중 오류가 발생했습니다")
	}

	return nil
}

func (s *redisStore) Enqueue(ctx context.Context, records ...Record) error {
	for _, r := range records {
		if err := s.UpdateRecord(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (s *redisStore) ListPending(ctx context.Context, limit int) ([]Record, error) {
	opt := &redis.ZRangeBy{Min: "-inf", Max: "+inf"}
	if limit > 0 {
		opt.Count = int64(limit)
	}

	ids, err := s.client.ZRangeByScore(ctx, s.pendingKey(), opt).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, "outbox 조회 실패: Redis 명령 실행 중 오류가 발생했습니다")
	}

	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		var r Record
		if err := s.getJSON(ctx, s.key("record", id), &r); err != nil {
			if errors.Is(err, ErrNotFound) {
				// 레코드 본문 없이 ID만 남은 경우 대기열에서 정리한다.
				_ = s.client.ZRem(ctx, s.pendingKey(), id).Err()
				continue
			}
			return nil, err
		}
		if r.Pending() {
			records = append(records, r)
		}
	}

	return records, nil
}

func (s *redisStore) UpdateRecord(ctx context.Context, r Record) error {
	if r.ID == "" {
		return ErrEmptyKey
	}

	data, err := json.Marshal(r)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "데이터 처리 실패: JSON 직렬화 중 오류가 발생했습니다")
	}
	var expiration time.Duration
	if !r.Pending() {
		expiration = archivedRecordTTL
	}
	if err := s.client.Set(ctx, s.key("record", r.ID), data, expiration).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "레코드 저장 실패: Redis 명령 실행 중 오류가 발생했습니다")
	}

	if r.Pending() {
		score := float64(r.CreatedAt.UnixNano())
		err = s.client.ZAdd(ctx, s.pendingKey(), redis.Z{Score: score, Member: r.ID}).Err()
	} else {
		err = s.client.ZRem(ctx, s.pendingKey(), r.ID).Err()
	}
	if err != nil {
		return apperrors.Wrapf(err, apperrors.Unavailable, "대기열 갱신 실패: Redis 명령 실행 중 오류가 발생했습니다 (record: %s)", r.ID)
	}

	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
