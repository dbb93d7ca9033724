// Package collector 추적 호출을 kepixel 수집 서버의 배치 API로 전송하는 서버 측 Transport를 제공합니다.
package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// component 수집 서버 전송 로깅용 컴포넌트 이름
const component = "analytics.collector"

// batchPath 수집 서버의 배치 수신 경로입니다.
const batchPath = "/v1/batch"

// maxResponseBody 성공 응답에서 읽을 본문의 최대 크기입니다.
const maxResponseBody = 64 * 1024

// Config Collector 생성 설정입니다.
type Config struct {
	Endpoint   string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// RateLimit 초당 허용되는 최대 요청 수입니다. 0 이하이면 제한하지 않습니다.
	RateLimit int

	UserAgent string

	// Doer 지정하지 않으면 Timeout이 설정된 http.Client를 사용합니다.
	Doer Doer

	// Observer 배치 요청이 끝날 때마다 결과와 소요 시간(재시도 포함)을 전달받습니다.
	Observer func(err error, elapsed time.Duration)
}

// Collector 수집 서버와의 HTTP 통신을 담당합니다.
type Collector struct {
	endpoint  string
	userAgent string
	doer      Doer
	limiter   *rate.Limiter
	observer  func(err error, elapsed time.Duration)

	now func() time.Time
}

// New 새로운 Collector를 생성합니다.
func New(cfg Config) *Collector {
	doer := cfg.Doer
	if doer == nil {
		doer = &http.Client{Timeout: cfg.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}

	return &Collector{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		userAgent: cfg.UserAgent,
		doer:      newRetryDoer(doer, cfg.MaxRetries, cfg.RetryDelay, 0),
		limiter:   limiter,
		observer:  cfg.Observer,
		now:       time.Now,
	}
}

type batchRequest struct {
	Batch  []analytics.Call `json:"batch"`
	SentAt time.Time        `json:"sentAt"`
}

// SendBatch calls를 하나의 배치 요청으로 전송합니다. writeKey는 HTTP Basic 인증의 사용자명으로 사용됩니다.
func (c *Collector) SendBatch(ctx context.Context, writeKey string, calls []analytics.Call) error {
	if len(calls) == 0 {
		return nil
	}
	if strings.TrimSpace(writeKey) == "" {
		return ErrWriteKeyRequired
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.Timeout, "수집 서버 전송 대기 중 요청이 취소되었습니다")
	}

	started := c.now()
	err := c.sendBatch(ctx, writeKey, calls)
	if c.observer != nil {
		c.observer(err, c.now().Sub(started))
	}

	return err
}

func (c *Collector) sendBatch(ctx context.Context, writeKey string, calls []analytics.Call) error {
	body, err := json.Marshal(batchRequest{Batch: calls, SentAt: c.now().UTC()})
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "배치 요청 본문의 JSON 변환에 실패했습니다")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+batchPath, bytes.NewReader(body))
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, fmt.Sprintf("수집 서버 요청 생성에 실패했습니다 (endpoint: %s)", c.endpoint))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.SetBasicAuth(writeKey, "")

	resp, err := c.doer.Do(req)
	if err != nil {
		if apperrors.As(err, new(*StatusError)) {
			return err
		}
		return apperrors.Wrap(err, apperrors.Unavailable, "수집 서버 요청 전송 중 에러가 발생했습니다")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(req.URL, resp, nil)
	}
	defer drainAndCloseBody(resp.Body)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "수집 서버 응답 본문을 읽는 중 에러가 발생했습니다")
	}

	if err := checkResponseBody(data); err != nil {
		return err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"count":       len(calls),
		"status_code": resp.StatusCode,
	}).Debug("수집 서버 전송 완료")

	return nil
}

// checkResponseBody {"success": bool, "error": string} 형식의 응답을 해석합니다.
// 본문이 비어 있거나 JSON이 아니면 상태 코드만으로 성공을 판단합니다.
func checkResponseBody(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 || !gjson.ValidBytes(data) {
		return nil
	}

	result := gjson.ParseBytes(data)
	success := result.Get("success")
	if !success.Exists() || success.Bool() {
		return nil
	}

	message := result.Get("error").String()
	if message == "" {
		message = "알 수 없는 오류"
	}

	return apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("수집 서버가 배치를 거부했습니다: %s", message))
}

// Transport writeKey 계정으로 호출을 즉시 전송하는 analytics.Transport를 반환합니다.
func (c *Collector) Transport(writeKey string) analytics.Transport {
	return analytics.TransportFunc(func(ctx context.Context, call analytics.Call) error {
		return c.SendBatch(ctx, writeKey, []analytics.Call{call})
	})
}
