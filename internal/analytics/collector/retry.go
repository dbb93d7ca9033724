package collector

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
)

const (
	// minAllowedRetries 허용 가능한 최소 재시도 횟수입니다. (0: 재시도 안 함)
	minAllowedRetries = 0

	// maxAllowedRetries 허용 가능한 최대 재시도 횟수입니다.
	maxAllowedRetries = 10

	// defaultMaxRetryDelay 재시도 대기 시간의 기본 상한입니다.
	defaultMaxRetryDelay = 30 * time.Second

	// maxBodySnippet 에러에 포함할 응답 본문의 최대 크기입니다.
	maxBodySnippet = 4096
)

// Doer HTTP 요청을 수행하는 인터페이스입니다. *http.Client가 이를 구현합니다.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// retryDoer 일시적인 실패에 대해 요청을 자동으로 재시도하는 Doer입니다.
//
// 수집 서버로 보내는 모든 호출에는 messageId가 포함되어 수집 서버에서 중복이 제거되므로,
// 일반적인 HTTP 재시도 정책과 달리 POST 요청도 재시도 대상에 포함합니다.
//
// 재시도 전략:
//   - 지수 백오프: delay = minRetryDelay * 2^(retry-1), maxRetryDelay를 넘지 않음
//   - Full Jitter: 0 ~ delay 범위의 무작위 대기
//   - Retry-After 헤더가 있으면 그 값을 우선 사용하되, maxRetryDelay를 초과하면 즉시 실패
//
// 재시도 대상: 네트워크 오류, 408, 429, 5xx(501/505/511 제외)
type retryDoer struct {
	delegate Doer

	maxRetries    int
	minRetryDelay time.Duration
	maxRetryDelay time.Duration

	// sleep 테스트에서 대기 시간을 제어하기 위한 함수입니다. 컨텍스트가 취소되면 에러를 반환합니다.
	sleep func(ctx context.Context, d time.Duration) error
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Doer = (*retryDoer)(nil)

func newRetryDoer(delegate Doer, maxRetries int, minRetryDelay, maxRetryDelay time.Duration) *retryDoer {
	maxRetries = normalizeMaxRetries(maxRetries)
	minRetryDelay, maxRetryDelay = normalizeRetryDelays(minRetryDelay, maxRetryDelay)

	return &retryDoer{
		delegate:      delegate,
		maxRetries:    maxRetries,
		minRetryDelay: minRetryDelay,
		maxRetryDelay: maxRetryDelay,
		sleep:         sleepContext,
	}
}

func (d *retryDoer) Do(req *http.Request) (*http.Response, error) {
	effectiveMaxRetries := d.maxRetries

	// 본문을 다시 만들 수 없으면 재시도 시 빈 본문이 전송되므로 재시도를 비활성화한다.
	if req.Body != nil && req.GetBody == nil && d.maxRetries > 0 {
		applog.WithComponentAndFields(component, applog.Fields{
			"url":         redactURL(req.URL),
			"max_retries": d.maxRetries,
		}).Warn("재시도 비활성화: 요청 본문 재생성 불가 (GetBody nil)")

		effectiveMaxRetries = 0
	}

	var lastErr error
	var lastResp *http.Response

	for i := 0; i <= effectiveMaxRetries; i++ {
		if i > 0 {
			delay, err := d.nextDelay(i, lastResp)
			if err != nil {
				if lastResp != nil {
					drainAndCloseBody(lastResp.Body)
				}
				return nil, err
			}

			fields := applog.Fields{
				"url":               redactURL(req.URL),
				"retry":             i,
				"max_retries":       d.maxRetries,
				"remaining_retries": effectiveMaxRetries - i,
				"delay":             delay.String(),
			}
			if lastErr != nil {
				fields["error"] = lastErr.Error()
			}
			if lastResp != nil {
				fields["status_code"] = lastResp.StatusCode
			}
			applog.WithComponentAndFields(component, fields).Warn("재시도 대기 중: 일시적 오류로 인해 수집 서버 요청 재시도를 준비합니다")

			if lastResp != nil {
				drainAndCloseBody(lastResp.Body)
				lastResp = nil
			}

			if err := d.sleep(req.Context(), delay); err != nil {
				return nil, err
			}

			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, apperrors.Wrap(err, apperrors.Internal, "재시도를 위한 요청 본문 재생성에 실패했습니다")
				}
				req = req.Clone(req.Context())
				req.Body = body
			}
		}

		resp, err := d.delegate.Do(req)
		if err != nil {
			if req.Context().Err() != nil {
				return nil, req.Context().Err()
			}
			if !isRetriable(err) {
				return nil, err
			}

			lastErr, lastResp = err, nil
			continue
		}

		if !isRetriableStatus(resp.StatusCode) {
			return resp, nil
		}

		lastErr, lastResp = nil, resp
	}

	if lastResp != nil {
		return nil, newStatusError(req.URL, lastResp, ErrMaxRetriesExceeded)
	}

	return nil, apperrors.Wrap(lastErr, apperrors.Unavailable, ErrMaxRetriesExceeded.Error())
}

// nextDelay i번째 재시도 전에 대기할 시간을 계산합니다.
func (d *retryDoer) nextDelay(i int, lastResp *http.Response) (time.Duration, error) {
	if lastResp != nil {
		if retryAfter, ok := parseRetryAfter(lastResp.Header.Get("Retry-After")); ok {
			if retryAfter > d.maxRetryDelay {
				return 0, apperrors.New(apperrors.Unavailable, fmt.Sprintf("Retry-After 대기 시간(%s)이 허용된 최대 대기 시간(%s)을 초과하여 재시도를 중단합니다", retryAfter, d.maxRetryDelay))
			}
			return retryAfter, nil
		}
	}

	delay := d.minRetryDelay * time.Duration(1<<(i-1))
	if delay > d.maxRetryDelay || delay <= 0 {
		delay = d.maxRetryDelay
	}
	delay = time.Duration(rand.Int64N(int64(delay) + 1))

	// 지터로 인해 대기 시간이 지나치게 짧아지면 최소 대기 시간을 보장한다.
	if delay < time.Millisecond {
		delay = d.minRetryDelay
	}

	return delay, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func normalizeMaxRetries(maxRetries int) int {
	if maxRetries < minAllowedRetries {
		return minAllowedRetries
	}
	if maxRetries > maxAllowedRetries {
		return maxAllowedRetries
	}
	return maxRetries
}

// normalizeRetryDelays 최소 대기 시간은 1초 이상, 최대 대기 시간은 최소 대기 시간 이상으로 보정합니다.
func normalizeRetryDelays(minRetryDelay, maxRetryDelay time.Duration) (time.Duration, time.Duration) {
	if minRetryDelay < time.Second {
		minRetryDelay = time.Second
	}
	if maxRetryDelay == 0 {
		maxRetryDelay = defaultMaxRetryDelay
	}
	if maxRetryDelay < minRetryDelay {
		maxRetryDelay = minRetryDelay
	}
	return minRetryDelay, maxRetryDelay
}

// isRetriableStatus 408, 429 및 영구 오류(501, 505, 511)를 제외한 5xx 상태 코드를 재시도 대상으로 판단합니다.
func isRetriableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	case http.StatusNotImplemented, http.StatusHTTPVersionNotSupported, http.StatusNetworkAuthenticationRequired:
		return false
	}
	return code >= 500
}

// isRetriable 네트워크 오류가 재시도로 해결될 수 있는 일시적 오류인지 판단합니다.
func isRetriable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		msg := urlErr.Err.Error()
		if strings.Contains(msg, "stopped after") ||
			strings.Contains(msg, "invalid control character in URL") ||
			strings.Contains(urlErr.Error(), "unsupported protocol scheme") {
			return false
		}
	}

	// 인증서 오류는 재시도해도 해결되지 않는다.
	var hostnameErr x509.HostnameError
	var unknownAuthorityErr x509.UnknownAuthorityError
	var certInvalidErr x509.CertificateInvalidError
	if errors.As(err, &hostnameErr) || errors.As(err, &unknownAuthorityErr) || errors.As(err, &certInvalidErr) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if apperrors.Is(err, apperrors.InvalidInput) || apperrors.Is(err, apperrors.Forbidden) || apperrors.Is(err, apperrors.Unauthorized) {
		return false
	}

	return true
}

// parseRetryAfter 초 단위 정수 또는 HTTP-date 형식의 Retry-After 값을 대기 시간으로 변환합니다.
func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, true
	}

	if date, err := http.ParseTime(value); err == nil {
		return max(time.Until(date), 0), true
	}

	return 0, false
}

// drainAndCloseBody 커넥션 재사용을 위해 남은 본문을 일정량까지 비운 뒤 닫습니다.
func drainAndCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64*1024))
	_ = body.Close()
}
