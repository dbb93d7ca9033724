package middleware

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/service/api/constants"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// maxTrackedClients 동시에 유지하는 클라이언트별 Limiter 수의 상한입니다.
// 상한에 도달하면 가장 오래 사용되지 않은 클라이언트의 Limiter를 버립니다.
const maxTrackedClients = 10000

type clientLimiter struct {
	limiter *rate.Limiter

	// lastUsed 마지막 사용 순번. 시각 대신 단조 증가 카운터를 사용한다.
	lastUsed uint64
}

// clientLimiters 클라이언트 키별 Token Bucket을 관리합니다.
type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	seq     uint64

	limit rate.Limit
	burst int
}

func newClientLimiters(requestsPerSecond, burst int) *clientLimiters {
	return &clientLimiters{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
	}
}

// get key에 해당하는 Limiter를 반환하며, 없으면 만듭니다.
func (l *clientLimiters) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++

	if c, ok := l.clients[key]; ok {
		c.lastUsed = l.seq
		return c.limiter
	}

	if len(l.clients) >= maxTrackedClients {
		l.evictLeastRecentlyUsed()
	}

	c := &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst), lastUsed: l.seq}
	l.clients[key] = c
	return c.limiter
}

func (l *clientLimiters) evictLeastRecentlyUsed() {
	var (
		oldestKey string
		oldest    uint64 = math.MaxUint64
	)
	for k, c := range l.clients {
		if c.lastUsed < oldest {
			oldestKey, oldest = k, c.lastUsed
		}
	}
	delete(l.clients, oldestKey)
}

// rateLimitKey 요청의 제한 단위를 정합니다.
// 사이트 헤더가 있으면 같은 IP 뒤의 여러 WordPress 사이트가 서로의 한도를 소모하지 않도록 사이트별로 나눕니다.
func rateLimitKey(c echo.Context) string {
	ip := c.RealIP()
	if siteID := c.Request().Header.Get(constants.HeaderSiteID); siteID != "" {
		return siteID + "@" + ip
	}
	return ip
}

// retryAfterSeconds 다음 토큰까지 기다려야 하는 시간을 올림한 초 단위 문자열로 반환합니다. 최소 1초입니다.
func retryAfterSeconds(delay time.Duration) string {
	seconds := int(math.Ceil(delay.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

// RateLimiting 클라이언트(IP, 사이트 헤더가 있으면 사이트+IP)별 속도 제한 미들웨어를 반환합니다.
//
// 한도를 넘은 요청은 429와 함께 다음 요청이 가능해지는 시점을 Retry-After 헤더로 알려줍니다.
// requestsPerSecond 또는 burst가 0 이하이면 panic이 발생합니다.
func RateLimiting(requestsPerSecond int, burst int) echo.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		panic(fmt.Sprintf("RateLimiting: requestsPerSecond는 양수여야 합니다 (현재값: %d)", requestsPerSecond))
	}
	if burst <= 0 {
		panic(fmt.Sprintf("RateLimiting: burst는 양수여야 합니다 (현재값: %d)", burst))
	}

	limiters := newClientLimiters(requestsPerSecond, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateLimitKey(c)

			r := limiters.get(key).Reserve()
			if delay := r.Delay(); delay > 0 {
				r.Cancel()

				applog.WithComponentAndFields(constants.ComponentMiddlewareRateLimit, applog.Fields{
					"client": key,
					"method": c.Request().Method,
					"path":   c.Request().URL.Path,
					"delay":  delay.String(),
				}).Warn("요청 차단: 속도 제한(Rate Limit)을 초과하였습니다")

				c.Response().Header().Set(echo.HeaderRetryAfter, retryAfterSeconds(delay))
				return ErrRateLimitExceeded
			}

			return next(c)
		}
	}
}
