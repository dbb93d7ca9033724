package constants

import "time"

// 서버 설정 기본값 상수입니다.
const (
	// DefaultRequestTimeout HTTP 요청 처리의 기본 타임아웃 시간 (60초)
	DefaultRequestTimeout = 60 * time.Second

	DefaultReadTimeout       = 15 * time.Second
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultWriteTimeout      = DefaultRequestTimeout + 5*time.Second
	DefaultIdleTimeout       = 120 * time.Second

	// DefaultRateLimitPerSecond IP별 초당 허용 요청 수
	DefaultRateLimitPerSecond = 20

	// DefaultRateLimitBurst IP별 버스트 허용량
	DefaultRateLimitBurst = 40

	// DefaultMaxBodySize 요청 본문 최대 크기입니다. 양식 HTML과 상품 카탈로그 전송을 고려해 4MB로 둡니다.
	DefaultMaxBodySize = "4M"
)

// API 경로 상수입니다.
const (
	// APIv1Prefix v1 API의 공통 경로
	APIv1Prefix = "/api/v1"

	// PathCartProductData 브라우저가 장바구니 담기 시 상품 정보를 조회하는 경로 (APIv1Prefix 하위)
	PathCartProductData = "/cart/product-data"
)
