package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCORSOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origin  string
		wantErr bool
	}{
		{"성공: 와일드카드", "*", false},
		{"성공: https 도메인", "https://shop.example.com", false},
		{"성공: 포트 포함", "http://localhost:8080", false},
		{"성공: IPv4", "http://127.0.0.1", false},
		{"실패: 빈 문자열", "", true},
		{"실패: 후행 슬래시", "https://example.com/", true},
		{"실패: 경로 포함", "https://example.com/path", true},
		{"실패: 쿼리 포함", "https://example.com?a=1", true},
		{"실패: ftp 스키마", "ftp://example.com", true},
		{"실패: 잘못된 포트", "http://example.com:70000", true},
		{"실패: 숫자 TLD", "http://example.123", true},
		{"실패: 사용자 정보", "https://user:pw@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateCORSOrigin(tt.origin)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEndpointURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"성공: 로더 URL", "https://anubis.kepixel.com", false},
		{"성공: 경로 포함", "https://collector.kepixel.com/v1", false},
		{"실패: 쿼리 포함", "https://anubis.kepixel.com?writeKey=x", true},
		{"실패: 스키마 누락", "anubis.kepixel.com", true},
		{"실패: 빈 값", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateEndpointURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateHostname(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateHostname("localhost"))
	assert.NoError(t, ValidateHostname("::1"))
	assert.NoError(t, ValidateHostname("a-b.example.com"))
	assert.Error(t, ValidateHostname("-bad.example.com"))
	assert.Error(t, ValidateHostname("bad..example.com"))
	assert.Error(t, ValidateHostname("bad_host.com"))
}
