package cronx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{"성공: 6필드", "*/30 * * * * *", false},
		{"성공: Descriptor", "@every 30s", false},
		{"성공: 매일", "@daily", false},
		{"실패: 5필드", "*/5 * * * *", true},
		{"실패: 빈 문자열", "", true},
		{"실패: 잘못된 값", "61 * * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
