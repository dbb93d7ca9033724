package maputil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleMeta struct {
	FirstName string        `json:"first_name"`
	Age       int           `json:"age"`
	Tags      []string      `json:"tags"`
	Timeout   time.Duration `json:"timeout"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("성공: 느슨한 타입 변환", func(t *testing.T) {
		t.Parallel()

		got, err := Decode[sampleMeta](map[string]any{
			"first_name": "Jane",
			"age":        "42",
			"tags":       "vip, donor",
			"timeout":    "5s",
			"unknown":    true,
		})
		require.NoError(t, err)
		assert.Equal(t, "Jane", got.FirstName)
		assert.Equal(t, 42, got.Age)
		assert.Equal(t, []string{"vip", "donor"}, got.Tags)
		assert.Equal(t, 5*time.Second, got.Timeout)
	})

	t.Run("성공: 빈 문자열 숫자는 0", func(t *testing.T) {
		t.Parallel()

		got, err := Decode[sampleMeta](map[string]any{"age": ""})
		require.NoError(t, err)
		assert.Zero(t, got.Age)
	})

	t.Run("실패: ErrorUnused", func(t *testing.T) {
		t.Parallel()

		_, err := Decode[sampleMeta](map[string]any{"unknown": 1}, WithErrorUnused(true))
		assert.Error(t, err)
	})

	t.Run("실패: 엄격한 타입", func(t *testing.T) {
		t.Parallel()

		_, err := Decode[sampleMeta](map[string]any{"age": "abc"})
		assert.Error(t, err)
	})
}

func TestDecodeTo_NilOutput(t *testing.T) {
	t.Parallel()

	var out *sampleMeta
	assert.Error(t, DecodeTo(map[string]any{}, out))
}

func TestDecode_YesNoBool(t *testing.T) {
	t.Parallel()

	type options struct {
		Enabled bool `json:"enabled"`
	}

	tests := []struct {
		name    string
		input   any
		want    bool
		wantErr bool
	}{
		{"성공: yes", "yes", true, false},
		{"성공: 대문자 NO", "NO", false, false},
		{"성공: 체크박스 on", "on", true, false},
		{"성공: 숫자 문자열 1", "1", true, false},
		{"성공: bool 그대로", true, true, false},
		{"실패: 알 수 없는 표기", "maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode[options](map[string]any{"enabled": tt.input})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Enabled)
		})
	}
}
