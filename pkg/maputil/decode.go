// Package maputil 느슨한 타입의 맵 데이터를 구조체로 변환하는 유틸리티를 제공합니다.
package maputil

import (
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Decode input을 T 타입 구조체로 변환합니다.
//
// 기본 동작:
//   - WeaklyTypedInput: "42" -> 42, "" -> 0 등 타입을 자동 보정합니다.
//   - "yes"/"no", "on"/"off" 문자열은 bool로, "a, b" 문자열은 슬라이스로 변환합니다.
//   - 태그: `json` 태그 기준으로 매핑합니다.
//   - 구조체에 없는 키는 무시합니다. (WithErrorUnused로 변경)
//
// 사용 예:
//
//	meta, err := maputil.Decode[UserMeta](user.Meta)
func Decode[T any](input any, opts ...Option) (*T, error) {
	output := new(T)
	if err := DecodeTo(input, output, opts...); err != nil {
		return nil, err
	}
	return output, nil
}

// DecodeTo input을 output이 가리키는 구조체에 병합합니다.
func DecodeTo[T any](input any, output *T, opts ...Option) error {
	if output == nil {
		return errors.New("디코딩 결과를 저장할 output 포인터가 nil입니다")
	}

	cfg := &decodingConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      cfg.errorUnused,
		Squash:           true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			stringToYesNoBoolHookFunc(),
			commaSeparatedToSliceHookFunc(),
		),
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("입력 데이터를 %T(으)로 디코딩하는 데 실패했습니다: %w", output, err)
	}

	return nil
}

type decodingConfig struct {
	errorUnused bool
}

// Option 디코딩 동작을 변경하는 함수형 옵션입니다.
type Option func(*decodingConfig)

// WithErrorUnused 구조체에 없는 키가 있으면 에러를 반환합니다. (기본값: false)
func WithErrorUnused(enable bool) Option {
	return func(c *decodingConfig) { c.errorUnused = enable }
}
