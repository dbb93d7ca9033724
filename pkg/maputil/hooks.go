package maputil

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// yesNoValues WordPress/WooCommerce 옵션과 HTML 체크박스가 사용하는 불리언 표기입니다.
// "1", "true" 같은 표기는 WeaklyTypedInput이 처리합니다.
var yesNoValues = map[string]bool{
	"yes": true,
	"on":  true,
	"no":  false,
	"off": false,
}

// stringToYesNoBoolHookFunc "yes"/"no", "on"/"off" 문자열을 bool로 변환합니다. 대소문자는 구분하지 않습니다.
func stringToYesNoBoolHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Bool {
			return data, nil
		}

		if v, ok := yesNoValues[strings.ToLower(strings.TrimSpace(reflect.ValueOf(data).String()))]; ok {
			return v, nil
		}
		return data, nil
	}
}

// commaSeparatedToSliceHookFunc "a, b" 형태의 문자열을 공백을 제거한 []string으로 나눕니다. []byte 대상은 건드리지 않습니다.
func commaSeparatedToSliceHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if k := t.Kind(); (k != reflect.Slice && k != reflect.Array) || t.Elem().Kind() == reflect.Uint8 {
			return data, nil
		}

		raw := reflect.ValueOf(data).String()
		if raw == "" {
			return []string{}, nil
		}

		parts := strings.Split(raw, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		return parts, nil
	}
}
