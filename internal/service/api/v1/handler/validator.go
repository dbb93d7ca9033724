package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator 요청 모델 검증기를 반환합니다. 검증 에러의 필드 이름은 korean 태그(없으면 json 태그) 값입니다.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldLabel)
	})
	return validate
}

func fieldLabel(fld reflect.StructField) string {
	if label := fld.Tag.Get("korean"); label != "" {
		return label
	}
	if name, _, _ := strings.Cut(fld.Tag.Get("json"), ","); name != "" && name != "-" {
		return name
	}
	return fld.Name
}

// ValidateRequest 요청 모델의 validate 태그를 검사합니다.
func ValidateRequest(req any) error {
	return getValidator().Struct(req)
}

// FormatValidationError 검증 에러를 사용자에게 보여줄 한국어 문장으로 바꿉니다. 여러 필드가 실패했으면 첫 번째만 사용합니다.
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}

	return describeFieldError(fieldErrs[0])
}

func describeFieldError(fe validator.FieldError) string {
	subject := fe.Field() + topicParticle(fe.Field())

	switch fe.Tag() {
	case "required":
		return subject + " 필수입니다"
	case "gt":
		return fmt.Sprintf("%s %s보다 커야 합니다", subject, fe.Param())
	case "min", "max":
		bound := "최소"
		suffix := " 이상이어야 합니다"
		if fe.Tag() == "max" {
			bound, suffix = "최대", "까지 허용됩니다"
		}
		return fmt.Sprintf("%s %s %s%s%s", subject, bound, fe.Param(), unitOf(fe.Kind()), suffix)
	case "url":
		return subject + " 올바른 URL 형식이어야 합니다"
	case "email":
		return subject + " 올바른 이메일 형식이어야 합니다"
	case "oneof":
		return fmt.Sprintf("%s 다음 중 하나여야 합니다: %s", subject, fe.Param())
	default:
		return fmt.Sprintf("%s 검증 실패: %s", subject, fe.Tag())
	}
}

// unitOf min/max 경계값 뒤에 붙일 단위입니다. 문자열은 글자 수, 슬라이스와 맵은 항목 수입니다.
func unitOf(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return "자"
	case reflect.Slice, reflect.Array, reflect.Map:
		return "개"
	default:
		return ""
	}
}

// topicParticle 단어의 마지막 글자에 받침이 있으면 "은", 없거나 한글이 아니면 "는"을 반환합니다.
func topicParticle(word string) string {
	last, _ := utf8.DecodeLastRuneInString(word)
	if last >= '가' && last <= '힣' && (last-'가')%28 != 0 {
		return "은"
	}
	return "는"
}

// bindAndValidate 요청 본문을 req로 바인딩하고 검증합니다.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return NewErrInvalidBody()
	}
	if err := ValidateRequest(req); err != nil {
		return NewErrValidationFailed(FormatValidationError(err))
	}
	return nil
}
