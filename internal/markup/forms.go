package markup

import (
	"context"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/darkkaiser/kepixel-server/internal/tracking"
	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/darkkaiser/kepixel-server/pkg/strutil"
)

// maxFormDocumentSize 파싱할 양식 HTML의 최대 크기입니다.
const maxFormDocumentSize = 2 * 1024 * 1024

// formSelector 추적 대상 양식입니다. (Contact Form 7, Elementor)
const formSelector = "form.wpcf7-form, form.elementor-form"

// FormPage 양식이 제출된 페이지의 정보입니다.
type FormPage struct {
	URL   string
	Title string

	// Status 양식 플러그인이 보고한 제출 상태입니다. (mail_sent, validation_failed 등)
	Status string
}

// ParseForms 제출된 양식 HTML에서 양식별 메타 정보와 입력값을 추출합니다.
//
// r은 UTF-8로 읽혀야 합니다. 양식이 하나도 없으면 빈 목록을 반환합니다.
func ParseForms(ctx context.Context, r io.Reader, page FormPage) ([]tracking.FormSubmission, error) {
	if r == nil {
		return nil, apperrors.New(apperrors.InvalidInput, "양식 HTML이 비어있습니다")
	}

	limited := io.LimitReader(&contextAwareReader{ctx: ctx, r: r}, maxFormDocumentSize)
	doc, err := goquery.NewDocumentFromReader(limited)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, apperrors.Wrap(ctxErr, apperrors.Timeout, "양식 HTML 파싱 중 요청이 취소되었습니다")
		}
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "양식 HTML 파싱에 실패했습니다")
	}

	var forms []tracking.FormSubmission
	doc.Find(formSelector).Each(func(_ int, form *goquery.Selection) {
		forms = append(forms, tracking.FormSubmission{
			Status:  page.Status,
			FormID:  hiddenValue(form, "_wpcf7"),
			UnitTag: hiddenValue(form, "_wpcf7_unit_tag"),
			Locale:  hiddenValue(form, "_wpcf7_locale"),
			Label:   strutil.FirstNonEmpty(form.AttrOr("aria-label", ""), form.AttrOr("id", "")),
			Action:  form.AttrOr("action", ""),
			URL:     page.URL,
			Title:   page.Title,
			Fields:  formFields(form),
		})
	})

	return forms, nil
}

func hiddenValue(form *goquery.Selection, name string) string {
	return form.Find(`input[name="` + name + `"]`).First().AttrOr("value", "")
}

// formFields 브라우저의 FormData와 같은 규칙으로 제출될 입력값을 수집합니다.
// 같은 이름의 필드가 여러 개면 비어있지 않은 마지막 값이 남습니다.
func formFields(form *goquery.Selection) map[string]string {
	fields := map[string]string{}
	set := func(name, value string) {
		if _, exists := fields[name]; exists && value == "" {
			return
		}
		fields[name] = value
	}

	form.Find("input, textarea, select").Each(func(_ int, field *goquery.Selection) {
		name := field.AttrOr("name", "")
		if name == "" {
			return
		}
		if _, disabled := field.Attr("disabled"); disabled {
			return
		}

		switch goquery.NodeName(field) {
		case "textarea":
			set(name, field.Text())

		case "select":
			selected := field.Find("option[selected]")
			if selected.Length() == 0 {
				if _, multiple := field.Attr("multiple"); !multiple {
					selected = field.Find("option").First()
				}
			}
			selected.Each(func(_ int, opt *goquery.Selection) {
				set(name, opt.AttrOr("value", strutil.NormalizeSpaces(opt.Text())))
			})

		default:
			switch strings.ToLower(field.AttrOr("type", "text")) {
			case "submit", "button", "reset", "image", "file":
			case "checkbox", "radio":
				if _, checked := field.Attr("checked"); checked {
					set(name, field.AttrOr("value", "on"))
				}
			default:
				set(name, field.AttrOr("value", ""))
			}
		}
	})

	return fields
}
