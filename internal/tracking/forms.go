package tracking

import (
	"strings"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/pkg/strutil"
)

const (
	defaultFormStatus = "submitted"
	defaultFormLabel  = "wpcf7"
)

// FormSubmission 제출된 문의 양식의 메타 정보와 입력값입니다.
type FormSubmission struct {
	Status  string
	FormID  string
	UnitTag string
	Locale  string
	Label   string
	Action  string
	URL     string
	Title   string

	// Fields 입력 필드 이름과 값입니다. '_'로 시작하는 내부 필드와 빈 값은 이벤트에서 제외됩니다.
	Fields map[string]string
}

// FormSubmitted "Form Submitted" 이벤트를 생성합니다.
func (b *Builder) FormSubmitted(f FormSubmission) analytics.Event {
	fields := make(map[string]any, len(f.Fields))
	for name, value := range f.Fields {
		if name == "" || strings.HasPrefix(name, "_") || value == "" {
			continue
		}
		fields[name] = value
	}

	return analytics.Event{
		Name: EventFormSubmitted,
		Properties: analytics.Properties{
			"status":        strutil.FirstNonEmpty(f.Status, defaultFormStatus),
			"form_id":       f.FormID,
			"form_unit_tag": f.UnitTag,
			"form_locale":   f.Locale,
			"form_label":    strutil.FirstNonEmpty(f.Label, defaultFormLabel),
			"action":        f.Action,
			"url":           f.URL,
			"title":         f.Title,
			"fields":        fields,
		},
	}
}
