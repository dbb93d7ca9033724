package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
)

// globalObject 브라우저에서 kepixel 로더가 노출하는 전역 객체 이름입니다.
// 로더가 아직 로드되지 않았다면 같은 이름의 배열에 호출을 쌓아두고, 로더가 이를 재생합니다.
const globalObject = "window.kepixelAnalytics"

// ScriptBuffer 전달받은 Call을 모아 하나의 인라인 <script> 블록으로 렌더링하는 Transport입니다.
type ScriptBuffer struct {
	mu    sync.Mutex
	calls []Call

	domReady bool
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Transport = (*ScriptBuffer)(nil)

// NewScriptBuffer 새로운 ScriptBuffer를 생성합니다.
// domReady가 true이면 렌더링된 호출 전체를 DOMContentLoaded 리스너 안에서 실행합니다.
func NewScriptBuffer(domReady bool) *ScriptBuffer {
	return &ScriptBuffer{domReady: domReady}
}

func (b *ScriptBuffer) Send(_ context.Context, call Call) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, call)

	return nil
}

// Len 버퍼에 쌓인 호출 수를 반환합니다.
func (b *ScriptBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.calls)
}

// Calls 버퍼에 쌓인 호출의 복사본을 반환합니다.
func (b *ScriptBuffer) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]Call(nil), b.calls...)
}

// Render 쌓인 호출을 <script> 블록으로 렌더링합니다. 호출이 없으면 빈 문자열을 반환합니다.
func (b *ScriptBuffer) Render() (string, error) {
	calls := b.Calls()
	if len(calls) == 0 {
		return "", nil
	}

	var body strings.Builder
	for _, call := range calls {
		snippet, err := Snippet(call)
		if err != nil {
			return "", err
		}
		body.WriteString(snippet)
	}

	return ScriptTag(body.String(), b.domReady), nil
}

// ScriptTag 자바스크립트 코드를 <script> 블록으로 감쌉니다.
func ScriptTag(code string, domReady bool) string {
	var sb strings.Builder
	sb.WriteString("<script type=\"text/javascript\">\n")
	if domReady {
		sb.WriteString("document.addEventListener(\"DOMContentLoaded\", function() {\n")
		sb.WriteString(code)
		sb.WriteString("});\n")
	} else {
		sb.WriteString(code)
	}
	sb.WriteString("</script>\n")

	return sb.String()
}

// Snippet 단일 Call을 로더 로드 여부와 무관하게 동작하는 자바스크립트 코드로 변환합니다.
//
// 로더가 이미 로드되어 메서드가 존재하면 직접 호출하고,
// 그렇지 않으면 전역 배열에 [method, ...args] 형태로 쌓아둡니다.
func Snippet(call Call) (string, error) {
	var args []any
	switch call.Type {
	case TypeTrack:
		args = []any{call.Event, call.Properties}
	case TypeIdentify:
		args = []any{call.UserID, call.Traits}
		if call.Options != nil {
			args = append(args, call.Options)
		}
	case TypePage:
	default:
		return "", apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지원하지 않는 호출 타입입니다: '%s'", call.Type))
	}

	return MethodSnippet(string(call.Type), args...)
}

// MethodSnippet 전역 객체의 method를 args로 호출하는 자바스크립트 코드를 생성합니다.
// 인자는 JSON으로 직렬화되며 '<', '>', '&'는 유니코드 이스케이프되어 </script> 주입이 불가능합니다.
func MethodSnippet(method string, args ...any) (string, error) {
	encoded := make([]string, 0, len(args))
	for _, arg := range args {
		data, err := json.Marshal(arg)
		if err != nil {
			return "", apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("'%s' 호출 인자의 JSON 변환에 실패했습니다", method))
		}
		encoded = append(encoded, string(data))
	}

	methodName, _ := json.Marshal(method)
	pushArgs := append([]string{string(methodName)}, encoded...)

	var sb strings.Builder
	fmt.Fprintf(&sb, "if (%s && typeof %s.%s === \"function\") {\n", globalObject, globalObject, method)
	fmt.Fprintf(&sb, "    %s.%s(%s);\n", globalObject, method, strings.Join(encoded, ", "))
	sb.WriteString("} else {\n")
	fmt.Fprintf(&sb, "    %s = %s || [];\n", globalObject, globalObject)
	fmt.Fprintf(&sb, "    %s.push([%s]);\n", globalObject, strings.Join(pushArgs, ", "))
	sb.WriteString("}\n")

	return sb.String(), nil
}
