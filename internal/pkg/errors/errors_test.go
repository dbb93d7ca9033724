package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	err := New(NotFound, "상품을 찾을 수 없습니다")

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, NotFound, appErr.Type())
	assert.Equal(t, "상품을 찾을 수 없습니다", appErr.Message())
	assert.Equal(t, "[NotFound] 상품을 찾을 수 없습니다", err.Error())
	assert.NotEmpty(t, appErr.Stack())
}

func TestNewf(t *testing.T) {
	t.Parallel()

	err := Newf(InvalidInput, "잘못된 상품 ID: %d", 42)
	assert.Equal(t, "[InvalidInput] 잘못된 상품 ID: 42", err.Error())
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("성공: 원인 에러 보존", func(t *testing.T) {
		t.Parallel()

		cause := context.DeadlineExceeded
		err := Wrap(cause, Timeout, "수집 서버 응답 대기 시간 초과")

		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.True(t, Is(err, Timeout))
		assert.Contains(t, err.Error(), "context deadline exceeded")
		assert.Equal(t, cause, RootCause(err))
	})

	t.Run("성공: nil 에러는 nil 반환", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, Wrap(nil, System, "무시"))
		assert.Nil(t, Wrapf(nil, System, "무시 %d", 1))
	})
}

func TestIs_ChainTraversal(t *testing.T) {
	t.Parallel()

	inner := New(Conflict, "이미 추적된 후원입니다")
	outer := Wrap(inner, Internal, "후원 추적 실패")
	wrapped := fmt.Errorf("handler: %w", outer)

	assert.True(t, Is(wrapped, Conflict))
	assert.True(t, Is(wrapped, Internal))
	assert.False(t, Is(wrapped, NotFound))
	assert.Equal(t, Conflict, UnderlyingType(wrapped))
	assert.Equal(t, Unknown, UnderlyingType(errors.New("plain")))
}

func TestAs(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrap: %w", New(Forbidden, "nonce 검증 실패"))

	var appErr *AppError
	require.True(t, As(err, &appErr))
	assert.Equal(t, Forbidden, appErr.Type())
}

func TestAppError_Format(t *testing.T) {
	t.Parallel()

	root := errors.New("connection refused")
	err := Wrap(Wrap(root, System, "Redis 연결 실패"), Internal, "레코드 저장 실패")

	out := fmt.Sprintf("%+v", err)
	assert.True(t, strings.HasPrefix(out, "[Internal] 레코드 저장 실패"))
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "connection refused")
	assert.Equal(t, 1, strings.Count(out, "Stack trace:"), "스택은 외부 에러 경계에서 한 번만 출력되어야 합니다")

	assert.Equal(t, err.Error(), fmt.Sprintf("%v", err))
	assert.Equal(t, fmt.Sprintf("%q", err.Error()), fmt.Sprintf("%q", err))
}

func TestErrorType_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		errType ErrorType
		want    string
	}{
		{Unknown, "Unknown"},
		{Internal, "Internal"},
		{ExecutionFailed, "ExecutionFailed"},
		{Unavailable, "Unavailable"},
		{ErrorType(99), "ErrorType(99)"},
		{ErrorType(-1), "ErrorType(-1)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.errType.String())
	}
}

func TestStackTrace_PointsToCaller(t *testing.T) {
	t.Parallel()

	err := New(Internal, "stack")

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	require.NotEmpty(t, appErr.Stack())
	assert.Equal(t, "errors_test.go", appErr.Stack()[0].File)
	assert.Contains(t, appErr.Stack()[0].Function, "TestStackTrace_PointsToCaller")
}

func TestStackFrame_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		frame StackFrame
		want  string
	}{
		{
			name:  "성공: import 경로 제거",
			frame: StackFrame{File: "service.go", Line: 42, Function: "github.com/darkkaiser/kepixel-server/internal/store.(*FileStore).Enqueue"},
			want:  "service.go:42 store.(*FileStore).Enqueue",
		},
		{
			name:  "성공: 경로 없는 함수",
			frame: StackFrame{File: "main.go", Line: 7, Function: "main.main"},
			want:  "main.go:7 main.main",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.frame.String())
		})
	}
}

func TestCaptureStack_SkipsRuntimeFrames(t *testing.T) {
	t.Parallel()

	for _, frame := range captureStack(1) {
		assert.NotContains(t, frame.Function, "runtime.", "런타임 프레임은 제외되어야 합니다")
	}
}
