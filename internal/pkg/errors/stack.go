package errors

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// defaultCallerSkip runtime.Callers, captureStack, 공개 생성 함수(New/Wrap 등) 3단계를 건너뜁니다.
const defaultCallerSkip = 3

// maxStackFrames 에러 하나에 기록하는 최대 호출 지점 수
const maxStackFrames = 5

// StackFrame 에러가 생성된 호출 지점입니다. File은 디렉터리를 뺀 파일 이름입니다.
type StackFrame struct {
	File     string
	Line     int
	Function string
}

// String "file.go:42 pkg.Func" 형태로 반환합니다. 함수 이름의 import 경로는 마지막 요소만 남깁니다.
func (f StackFrame) String() string {
	fn := f.Function
	if i := strings.LastIndexByte(fn, '/'); i >= 0 {
		fn = fn[i+1:]
	}
	return f.File + ":" + strconv.Itoa(f.Line) + " " + fn
}

func captureStack(skip int) []StackFrame {
	var pcs [maxStackFrames]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return nil
	}

	frames := make([]StackFrame, 0, n)
	it := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := it.Next()

		// 고루틴 진입점 같은 런타임 내부 프레임은 호출 위치 파악에 도움이 되지 않는다.
		if !strings.HasPrefix(frame.Function, "runtime.") {
			frames = append(frames, StackFrame{
				File:     filepath.Base(frame.File),
				Line:     frame.Line,
				Function: frame.Function,
			})
		}
		if !more {
			break
		}
	}

	return frames
}
