package analytics

import (
	"context"
	"sync"
)

// Recorder 전달받은 Call을 메모리에 기록만 하는 Transport입니다. 테스트와 미리보기에 사용합니다.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	err   error
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Transport = (*Recorder)(nil)

// NewRecorder 새로운 Recorder를 생성합니다.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith 이후의 모든 Send 호출이 err를 반환하도록 설정합니다. nil이면 정상 동작으로 돌아갑니다.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.err = err
}

func (r *Recorder) Send(_ context.Context, call Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.calls = append(r.calls, call)

	return nil
}

// Calls 기록된 호출의 복사본을 반환합니다.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Call(nil), r.calls...)
}

// Events 기록된 track 호출만 Event 형태로 반환합니다.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []Event
	for _, call := range r.calls {
		if call.Type == TypeTrack {
			events = append(events, Event{Name: call.Event, Properties: call.Properties})
		}
	}

	return events
}

// Reset 기록된 호출을 모두 지웁니다.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = nil
}
