package markup

import (
	"context"
	"io"
)

// contextAwareReader 매 Read 호출 전에 컨텍스트 취소 여부를 확인하는 io.Reader 래퍼입니다.
//
// 기본 Reader가 Read 내부에서 블로킹되면 취소를 즉시 감지할 수 없으므로,
// 메모리에 적재된 본문처럼 블로킹되지 않는 Reader와 함께 사용합니다.
type contextAwareReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *contextAwareReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
