package log

import "github.com/sirupsen/logrus"

// silentFormatter 기본 출력 경로에서의 포맷팅을 생략합니다. 실제 포맷팅은 hook에서 한 번만 수행합니다.
type silentFormatter struct{}

func (f *silentFormatter) Format(_ *logrus.Entry) ([]byte, error) {
	return nil, nil
}
