// Package log logrus 기반의 애플리케이션 공용 로깅 패키지입니다.
package log

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// WithComponent component 필드를 포함한 로그 Entry를 반환합니다.
func WithComponent(component string) *Entry {
	return logrus.WithField("component", component)
}

// WithComponentAndFields component 필드와 추가 필드를 포함한 로그 Entry를 반환합니다.
func WithComponentAndFields(component string, fields Fields) *Entry {
	merged := make(Fields, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["component"] = component

	return logrus.WithFields(merged)
}

// WithFields logrus.WithFields의 래퍼입니다.
func WithFields(fields Fields) *Entry {
	return logrus.WithFields(fields)
}

// WithContext logrus.WithContext의 래퍼입니다.
func WithContext(ctx context.Context) *Entry {
	return logrus.WithContext(ctx)
}

// SetDebugMode 디버그 모드이면 Trace, 아니면 Info 레벨로 설정합니다.
func SetDebugMode(debug bool) {
	if debug {
		logrus.SetLevel(TraceLevel)
	} else {
		logrus.SetLevel(InfoLevel)
	}
}

func StandardLogger() *Logger          { return logrus.StandardLogger() }
func SetOutput(w io.Writer)            { logrus.SetOutput(w) }
func SetLevel(level Level)             { logrus.SetLevel(level) }
func GetLevel() Level                  { return logrus.GetLevel() }
func SetFormatter(formatter Formatter) { logrus.SetFormatter(formatter) }
