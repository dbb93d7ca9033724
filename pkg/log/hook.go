package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// hook 엔트리를 레벨과 컴포넌트에 따라 채널(파일)로 나눠 기록합니다.
//
//   - accessComponent 컴포넌트의 엔트리(HTTP 접근 로그)는 Access 채널로만 갑니다.
//   - 그 밖의 DEBUG 이하는 Verbose, INFO와 WARN은 Main에 기록됩니다.
//   - ERROR 이상은 접근 로그를 포함해 Critical에도 남고, Console은 모든 엔트리를 받습니다.
type hook struct {
	writers map[channel]io.Writer

	accessComponent string

	formatter Formatter

	mu     sync.RWMutex
	closed bool
}

type channel string

const (
	channelMain     channel = "Main"
	channelCritical channel = "Critical"
	channelVerbose  channel = "Verbose"
	channelAccess   channel = "Access"
	channelConsole  channel = "Console"
)

func (h *hook) Levels() []Level {
	return AllLevels
}

// channelsFor 엔트리가 기록될 채널 목록을 반환합니다.
func (h *hook) channelsFor(entry *Entry) []channel {
	channels := []channel{channelConsole}

	if entry.Level <= ErrorLevel {
		channels = append(channels, channelCritical)
	}

	switch {
	case h.accessComponent != "" && entry.Data["component"] == h.accessComponent && h.writers[channelAccess] != nil:
		channels = append(channels, channelAccess)
	case entry.Level >= DebugLevel:
		channels = append(channels, channelVerbose)
	default:
		channels = append(channels, channelMain)
	}

	return channels
}

func (h *hook) Fire(entry *Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	msg, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	var firstErr error
	for _, ch := range h.channelsFor(entry) {
		w := h.writers[ch]
		if w == nil {
			continue
		}
		if _, err := w.Write(msg); err != nil {
			// 콘솔 출력 실패는 파일 기록 결과에 영향을 주지 않는다.
			if ch != channelConsole && firstErr == nil {
				firstErr = err
			}
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-FAILURE] %s 로그 쓰기 실패: %v\n", ch, err)
		}
	}

	return firstErr
}

// Close 이후의 기록 요청을 모두 무시합니다. 진행 중인 Fire가 끝날 때까지 기다립니다.
func (h *hook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	return nil
}
