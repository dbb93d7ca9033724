package collector

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
)

var (
	// ErrMaxRetriesExceeded 재시도 횟수를 모두 소진했음을 나타냅니다.
	ErrMaxRetriesExceeded = apperrors.New(apperrors.Unavailable, "최대 재시도 횟수를 초과했습니다")

	// ErrWriteKeyRequired Write Key 없이 전송을 시도했음을 나타냅니다.
	ErrWriteKeyRequired = apperrors.New(apperrors.InvalidInput, "수집 서버 전송에는 Write Key가 필요합니다")
)

// StatusError 수집 서버가 2xx가 아닌 상태 코드를 반환했을 때의 에러입니다.
type StatusError struct {
	StatusCode  int
	Status      string
	URL         string
	BodySnippet string
	Cause       error
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("수집 서버 응답 오류: HTTP %d (%s) URL: %s", e.StatusCode, e.Status, e.URL)
	if e.BodySnippet != "" {
		msg += ", Body: " + e.BodySnippet
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return e.Cause
}

// newStatusError 응답 본문 일부를 담은 StatusError를 생성하고 응답 본문을 닫습니다.
func newStatusError(u *url.URL, resp *http.Response, cause error) error {
	var snippet string
	if resp.Body != nil {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippet))
		snippet = string(data)
		drainAndCloseBody(resp.Body)
	}

	if cause == nil {
		errType := apperrors.ExecutionFailed
		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			errType = apperrors.Unauthorized
		case resp.StatusCode == http.StatusForbidden:
			errType = apperrors.Forbidden
		case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
			errType = apperrors.InvalidInput
		case isRetriableStatus(resp.StatusCode):
			errType = apperrors.Unavailable
		}
		cause = apperrors.New(errType, "수집 서버가 요청을 거부했습니다")
	}

	return &StatusError{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		URL:         redactURL(u),
		BodySnippet: snippet,
		Cause:       cause,
	}
}

// redactURL 로그와 에러 메시지에 남길 수 있도록 사용자 정보와 쿼리 값을 가린 URL을 반환합니다.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	clone := *u
	if clone.User != nil {
		clone.User = url.User("***")
	}
	if clone.RawQuery != "" {
		q := clone.Query()
		for key := range q {
			q.Set(key, "***")
		}
		clone.RawQuery = q.Encode()
	}

	return clone.String()
}
