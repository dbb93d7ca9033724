package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/darkkaiser/kepixel-server/pkg/concurrency"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
)

// defaultDataDirectory 저장 디렉토리가 지정되지 않았을 때 사용하는 기본 디렉토리 이름입니다.
const defaultDataDirectory = "data"

// tempFilePattern 원자적 쓰기 중 생성되는 임시 파일의 이름 패턴입니다.
const tempFilePattern = "kepixel-*.tmp"

const (
	kvDirName      = "kv"
	claimsDirName  = "claims"
	outboxDirName  = "outbox"
	archiveDirName = "archive"
)

// fileStore 파일 시스템 기반 저장소입니다.
//
// [디렉토리 구조]
//   - kv/kv-{키}-{hash}.json: PutJSON으로 저장된 값
//   - claims/claim-{키}-{hash}: Claim으로 선점된 키 (빈 파일)
//   - outbox/record-{id}-{hash}.json: 전송 대기 중인 outbox 레코드
//   - archive/record-{id}-{hash}.json: 전송 완료 또는 포기된 레코드 (ListPending 조회 대상 아님)
type fileStore struct {
	baseDir string

	// locks 같은 파일에 대한 동시 읽기/쓰기를 막는 파일별 뮤텍스입니다.
	locks *concurrency.KeyedMutex[string]
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Store = (*fileStore)(nil)

// NewFileStore dir 아래에 파일 저장소를 생성합니다. 빈 문자열이면 "data" 디렉토리를 사용합니다.
//
// 초기화 시 하위 디렉토리를 만들고, 이전 실행에서 남은 임시 파일을 백그라운드에서 정리합니다.
func NewFileStore(dir string) (Store, error) {
	if dir == "" {
		dir = defaultDataDirectory
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "저장소 초기화 실패: 절대 경로 변환 불가")
	}

	for _, sub := range []string{kvDirName, claimsDirName, outboxDirName, archiveDirName} {
		if err := os.MkdirAll(filepath.Join(absDir, sub), 0755); err != nil {
			return nil, apperrors.Wrapf(err, apperrors.Internal, "저장소 초기화 실패: 디렉토리 접근 불가 (%s)", absDir)
		}
	}

	s := &fileStore{
		baseDir: absDir,

		locks: concurrency.NewKeyedMutex[string](),
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				applog.WithComponentAndFields(component, applog.Fields{
					"base_dir": s.baseDir,
					"panic":    r,
				}).Error("임시 파일 정리 중단: 백그라운드 작업 패닉 발생")
			}
		}()

		for _, sub := range []string{kvDirName, outboxDirName, archiveDirName} {
			s.cleanupStaleTempFiles(filepath.Join(s.baseDir, sub))
		}
	}()

	return s, nil
}

// cleanupStaleTempFiles 비정상 종료로 남은 1시간 이상 지난 임시 파일을 삭제합니다.
func (s *fileStore) cleanupStaleTempFiles(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"dir":   dir,
			"error": err,
		}).Warn("임시 파일 정리 중단: 디렉토리 조회 실패")

		return
	}

	threshold := time.Now().Add(-1 * time.Hour)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if matched, _ := filepath.Match(tempFilePattern, entry.Name()); !matched {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(threshold) {
			continue
		}

		fullPath := filepath.Join(dir, entry.Name())
		if err := os.Remove(fullPath); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"file":  fullPath,
				"error": err,
			}).Warn("임시 파일 삭제 실패: 파일 제거 오류")
		} else {
			applog.WithComponentAndFields(component, applog.Fields{
				"file": fullPath,
			}).Info("임시 파일 삭제 완료: 이전 실행 잔존 파일 정리")
		}
	}
}

// Claim 선점 파일을 O_EXCL로 생성합니다. 파일 생성은 프로세스 사이에서도 원자적입니다.
func (s *fileStore) Claim(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	filename, err := s.resolveSafePath(claimsDirName, "claim", key, "")
	if err != nil {
		return false, err
	}

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, apperrors.Wrap(err, apperrors.Internal, "키 선점 실패: 선점 파일 생성 중 오류가 발생했습니다")
	}
	_, _ = f.WriteString(time.Now().UTC().Format(time.RFC3339))

	return true, f.Close()
}

func (s *fileStore) Release(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	filename, err := s.resolveSafePath(claimsDirName, "claim", key, "")
	if err != nil {
		return err
	}

	if err := os.Remove(filename); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperrors.Wrap(err, apperrors.Internal, "키 선점 해제 실패: 선점 파일 삭제 중 오류가 발생했습니다")
	}
	return nil
}

func (s *fileStore) PutJSON(ctx context.Context, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	filename, err := s.resolveSafePath(kvDirName, "kv", key, ".json")
	if err != nil {
		return err
	}

	return s.save(filename, v)
}

func (s *fileStore) GetJSON(ctx context.Context, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	filename, err := s.resolveSafePath(kvDirName, "kv", key, ".json")
	if err != nil {
		return err
	}

	return s.load(filename, v)
}

func (s *fileStore) Enqueue(ctx context.Context, records ...Record) error {
	for _, r := range records {
		if err := s.UpdateRecord(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// ListPending outbox 디렉토리의 레코드를 읽어 생성 순서로 반환합니다.
// 전송이 끝난 레코드는 archive 디렉토리로 옮겨지므로 outbox에는 대기 중인 레코드만 남습니다.
func (s *fileStore) ListPending(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.baseDir, outboxDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "outbox 조회 실패: 디렉토리를 읽을 수 없습니다")
	}

	var pending []Record
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var r Record
		if err := s.load(filepath.Join(dir, entry.Name()), &r); err != nil {
			if apperrors.Is(err, apperrors.NotFound) {
				continue
			}

			applog.WithComponentAndFields(component, applog.Fields{
				"file":  entry.Name(),
				"error": err,
			}).Warn("outbox 레코드 읽기 실패: 해당 레코드를 건너뜁니다")

			continue
		}
		if r.Pending() {
			pending = append(pending, r)
		}
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	return pending, nil
}

func (s *fileStore) UpdateRecord(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.ID == "" {
		return ErrEmptyKey
	}

	filename, err := s.resolveSafePath(outboxDirName, "record", r.ID, ".json")
	if err != nil {
		return err
	}
	if r.Pending() {
		return s.save(filename, r)
	}

	// 보관본을 먼저 쓴 뒤 대기열 파일을 지운다. 삭제에 실패해도 다음 갱신에서 다시 옮겨진다.
	archived, err := s.resolveSafePath(archiveDirName, "record", r.ID, ".json")
	if err != nil {
		return err
	}
	if err := s.save(archived, r); err != nil {
		return err
	}

	return s.locks.WithLock(strings.ToLower(filename), func() error {
		if err := os.Remove(filename); err != nil && !errors.Is(err, os.ErrNotExist) {
			return apperrors.Wrap(err, apperrors.Internal, "레코드 보관 실패: 대기열 파일 삭제 중 오류가 발생했습니다")
		}
		return nil
	})
}

func (s *fileStore) Close() error {
	return nil
}

func (s *fileStore) load(filename string, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return apperrors.New(apperrors.Internal, "내부 시스템 오류: 데이터 로드 대상 객체가 올바른 포인터 타입이 아닙니다")
	}

	var data []byte
	err := s.locks.WithLock(strings.ToLower(filename), func() error {
		var readErr error
		data, readErr = os.ReadFile(filename)
		if readErr != nil {
			if os.IsNotExist(readErr) {
				return ErrNotFound
			}
			return apperrors.Wrap(readErr, apperrors.Internal, "데이터 조회 실패: 파일 읽기 중 오류가 발생했습니다")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "데이터 처리 실패: JSON 역직렬화 중 오류가 발생했습니다")
	}

	return nil
}

func (s *fileStore) save(filename string, v any) error {
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "데이터 처리 실패: JSON 직렬화 중 오류가 발생했습니다")
	}

	return s.locks.WithLock(strings.ToLower(filename), func() error {
		return writeAtomic(filename, data)
	})
}

// resolveSafePath key로 만든 파일 경로가 sub 디렉토리를 벗어나지 않는지 검증한 뒤 반환합니다.
func (s *fileStore) resolveSafePath(sub, prefix, key, ext string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrEmptyKey
	}

	basePath := filepath.Join(s.baseDir, sub)
	cleanPath := filepath.Clean(filepath.Join(basePath, generateFilename(prefix, key, ext)))

	rel, err := filepath.Rel(basePath, cleanPath)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.Internal, "보안 검증 실패: 파일 경로를 해석할 수 없습니다")
	}
	if strings.HasPrefix(rel, "..") {
		applog.WithComponentAndFields(component, applog.Fields{
			"key":      key,
			"base_dir": basePath,
			"path":     cleanPath,
		}).Error("파일 경로 생성 차단: 경로 이탈 시도 감지")

		return "", apperrors.New(apperrors.Internal, "보안 정책 위반: 허용되지 않은 경로 접근 시도로 인해 요청이 차단되었습니다")
	}

	return cleanPath, nil
}

// writeAtomic 임시 파일 쓰기, fsync, rename 순서로 파일을 원자적으로 교체합니다.
func writeAtomic(filename string, data []byte) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "데이터 저장 실패: 임시 파일 생성 중 오류가 발생했습니다")
	}
	tmpPath := tmpFile.Name()

	// Windows에서는 열린 파일을 지울 수 없으므로 Close가 Remove보다 먼저 실행되어야 한다.
	defer os.Remove(tmpPath)
	defer tmpFile.Close()

	if _, err := tmpFile.Write(data); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "데이터 저장 실패: 파일 쓰기 중 오류가 발생했습니다")
	}
	if err := tmpFile.Sync(); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "데이터 저장 실패: 디스크 동기화 중 오류가 발생했습니다")
	}
	if err := tmpFile.Close(); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "데이터 저장 실패: 파일 닫기 중 오류가 발생했습니다")
	}
	if err := renameWithRetry(tmpPath, filename); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "데이터 저장 실패: 파일 이름 변경 중 오류가 발생했습니다")
	}

	if dirFile, err := os.Open(dir); err == nil {
		_ = dirFile.Sync()
		dirFile.Close()
	}

	return nil
}

// renameWithRetry 백신이나 인덱서가 파일을 잠시 잠그는 개발 환경(Windows)을 위해 rename을 몇 차례 재시도합니다.
func renameWithRetry(oldPath, newPath string) error {
	const maxRetries = 5
	const retryDelay = 10 * time.Millisecond

	var lastErr error
	for range maxRetries {
		err := os.Rename(oldPath, newPath)
		if err == nil {
			return nil
		}

		lastErr = err
		time.Sleep(retryDelay)
	}

	return lastErr
}
