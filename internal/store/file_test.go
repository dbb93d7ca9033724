package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) Store {
	t.Helper()

	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFileStore(t *testing.T) {
	testStoreContract(t, newTestFileStore)
}

func TestNewFileStore(t *testing.T) {
	t.Run("성공: 하위 디렉토리 생성", func(t *testing.T) {
		dir := t.TempDir()
		_, err := NewFileStore(dir)
		require.NoError(t, err)

		for _, sub := range []string{kvDirName, claimsDirName, outboxDirName, archiveDirName} {
			info, err := os.Stat(filepath.Join(dir, sub))
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		}
	})

	t.Run("실패: 파일을 디렉토리로 사용", func(t *testing.T) {
		filePath := filepath.Join(t.TempDir(), "file_as_dir")
		require.NoError(t, os.WriteFile(filePath, []byte("test"), 0644))

		s, err := NewFileStore(filePath)
		require.Error(t, err)
		assert.Nil(t, s)
		assert.Contains(t, err.Error(), "저장소 초기화 실패")
	})
}

func TestFileStore_UpdateRecord_ArchivesTerminalRecords(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	delivered := newRecord("shop", "delivered", base)
	abandoned := newRecord("shop", "abandoned", base.Add(time.Second))
	retrying := newRecord("shop", "retrying", base.Add(2*time.Second))
	require.NoError(t, s.Enqueue(ctx, delivered, abandoned, retrying))

	delivered.Delivered = true
	abandoned.Abandoned = true
	retrying.Attempts = 1
	for _, r := range []Record{delivered, abandoned, retrying} {
		require.NoError(t, s.UpdateRecord(ctx, r))
	}

	countJSON := func(sub string) int {
		entries, err := os.ReadDir(filepath.Join(dir, sub))
		require.NoError(t, err)
		n := 0
		for _, e := range entries {
			if filepath.Ext(e.Name()) == ".json" {
				n++
			}
		}
		return n
	}

	// 대기열 조회는 outbox 디렉토리만 읽으므로 남은 파일 수가 조회 비용이다.
	assert.Equal(t, 1, countJSON(outboxDirName))
	assert.Equal(t, 2, countJSON(archiveDirName))

	pending, err := s.ListPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, retrying.ID, pending[0].ID)
}

func TestFileStore_CleanupStaleTempFiles(t *testing.T) {
	dir := t.TempDir()
	kvDir := filepath.Join(dir, kvDirName)
	require.NoError(t, os.MkdirAll(kvDir, 0755))

	stale := filepath.Join(kvDir, "kepixel-stale.tmp")
	fresh := filepath.Join(kvDir, "kepixel-fresh.tmp")
	require.NoError(t, os.WriteFile(stale, nil, 0644))
	require.NoError(t, os.WriteFile(fresh, nil, 0644))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	s := &fileStore{baseDir: dir}
	s.cleanupStaleTempFiles(kvDir)

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}

func TestFileStore_ListPending_SkipsCorruptRecords(t *testing.T) {
	s := newTestFileStore(t)
	fs := s.(*fileStore)

	ctx := context.Background()
	r := newRecord("shop", "ok", time.Now())
	require.NoError(t, s.Enqueue(ctx, r))
	require.NoError(t, os.WriteFile(filepath.Join(fs.baseDir, outboxDirName, "record-broken.json"), []byte("{"), 0644))

	pending, err := s.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, r.ID, pending[0].ID)
}

func TestFileStore_CanceledContext(t *testing.T) {
	s := newTestFileStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.PutJSON(ctx, "k", 1), context.Canceled)
	_, err := s.Claim(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
