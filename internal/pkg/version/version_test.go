package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubBuildInfo resolve가 읽을 모듈 빌드 정보를 교체합니다. 전역 변수를 바꾸므로 병렬로 실행하지 않습니다.
func stubBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()

	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	t.Cleanup(func() { readBuildInfo = orig })
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		input  Info
		module *debug.BuildInfo
		expect Info
	}{
		{
			name:   "성공: 주입된 값 유지",
			input:  Info{Version: "v1.2.0", Commit: "f25b8bf", BuildDate: "2026-10-01"},
			module: &debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0000000"}}},
			expect: Info{Version: "v1.2.0", Commit: "f25b8bf", BuildDate: "2026-10-01"},
		},
		{
			name:  "성공: VCS 메타데이터로 보강",
			input: Info{},
			module: &debug.BuildInfo{
				Main: debug.Module{Version: "v0.9.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc1234def"},
					{Key: "vcs.time", Value: "2026-09-30T12:00:00Z"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			expect: Info{Version: "v0.9.0", Commit: "abc1234def", BuildDate: "2026-09-30T12:00:00Z", DirtyBuild: true},
		},
		{
			name:   "성공: 개발 빌드는 unknown",
			input:  Info{Commit: "none"},
			module: &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			expect: Info{Version: unknown, Commit: unknown},
		},
		{
			name:   "성공: 모듈 정보 없음",
			input:  Info{},
			module: nil,
			expect: Info{Version: unknown, Commit: unknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubBuildInfo(t, tt.module)

			got := resolve(tt.input)

			tt.expect.GoVersion = runtime.Version()
			tt.expect.OS = runtime.GOOS
			tt.expect.Arch = runtime.GOARCH
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestInfo_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		info   Info
		expect string
	}{
		{name: "성공: 버전 없음", info: Info{}, expect: unknown},
		{name: "성공: 버전만 존재", info: Info{Version: "v1.0.0", Commit: unknown}, expect: "v1.0.0"},
		{
			name:   "성공: 전체 정보",
			info:   Info{Version: "v1.2.0", Commit: "f25b8bf0123", BuildNumber: "42", BuildDate: "2026-10-01", GoVersion: "go1.24.11", OS: "linux", Arch: "amd64", DirtyBuild: true},
			expect: "v1.2.0+dirty (commit: f25b8bf, build: 42, date: 2026-10-01, go1.24.11 linux/amd64)",
		},
		{name: "성공: 짧은 커밋 해시", info: Info{Version: "v1", Commit: "abc"}, expect: "v1 (commit: abc)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expect, tt.info.String())
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	bi := Get()
	assert.NotEmpty(t, bi.Version)
	assert.Equal(t, runtime.Version(), bi.GoVersion)
	assert.Equal(t, bi.Version, Version())
	assert.Equal(t, bi.Commit, Commit())
}

func TestUserAgent(t *testing.T) {
	t.Parallel()

	ua := UserAgent("kepixel-server")
	assert.Contains(t, ua, "kepixel-server/"+Version())
	assert.Contains(t, ua, runtime.GOOS+"/"+runtime.GOARCH)
}
