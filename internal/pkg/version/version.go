// Package version 빌드 시점에 주입된 버전 정보와 실행 환경 정보를 제공합니다.
//
// 링커 플래그 예시:
//
//	go build -ldflags "-X github.com/darkkaiser/kepixel-server/internal/pkg/version.appVersion=v1.2.0 \
//	                   -X github.com/darkkaiser/kepixel-server/internal/pkg/version.gitCommitHash=f25b8bf"
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync/atomic"
)

const unknown = "unknown"

// 링커 플래그(-ldflags -X)로 주입되는 값입니다. 직접 읽지 말고 Get()을 사용합니다.
var (
	appVersion    = ""
	gitCommitHash = ""
	gitTreeState  = "" // clean 또는 dirty
	buildDate     = ""
	buildNumber   = ""
)

var current atomic.Pointer[Info]

// readBuildInfo 테스트에서 교체할 수 있도록 변수로 둡니다.
var readBuildInfo = debug.ReadBuildInfo

func init() {
	bi := resolve(Info{
		Version:     strings.TrimSpace(appVersion),
		Commit:      strings.TrimSpace(gitCommitHash),
		BuildDate:   strings.TrimSpace(buildDate),
		BuildNumber: strings.TrimSpace(buildNumber),
		DirtyBuild:  strings.EqualFold(strings.TrimSpace(gitTreeState), "dirty"),
	})
	current.Store(&bi)
}

// Info 애플리케이션 빌드 정보입니다. /version 응답과 시작 로그에 사용됩니다.
type Info struct {
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	BuildDate   string `json:"build_date"`
	BuildNumber string `json:"build_number"`
	GoVersion   string `json:"go_version"`
	OS          string `json:"os"`
	Arch        string `json:"arch"`
	DirtyBuild  bool   `json:"dirty_build"`
}

// Get 현재 프로세스의 빌드 정보를 반환합니다.
func Get() Info {
	if bi := current.Load(); bi != nil {
		return *bi
	}
	return Info{Version: unknown, Commit: unknown, BuildDate: unknown, BuildNumber: "0"}
}

// Version 애플리케이션 버전 문자열을 반환합니다.
func Version() string { return Get().Version }

// Commit Git 커밋 해시를 반환합니다.
func Commit() string { return Get().Commit }

// UserAgent 외부 서버로 요청을 보낼 때 사용할 User-Agent 값을 반환합니다.
//
// 예: "kepixel-server/v1.2.0 (go1.24.11; linux/amd64)"
func UserAgent(appName string) string {
	bi := Get()
	return fmt.Sprintf("%s/%s (%s; %s/%s)", appName, bi.Version, bi.GoVersion, bi.OS, bi.Arch)
}

// resolve 비어 있는 항목을 실행 환경과 모듈 빌드 정보(VCS 메타데이터)로 채웁니다.
// ldflags 없이 go run으로 실행한 경우에도 커밋 해시와 수정 여부를 얻을 수 있습니다.
func resolve(bi Info) Info {
	bi.GoVersion = firstNonEmpty(bi.GoVersion, runtime.Version())
	bi.OS = firstNonEmpty(bi.OS, runtime.GOOS)
	bi.Arch = firstNonEmpty(bi.Arch, runtime.GOARCH)

	if mod, ok := readBuildInfo(); ok {
		for _, s := range mod.Settings {
			switch s.Key {
			case "vcs.revision":
				if bi.Commit == "" || bi.Commit == "none" || bi.Commit == unknown {
					bi.Commit = s.Value
				}
			case "vcs.time":
				bi.BuildDate = firstNonEmpty(bi.BuildDate, s.Value)
			case "vcs.modified":
				bi.DirtyBuild = bi.DirtyBuild || s.Value == "true"
			}
		}
		if bi.Version == "" && mod.Main.Version != "(devel)" {
			bi.Version = mod.Main.Version
		}
	}

	bi.Version = firstNonEmpty(bi.Version, unknown)
	if bi.Commit == "" || bi.Commit == "none" {
		bi.Commit = unknown
	}

	return bi
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// String 로그에 남기기 위한 한 줄 요약입니다.
//
// 예: "v1.2.0+dirty (commit: f25b8bf, build: 42, go1.24.11 linux/amd64)"
func (i Info) String() string {
	if i.Version == "" {
		return unknown
	}

	v := i.Version
	if i.DirtyBuild {
		v += "+dirty"
	}

	var details []string
	if i.Commit != "" && i.Commit != unknown {
		details = append(details, "commit: "+i.Commit[:min(len(i.Commit), 7)])
	}
	if i.BuildNumber != "" {
		details = append(details, "build: "+i.BuildNumber)
	}
	if i.BuildDate != "" && i.BuildDate != unknown {
		details = append(details, "date: "+i.BuildDate)
	}
	if i.GoVersion != "" {
		details = append(details, strings.TrimSpace(i.GoVersion+" "+platform(i)))
	}

	if len(details) == 0 {
		return v
	}
	return v + " (" + strings.Join(details, ", ") + ")"
}

func platform(i Info) string {
	if i.OS == "" || i.Arch == "" {
		return ""
	}
	return i.OS + "/" + i.Arch
}
