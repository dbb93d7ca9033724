// Package testutil 실제 포트를 사용하는 서버 테스트에 필요한 도우미를 제공합니다.
package testutil

import (
	"fmt"
	"net"
	"time"
)

// GetFreePort 운영체제가 할당한 빈 TCP 포트 번호를 반환합니다.
func GetFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port, nil
}

// WaitForServer localhost:port에 TCP 연결이 가능해질 때까지 최대 timeout 동안 기다립니다.
func WaitForServer(port int, timeout time.Duration) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(timeout)

	for {
		if conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond); err == nil {
			return conn.Close()
		}

		select {
		case <-ticker.C:
		case <-deadline:
			return fmt.Errorf("%s에서 %v 안에 서버가 시작되지 않았습니다", addr, timeout)
		}
	}
}
