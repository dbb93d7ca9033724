// Package analytics kepixel 수집 서버로 전달되는 track, identify, page 호출을 생성하고
// 교체 가능한 Transport를 통해 전송하는 이벤트 추적 클라이언트를 제공합니다.
package analytics

import "time"

// CallType 추적 호출의 종류입니다.
type CallType string

const (
	TypeTrack    CallType = "track"
	TypeIdentify CallType = "identify"
	TypePage     CallType = "page"
)

// Properties track 호출에 첨부되는 이벤트 속성입니다.
type Properties map[string]any

// Traits identify 호출에 첨부되는 사용자(또는 후원자) 속성입니다.
type Traits map[string]any

// CallOptions identify 호출의 세 번째 인자로 전달되는 옵션 객체입니다.
type CallOptions map[string]any

// Call 수집 서버로 전달되는 단일 추적 호출입니다.
//
// MessageID는 호출마다 새로 생성되는 UUID이며, 수집 서버는 이 값으로 중복 수신을 제거합니다.
// 따라서 동일한 Call을 재전송해도 이벤트가 두 번 기록되지 않습니다.
type Call struct {
	Type       CallType    `json:"type"`
	Event      string      `json:"event,omitempty"`
	UserID     string      `json:"userId,omitempty"`
	Properties Properties  `json:"properties,omitempty"`
	Traits     Traits      `json:"traits,omitempty"`
	Options    CallOptions `json:"options,omitempty"`
	MessageID  string      `json:"messageId"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Event 이벤트 빌더가 생성하는 이름과 속성의 쌍입니다.
type Event struct {
	Name       string     `json:"name"`
	Properties Properties `json:"properties"`
}
