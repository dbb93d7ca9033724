package analytics

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/google/uuid"
)

// Transport 완성된 Call을 실제로 전달하는 수단입니다.
// 브라우저용 인라인 스크립트(ScriptBuffer)와 서버 측 HTTP 수집기(collector)가 이를 구현합니다.
type Transport interface {
	Send(ctx context.Context, call Call) error
}

// TransportFunc 일반 함수를 Transport로 사용하기 위한 어댑터입니다.
type TransportFunc func(ctx context.Context, call Call) error

func (f TransportFunc) Send(ctx context.Context, call Call) error {
	return f(ctx, call)
}

// Client track, identify, page 호출을 생성하여 Transport로 전달합니다.
//
// 비활성화된 Client(또는 nil Client)의 모든 호출은 아무것도 전송하지 않고 nil을 반환합니다.
type Client struct {
	transport Transport
	enabled   bool

	now   func() time.Time
	newID func() string

	observers []func(Call)
}

// Option Client 생성 옵션입니다.
type Option func(*Client)

// WithEnabled 추적 활성화 여부를 지정합니다. 기본값은 true입니다.
func WithEnabled(enabled bool) Option {
	return func(c *Client) { c.enabled = enabled }
}

// WithClock Call의 Timestamp에 사용할 시계를 지정합니다.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithIDGenerator Call의 MessageID 생성 함수를 지정합니다.
func WithIDGenerator(newID func() string) Option {
	return func(c *Client) { c.newID = newID }
}

// WithObserver 전송에 성공한 Call마다 호출될 함수를 등록합니다. (메트릭 수집 등)
func WithObserver(fn func(Call)) Option {
	return func(c *Client) { c.observers = append(c.observers, fn) }
}

// NewClient 새로운 Client를 생성합니다.
func NewClient(transport Transport, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		enabled:   true,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.enabled = false
	}

	return c
}

// Enabled 호출이 실제로 전송되는지 여부를 반환합니다.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// Track 이름이 event인 이벤트를 전송합니다.
func (c *Client) Track(ctx context.Context, event string, properties Properties) error {
	if !c.Enabled() {
		return nil
	}
	if strings.TrimSpace(event) == "" {
		return apperrors.New(apperrors.InvalidInput, "이벤트 이름이 비어있습니다")
	}
	if properties == nil {
		properties = Properties{}
	}

	return c.send(ctx, Call{Type: TypeTrack, Event: event, Properties: properties})
}

// TrackEvent 빌더가 생성한 Event를 전송합니다.
func (c *Client) TrackEvent(ctx context.Context, e Event) error {
	return c.Track(ctx, e.Name, e.Properties)
}

// Identify 사용자 식별 호출을 전송합니다. opts가 주어지면 첫 번째 값을 옵션 객체로 함께 전달합니다.
func (c *Client) Identify(ctx context.Context, userID string, traits Traits, opts ...CallOptions) error {
	if !c.Enabled() {
		return nil
	}
	if strings.TrimSpace(userID) == "" {
		return apperrors.New(apperrors.InvalidInput, "식별 대상 사용자 ID가 비어있습니다")
	}
	if traits == nil {
		traits = Traits{}
	}

	call := Call{Type: TypeIdentify, UserID: userID, Traits: traits}
	if len(opts) > 0 {
		call.Options = opts[0]
		if call.Options == nil {
			call.Options = CallOptions{}
		}
	}

	return c.send(ctx, call)
}

// Page 페이지 조회 호출을 전송합니다.
func (c *Client) Page(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	return c.send(ctx, Call{Type: TypePage})
}

func (c *Client) send(ctx context.Context, call Call) error {
	call.MessageID = c.newID()
	call.Timestamp = c.now().UTC()

	if err := c.transport.Send(ctx, call); err != nil {
		return err
	}

	for _, fn := range c.observers {
		fn(call)
	}

	return nil
}
